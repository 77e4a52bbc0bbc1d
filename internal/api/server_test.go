package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/generator"
	"github.com/alexanderramin/peplaybook/internal/intelligence"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/service"
	"github.com/alexanderramin/peplaybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type testEnv struct {
	srv       *httptest.Server
	playbooks service.PlaybookService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tr := testutil.NewTestTransactor(t)
	cat := catalog.Load("")
	gen := generator.New(cat, generator.WithSeed(3),
		generator.WithClock(func() time.Time { return time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC) }))

	aiCfg := llm.DefaultConfig()
	aiCfg.MaxRetries = 0
	ai := intelligence.NewPlaybookService(gen, llm.NewClientFactory(aiCfg, llm.NoopObserver{}))

	playbooks := service.NewPlaybookService(tr, gen, ai)
	s := NewServer(playbooks, service.NewSettingsService(tr), service.NewCatalogService(cat), testutil.DiscardLogger())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, playbooks: playbooks}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func (e *testEnv) seed(t *testing.T, titles ...string) []*domain.StoredPlaybook {
	t.Helper()
	out := make([]*domain.StoredPlaybook, 0, len(titles))
	for _, title := range titles {
		sp := testutil.NewTestPlaybook(title)
		saved, err := e.playbooks.Save(t.Context(), &sp.Playbook, "")
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
}

func TestGenerate_DeterministicSavesWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/v1/playbooks/generate", map[string]any{
		"gradeLevel": "K-2",
		"standards":  []string{"S1"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	var out generateResponse
	require.NoError(t, json.Unmarshal(body.Data, &out))
	assert.True(t, out.Saved)
	assert.Equal(t, domain.GradeK2, out.Playbook.Metadata.GradeLevel)
	assert.Equal(t, domain.Duration45, out.Playbook.Metadata.Duration, "duration comes from settings")
	assert.Len(t, out.Playbook.Lessons, 5)

	_, list := env.do(t, http.MethodGet, "/api/v1/playbooks", nil)
	var listed struct {
		Playbooks []playbookSummary `json:"playbooks"`
		Total     int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &listed))
	assert.Equal(t, 1, listed.Total)
	assert.Equal(t, out.Playbook.ID, listed.Playbooks[0].ID)
}

func TestGenerate_SeedIsRepeatable(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"seed": 9, "save": false}

	resp, first := env.do(t, http.MethodPost, "/api/v1/playbooks/generate", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, second := env.do(t, http.MethodPost, "/api/v1/playbooks/generate", body)

	var a, b generateResponse
	require.NoError(t, json.Unmarshal(first.Data, &a))
	require.NoError(t, json.Unmarshal(second.Data, &b))
	assert.False(t, a.Saved)
	assert.Equal(t, a.Playbook.Lessons, b.Playbook.Lessons)
}

func TestGenerate_Errors(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/playbooks/generate", map[string]any{"duration": 50})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "validation_error", body.Error.Code)

	resp, body = env.do(t, http.MethodPost, "/api/v1/playbooks/generate", map[string]any{"mode": "ai"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ai_not_configured", body.Error.Code)

	resp, body = env.do(t, http.MethodPost, "/api/v1/playbooks/generate", map[string]any{"colour": "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", body.Error.Code)
}

func TestPlaybookCRUD(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seed(t, "Throwing Unit", "Balance Unit")
	id := seeded[0].ID

	resp, body := env.do(t, http.MethodGet, "/api/v1/playbooks/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.StoredPlaybook
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, "Throwing Unit", got.Title)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/playbooks/"+id, map[string]any{
		"name":     "Fall throwing",
		"favorite": true,
		"tags":     []string{"Fall"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary playbookSummary
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.Equal(t, "Fall throwing", summary.Name)
	assert.True(t, summary.Favorite)
	assert.Equal(t, []string{"fall"}, summary.Tags)

	resp, _ = env.do(t, http.MethodPatch, "/api/v1/playbooks/"+id, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/playbooks/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/v1/playbooks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestRetentionFullIsConflict(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPatch, "/api/v1/settings", map[string]string{"retention_cap": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	seeded := env.seed(t, "Only")
	resp, _ = env.do(t, http.MethodPatch, "/api/v1/playbooks/"+seeded[0].ID, map[string]any{"favorite": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/v1/playbooks/generate", map[string]any{"save": true})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "retention_full", body.Error.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seed(t, "Throwing Unit")

	resp, err := http.Get(env.srv.URL + "/api/v1/playbooks/" + seeded[0].ID + "/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "throwing-unit.csv")
	assert.Contains(t, string(raw), "Throwing Unit")

	r2, body := env.do(t, http.MethodGet, "/api/v1/playbooks/"+seeded[0].ID+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, r2.StatusCode)
	assert.Equal(t, "unknown_format", body.Error.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/standards", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var standards struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &standards))
	assert.Positive(t, standards.Total)

	resp, body = env.do(t, http.MethodGet, "/api/v1/activities?category=warmup&grade=K-2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var activities struct {
		Activities []domain.Activity `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &activities))
	require.NotEmpty(t, activities.Activities)
	for _, a := range activities.Activities {
		assert.Equal(t, domain.CategoryWarmup, a.Category)
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/activities?grade=college", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPatch, "/api/v1/settings", map[string]string{"default_grade": "6-8"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s domain.Settings
	require.NoError(t, json.Unmarshal(body.Data, &s))
	assert.Equal(t, domain.Grade68, s.DefaultGrade)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/settings", map[string]string{"default_duration": "50"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error.Code)
}

func TestBackupAndRestore(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "A", "B")

	resp, err := http.Get(env.srv.URL + "/api/v1/backup")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "peplaybook-backup-")

	other := newTestEnv(t)
	r2, err := http.Post(other.srv.URL+"/api/v1/restore", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer r2.Body.Close()
	assert.Equal(t, http.StatusOK, r2.StatusCode)

	list, err := other.playbooks.List(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Title)

	r3, body := other.do(t, http.MethodPost, "/api/v1/restore", map[string]any{"playbooks": []any{}})
	assert.Equal(t, http.StatusBadRequest, r3.StatusCode)
	assert.Equal(t, "invalid_backup", body.Error.Code)
}

func TestUpdatePlaybook_RejectedEditChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Throwing Unit")[0].ID

	resp, body := env.do(t, http.MethodPatch, "/api/v1/playbooks/"+id, map[string]any{
		"favorite": true,
		"tags":     []string{"fall"},
		"name":     "   ",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error.Code)

	got, err := env.playbooks.Get(t.Context(), id)
	require.NoError(t, err)
	assert.False(t, got.Favorite)
	assert.Empty(t, got.Tags)
}

func TestClearPlaybooks(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "A", "B", "C")

	resp, body := env.do(t, http.MethodDelete, "/api/v1/playbooks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]int
	require.NoError(t, json.Unmarshal(body.Data, &out))
	assert.Equal(t, 3, out["removed"])

	list, err := env.playbooks.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAIStatus(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/ai/status?provider=groq", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st intelligence.Status
	require.NoError(t, json.Unmarshal(body.Data, &st))
	assert.Equal(t, "groq", st.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", st.Model)
	assert.False(t, st.Configured)
	assert.Equal(t, "NOT_CONFIGURED", st.Error)
}
