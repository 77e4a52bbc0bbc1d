package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_UpdateAndGet(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestTransactor(t))
	ctx := context.Background()

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)

	got, err = svc.Update(ctx, map[string]string{
		domain.KeyDefaultDuration:    "60",
		domain.KeyDefaultEnvironment: "outdoor",
		domain.KeyAutoSave:           "false",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Duration60, got.DefaultDuration)
	assert.Equal(t, domain.EnvOutdoor, got.DefaultEnvironment)
	assert.False(t, got.AutoSave)

	reloaded, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded)
}

func TestSettingsService_InvalidPairAbortsUpdate(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestTransactor(t))
	ctx := context.Background()

	_, err := svc.Update(ctx, map[string]string{
		domain.KeyDefaultGrade:    "6-8",
		domain.KeyDefaultDuration: "50",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Grade35, got.DefaultGrade, "no partial update")

	_, err = svc.Update(ctx, map[string]string{"colour": "blue"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogService_SortedAndFiltered(t *testing.T) {
	svc := NewCatalogService(catalog.Load(""))
	ctx := context.Background()

	standards := svc.Standards(ctx)
	require.NotEmpty(t, standards)
	for i := 1; i < len(standards); i++ {
		assert.LessOrEqual(t, standards[i-1].ID, standards[i].ID)
	}

	warmups := svc.Activities(ctx, catalog.Query{Category: domain.CategoryWarmup, Grade: domain.GradeK2})
	require.NotEmpty(t, warmups)
	for _, a := range warmups {
		assert.Equal(t, domain.CategoryWarmup, a.Category)
		assert.True(t, a.SupportsGrade(domain.GradeK2))
	}
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLogUseCaseObserver(logger)

	svc := NewSettingsService(testutil.NewTestTransactor(t), WithSettingsObserver(obs))
	_, err := svc.Update(context.Background(), map[string]string{domain.KeyAIModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "use_case=update-settings")
	assert.Contains(t, buf.String(), "success=true")

	buf.Reset()
	done := track(context.Background(), obs, "failing", map[string]any{"id": "pb_1"})
	failure := errors.New("boom")
	done(&failure)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "error=boom")
	assert.Contains(t, buf.String(), "id=pb_1")

	_, isNoop := NewLogUseCaseObserver(nil).(NoopUseCaseObserver)
	assert.True(t, isNoop)
}

func TestSettingsService_LowerRetentionTrimsStore(t *testing.T) {
	tr := testutil.NewTestTransactor(t)
	playbooks := NewPlaybookService(tr, newTestGenerator(), nil)
	ctx := context.Background()
	a, b, c, d := testutil.NewTestPlaybook("A"), testutil.NewTestPlaybook("B"),
		testutil.NewTestPlaybook("C"), testutil.NewTestPlaybook("D")
	saveAll(t, playbooks, a, b, c, d)
	_, err := playbooks.SetFavorite(ctx, a.ID, true)
	require.NoError(t, err)

	_, err = NewSettingsService(tr).Update(ctx, map[string]string{domain.KeyRetentionCap: "2"})
	require.NoError(t, err)

	list, err := playbooks.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{d.ID, a.ID}, idsOf(list), "oldest non-favorites go first")
}

func TestSettingsService_RetentionOverrideSkipsTrim(t *testing.T) {
	tr := testutil.NewTestTransactor(t)
	playbooks := NewPlaybookService(tr, newTestGenerator(), nil, WithRetention(5))
	ctx := context.Background()
	saveAll(t, playbooks, testutil.NewTestPlaybook("A"), testutil.NewTestPlaybook("B"), testutil.NewTestPlaybook("C"))

	_, err := NewSettingsService(tr, WithRetentionOverride(5)).Update(ctx, map[string]string{domain.KeyRetentionCap: "1"})
	require.NoError(t, err)

	list, err := playbooks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
