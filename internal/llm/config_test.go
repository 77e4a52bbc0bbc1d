package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_HasNoKey(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskPlaybook))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PEPLAYBOOK_AI_PROVIDER", "ollama")
	t.Setenv("PEPLAYBOOK_AI_API_KEY", "sk-test")
	t.Setenv("PEPLAYBOOK_AI_MODEL", "mistral")
	t.Setenv("PEPLAYBOOK_AI_TIMEOUT_MS", "1500")
	t.Setenv("PEPLAYBOOK_AI_MAX_RETRIES", "3")
	t.Setenv("PEPLAYBOOK_AI_TEMPERATURE", "0.2")

	cfg := LoadConfig()

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Endpoint)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, 1500*time.Millisecond, cfg.TaskTimeout(TaskPlaybook))
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 0.2, cfg.Tasks[TaskPlaybook].Temperature)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("PEPLAYBOOK_AI_TIMEOUT_MS", "not-a-number")
	t.Setenv("PEPLAYBOOK_AI_MAX_RETRIES", "-2")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskPlaybook))
	assert.Equal(t, 1, cfg.MaxRetries)
}

func TestWithProvider(t *testing.T) {
	base := DefaultConfig()
	base.APIKey = "sk-openai"

	same, err := base.WithProvider("OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", same.APIKey)

	groq, err := base.WithProvider("groq")
	require.NoError(t, err)
	assert.Equal(t, "https://api.groq.com/openai/v1", groq.Endpoint)
	assert.Empty(t, groq.APIKey, "keys do not travel between providers")

	_, err = base.WithProvider("acme-ai")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientFactory_RequiresKey(t *testing.T) {
	f := NewClientFactory(DefaultConfig(), NoopObserver{})

	_, _, err := f.NewClient(Credentials{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, _, err = f.NewClient(Credentials{Provider: "openai", APIKey: "   "})
	assert.ErrorIs(t, err, ErrNotConfigured)

	client, cfg, err := f.NewClient(Credentials{Provider: "openrouter", APIKey: "sk-1", Model: "meta/llama"})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "meta/llama", cfg.Model)
	assert.Equal(t, "openrouter", cfg.Provider)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "TIMEOUT", ErrorCode(ErrTimeout))
	assert.Equal(t, "NOT_CONFIGURED", ErrorCode(ErrNotConfigured))
	assert.Equal(t, "UNKNOWN", ErrorCode(assert.AnError))
}

func TestCleanText(t *testing.T) {
	raw := "```markdown\r\nTITLE: Jump Week\r\n```\r\n"
	assert.Equal(t, "TITLE: Jump Week", CleanText(raw))
}

func TestApplyEnv_LeavesBaseUntouched(t *testing.T) {
	base := DefaultConfig()
	env := map[string]string{"PEPLAYBOOK_AI_TIMEOUT_MS": "900", "PEPLAYBOOK_AI_MAX_TOKENS": "512"}

	got := base.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, 900*time.Millisecond, got.TaskTimeout(TaskPlaybook))
	assert.Equal(t, 512, got.Tasks[TaskPlaybook].MaxTokens)
	assert.Equal(t, 30*time.Second, base.TaskTimeout(TaskPlaybook))
	assert.Equal(t, 3000, base.Tasks[TaskPlaybook].MaxTokens)
}
