package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPlaybook TaskType = "playbook"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Preset is the default endpoint and model for a named provider. Every
// provider speaks the same chat-completions wire shape.
type Preset struct {
	Endpoint string
	Model    string
}

// Presets maps provider names to their defaults.
var Presets = map[string]Preset{
	"openai":     {Endpoint: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	"openrouter": {Endpoint: "https://openrouter.ai/api/v1", Model: "openai/gpt-4o-mini"},
	"groq":       {Endpoint: "https://api.groq.com/openai/v1", Model: "llama-3.1-8b-instant"},
	"ollama":     {Endpoint: "http://localhost:11434/v1", Model: "llama3.2"},
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   string
	APIKey     string
	Endpoint   string
	Model      string
	LogCalls   bool
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig for the openai preset with no key.
func DefaultConfig() LLMConfig {
	p := Presets["openai"]
	return LLMConfig{
		Provider:   "openai",
		Endpoint:   p.Endpoint,
		Model:      p.Model,
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPlaybook: {Temperature: 0.7, MaxTokens: 3000, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	return DefaultConfig().ApplyEnv(os.Getenv)
}

// ApplyEnv overlays PEPLAYBOOK_AI_* variables read through getenv onto c.
// Values that fail to parse are ignored.
func (c LLMConfig) ApplyEnv(getenv func(string) string) LLMConfig {
	cfg := c
	cfg.Tasks = make(map[TaskType]TaskConfig, len(c.Tasks))
	for k, v := range c.Tasks {
		cfg.Tasks[k] = v
	}

	if v := getenv("PEPLAYBOOK_AI_PROVIDER"); v != "" {
		if withPreset, err := cfg.WithProvider(v); err == nil {
			cfg = withPreset
		} else {
			cfg.Provider = strings.ToLower(v)
		}
	}
	if v := getenv("PEPLAYBOOK_AI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := getenv("PEPLAYBOOK_AI_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := getenv("PEPLAYBOOK_AI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := getenv("PEPLAYBOOK_AI_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := getenv("PEPLAYBOOK_AI_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg = cfg.WithTimeout(n)
		}
	}
	if v := getenv("PEPLAYBOOK_AI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := getenv("PEPLAYBOOK_AI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			tc := cfg.Tasks[TaskPlaybook]
			tc.Temperature = f
			cfg.Tasks[TaskPlaybook] = tc
		}
	}
	if v := getenv("PEPLAYBOOK_AI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tc := cfg.Tasks[TaskPlaybook]
			tc.MaxTokens = n
			cfg.Tasks[TaskPlaybook] = tc
		}
	}

	return cfg
}

// WithTimeout sets the global and playbook timeouts in milliseconds. The
// task map is copied so c is left untouched.
func (c LLMConfig) WithTimeout(ms int) LLMConfig {
	tasks := make(map[TaskType]TaskConfig, len(c.Tasks))
	for k, v := range c.Tasks {
		tasks[k] = v
	}
	tc := tasks[TaskPlaybook]
	tc.TimeoutMs = ms
	tasks[TaskPlaybook] = tc
	c.Tasks = tasks
	c.TimeoutMs = ms
	return c
}

// WithProvider returns a copy pointed at the named preset. Switching presets
// drops the API key. The "custom" provider keeps the configured endpoint,
// model and key.
func (c LLMConfig) WithProvider(name string) (LLMConfig, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == c.Provider {
		return c, nil
	}
	if name == "custom" {
		c.Provider = name
		return c, nil
	}
	p, ok := Presets[name]
	if !ok {
		return c, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, name)
	}
	c.Provider = name
	c.Endpoint = p.Endpoint
	c.Model = p.Model
	c.APIKey = ""
	return c, nil
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	ms := c.TimeoutMs
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		ms = tc.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}
