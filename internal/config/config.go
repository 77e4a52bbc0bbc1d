// Package config assembles runtime configuration from defaults, an optional
// YAML file, and PEPLAYBOOK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/llm"
	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all configuration for peplaybook.
type Config struct {
	DBPath        string
	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CatalogDir    string
	// Retention overrides the stored retention setting when positive.
	Retention int
	HTTPAddr  string
	LogLevel  slog.Level
	AI        llm.LLMConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type fileConfig struct {
	DBPath     string `yaml:"db_path"`
	Store      string `yaml:"store"`
	CatalogDir string `yaml:"catalog_dir"`
	Retention  int    `yaml:"retention"`
	HTTPAddr   string `yaml:"http_addr"`
	LogLevel   string `yaml:"log_level"`
	Redis      struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       *int   `yaml:"db"`
	} `yaml:"redis"`
	AI struct {
		Provider    string   `yaml:"provider"`
		APIKey      string   `yaml:"api_key"`
		Endpoint    string   `yaml:"endpoint"`
		Model       string   `yaml:"model"`
		TimeoutMs   int      `yaml:"timeout_ms"`
		MaxRetries  *int     `yaml:"max_retries"`
		Temperature *float64 `yaml:"temperature"`
		MaxTokens   int      `yaml:"max_tokens"`
		LogCalls    *bool    `yaml:"log_calls"`
	} `yaml:"ai"`
}

// Default returns the configuration used when nothing is set. The database
// lives under ~/.peplaybook.
func Default() *Config {
	dbPath := "peplaybook.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".peplaybook", "peplaybook.db")
	}
	return &Config{
		DBPath:    dbPath,
		Store:     StoreSQLite,
		RedisAddr: "localhost:6379",
		HTTPAddr:  ":8080",
		LogLevel:  slog.LevelWarn,
		AI:        llm.DefaultConfig(),
	}
}

// Load reads the config file named by PEPLAYBOOK_CONFIG, or
// ~/.peplaybook/config.yaml when it exists, then applies environment
// overrides and validates the result.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	path := strings.TrimSpace(getenv("PEPLAYBOOK_CONFIG"))
	explicit := path != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".peplaybook", "config.yaml")
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.File = path

	setString(&c.DBPath, fc.DBPath)
	setString(&c.Store, strings.ToLower(fc.Store))
	setString(&c.CatalogDir, fc.CatalogDir)
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.RedisAddr, fc.Redis.Addr)
	setString(&c.RedisPassword, fc.Redis.Password)
	if fc.Redis.DB != nil {
		c.RedisDB = *fc.Redis.DB
	}
	if fc.Retention != 0 {
		c.Retention = fc.Retention
	}
	if fc.LogLevel != "" {
		level, err := parseLevel(fc.LogLevel)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		c.LogLevel = level
	}

	ai := fc.AI
	if ai.Provider != "" {
		if c.AI, err = c.AI.WithProvider(ai.Provider); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	setString(&c.AI.APIKey, ai.APIKey)
	setString(&c.AI.Endpoint, strings.TrimRight(ai.Endpoint, "/"))
	setString(&c.AI.Model, ai.Model)
	if ai.TimeoutMs > 0 {
		c.AI = c.AI.WithTimeout(ai.TimeoutMs)
	}
	if ai.MaxRetries != nil {
		c.AI.MaxRetries = *ai.MaxRetries
	}
	if ai.LogCalls != nil {
		c.AI.LogCalls = *ai.LogCalls
	}
	if ai.Temperature != nil || ai.MaxTokens > 0 {
		tasks := make(map[llm.TaskType]llm.TaskConfig, len(c.AI.Tasks))
		for k, v := range c.AI.Tasks {
			tasks[k] = v
		}
		tc := tasks[llm.TaskPlaybook]
		if ai.Temperature != nil {
			tc.Temperature = *ai.Temperature
		}
		if ai.MaxTokens > 0 {
			tc.MaxTokens = ai.MaxTokens
		}
		tasks[llm.TaskPlaybook] = tc
		c.AI.Tasks = tasks
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.DBPath = envString(getenv, "PEPLAYBOOK_DB", c.DBPath)
	c.Store = strings.ToLower(envString(getenv, "PEPLAYBOOK_STORE", c.Store))
	c.RedisAddr = envString(getenv, "PEPLAYBOOK_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envString(getenv, "PEPLAYBOOK_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envInt(getenv, "PEPLAYBOOK_REDIS_DB", c.RedisDB)
	c.CatalogDir = envString(getenv, "PEPLAYBOOK_CATALOG_DIR", c.CatalogDir)
	c.Retention = envInt(getenv, "PEPLAYBOOK_RETENTION", c.Retention)
	c.HTTPAddr = envString(getenv, "PEPLAYBOOK_HTTP_ADDR", c.HTTPAddr)
	if v := getenv("PEPLAYBOOK_LOG_LEVEL"); v != "" {
		if level, err := parseLevel(v); err == nil {
			c.LogLevel = level
		}
	}
	c.AI = c.AI.ApplyEnv(getenv)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("database path is required")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreRedis)
	}
	if c.Retention < 0 {
		return fmt.Errorf("invalid retention: %d", c.Retention)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.RedisDB)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Helper functions

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envString(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
