package llm

import "strings"

// Credentials select a provider for a single request.
type Credentials struct {
	Provider string
	APIKey   string
	Model    string
}

// ClientFactory builds clients for per-request credentials.
type ClientFactory interface {
	NewClient(creds Credentials) (LLMClient, LLMConfig, error)
}

// ConfigFactory layers credentials over a base configuration.
type ConfigFactory struct {
	Base     LLMConfig
	Observer Observer
}

// NewClientFactory returns a ConfigFactory over base.
func NewClientFactory(base LLMConfig, observer Observer) *ConfigFactory {
	return &ConfigFactory{Base: base, Observer: observer}
}

// NewClient fails with ErrNotConfigured when no API key is available from
// either the credentials or the base configuration.
func (f *ConfigFactory) NewClient(creds Credentials) (LLMClient, LLMConfig, error) {
	cfg, err := f.Base.WithProvider(creds.Provider)
	if err != nil {
		return nil, cfg, err
	}
	if key := strings.TrimSpace(creds.APIKey); key != "" {
		cfg.APIKey = key
	}
	if cfg.APIKey == "" {
		return nil, cfg, ErrNotConfigured
	}
	if creds.Model != "" {
		cfg.Model = creds.Model
	}
	return NewChatClient(cfg, f.Observer), cfg, nil
}
