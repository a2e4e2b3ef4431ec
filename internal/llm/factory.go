package llm

import (
	"context"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// Config selects and parameterizes a provider. One Config describes one
// client; the classifier and the reply generator get separate configs so
// they can run different models and temperatures.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	AccessKey   string
	SecretKey   string
	Region      string
	Temperature *float32
	MaxTokens   *int
	JSONObject  bool
}

// Enabled reports whether the required credentials are present.
func (c Config) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewClient builds the provider named by cfg.Provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderArk:
		return NewArk(ctx, cfg)
	case ProviderOpenAI, "":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
