package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Provider constants for LLM provider selection.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

const (
	DefaultAnthropicModel = "claude-3-sonnet-20240229"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 4000
)

// Config holds LLM client configuration.
type Config struct {
	Provider   string // "anthropic" or "openai"
	APIKey     string // Checked on first call, not at construction
	BaseURL    string // Optional: custom API endpoint
	Model      string
	MaxTokens  int
	HTTPClient *http.Client // Optional
}

// Client sends a single-turn prompt to a completion API and returns the text
// of the first content block.
//
// Failures wrap ErrUpstream (non-success status, transport failure, missing
// credential) or ErrMalformedResponse (success status, unexpected shape).
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
	Provider() string
}

// NewClient creates a Client for cfg.Provider. Defaults to Anthropic.
func NewClient(cfg Config) (Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderAnthropic
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
