package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicClient struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewAnthropicClient creates a Client backed by the Anthropic Messages API.
// The SDK sends the x-api-key and anthropic-version headers.
func NewAnthropicClient(cfg Config) Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// One request per generation; failures surface immediately.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &anthropicClient{
		client:    anthropic.NewClient(opts...),
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", missingAPIKey(ProviderAnthropic)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			},
		},
	}

	var httpResp *http.Response
	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			body := errorBody(apiErr.RawJSON(), apiErr.Response, apiErr.Error())
			return "", newUpstreamError(ProviderAnthropic, c.apiKey, apiErr.StatusCode, body, err)
		}
		return "", failedCall(ProviderAnthropic, c.apiKey, httpResp, err)
	}

	slog.DebugContext(ctx, "anthropic completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	if len(resp.Content) == 0 {
		return "", malformed("anthropic response has no content blocks")
	}

	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if block.Text == "" {
			return "", malformed("anthropic text block is empty")
		}
		return block.Text, nil
	}

	return "", malformed("anthropic response has no text block")
}

func (c *anthropicClient) Model() string {
	return c.model
}

func (c *anthropicClient) Provider() string {
	return ProviderAnthropic
}
