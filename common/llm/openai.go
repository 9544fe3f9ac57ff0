package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIClient struct {
	client    openai.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewOpenAIClient creates a Client backed by the OpenAI chat completions API.
func NewOpenAIClient(cfg Config) Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
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
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &openAIClient{
		client:    openai.NewClient(opts...),
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", missingAPIKey(ProviderOpenAI)
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
	}

	var httpResp *http.Response
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := errorBody(apiErr.RawJSON(), apiErr.Response, apiErr.Error())
			return "", newUpstreamError(ProviderOpenAI, c.apiKey, apiErr.StatusCode, body, err)
		}
		return "", failedCall(ProviderOpenAI, c.apiKey, httpResp, err)
	}

	slog.DebugContext(ctx, "openai completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", malformed("openai response has no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", malformed("openai response message is empty")
	}

	return content, nil
}

func (c *openAIClient) Model() string {
	return c.model
}

func (c *openAIClient) Provider() string {
	return ProviderOpenAI
}
