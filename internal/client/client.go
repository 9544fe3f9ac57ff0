package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"basegraph.app/bff/internal/model"
)

const (
	MsgConnectionFailure = "connection failure"
	MsgGeneric           = "An error occurred while connecting to the AI service"

	generatePath = "/api/v1/generate-query"
	historyPath  = "/api/v1/history"

	// Upper bound on response bodies read from the server.
	maxBodyBytes = 4 << 20
)

// Client calls a running query generation server. Generate never returns an
// error: every failure is folded into the result envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Generation waits on the completion API, so the timeout is generous.
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) model.GenerationResult {
	body, err := json.Marshal(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal generation request", "error", err)
		return model.Failed(MsgGeneric)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create generation request", "error", err)
		return model.Failed(MsgGeneric)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.WarnContext(ctx, "generation request failed", "error", err)
		return model.Failed(MsgConnectionFailure)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		slog.WarnContext(ctx, "failed to read generation response", "error", err, "status", resp.StatusCode)
		return model.Failed(MsgGeneric)
	}

	var result model.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.WarnContext(ctx, "unparseable generation response",
			"error", err,
			"status", resp.StatusCode,
			"body_len", len(raw))
		return model.Failed(MsgGeneric)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if result.Error == "" {
			slog.WarnContext(ctx, "generation failed without error message", "status", resp.StatusCode)
			return model.Failed(MsgGeneric)
		}
		result.Success = false
		result.Data = ""
		return result
	}

	if !result.Success && result.Error == "" {
		return model.Failed(MsgGeneric)
	}
	return result
}

// History lists recent generations. limit <= 0 uses the server default.
func (c *Client) History(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	endpoint := c.baseURL + historyPath
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating history request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgConnectionFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading history response: %w", err)
	}

	var out struct {
		Success bool                  `json:"success"`
		Data    []model.HistoryRecord `json:"data"`
		Error   string                `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding history response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		if out.Error != "" {
			return nil, errors.New(out.Error)
		}
		return nil, fmt.Errorf("history request failed with status %d", resp.StatusCode)
	}
	if out.Data == nil {
		out.Data = []model.HistoryRecord{}
	}
	return out.Data, nil
}
