package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUpstream          = errors.New("upstream error")
	ErrMalformedResponse = errors.New("malformed upstream response")
)

const redacted = "[REDACTED]"

// UpstreamError is returned when the completion API could not produce a
// response. StatusCode is zero when no response was received.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string // Raw upstream body, for diagnostics
	err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		if e.err != nil {
			return fmt.Sprintf("%s request failed: %v", e.Provider, e.err)
		}
		return fmt.Sprintf("%s request failed: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

// Message extracts a human-readable message from the upstream body.
// Understands {"error":"..."}, {"error":{"message":"..."}} and {"message":"..."}.
// Returns "" when the body carries none.
func (e *UpstreamError) Message() string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}

	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return body.Message
}

// newUpstreamError builds an UpstreamError with the API key scrubbed from every
// string the error can render.
func newUpstreamError(provider, apiKey string, status int, body string, cause error) *UpstreamError {
	e := &UpstreamError{
		Provider:   provider,
		StatusCode: status,
		Body:       scrub(body, apiKey),
	}
	if cause != nil {
		e.err = &scrubbedError{msg: scrub(cause.Error(), apiKey), cause: cause}
	}
	return e
}

// maxErrorBodyBytes bounds how much of an upstream error body is kept.
const maxErrorBodyBytes = 64 << 10

// errorBody returns the raw upstream error body. The SDKs only expose parsed
// JSON through RawJSON, so non-JSON bodies (plain text, HTML from a proxy)
// are read back from the response, which the SDKs refill after reading.
func errorBody(rawJSON string, resp *http.Response, fallback string) string {
	if rawJSON != "" {
		return rawJSON
	}
	if resp != nil && resp.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err == nil && len(raw) > 0 {
			return string(raw)
		}
	}
	return fallback
}

// failedCall classifies an SDK failure that carries no API error. A 2xx
// response whose body could not be decoded is malformed; anything else
// (no response at all) is an upstream transport failure.
func failedCall(provider, apiKey string, resp *http.Response, err error) error {
	if resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return malformed("%s response could not be decoded: %s", provider, scrub(err.Error(), apiKey))
	}
	return newUpstreamError(provider, apiKey, 0, "", err)
}

func missingAPIKey(provider string) *UpstreamError {
	return &UpstreamError{Provider: provider, Body: "API key is not configured"}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

type scrubbedError struct {
	msg   string
	cause error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.cause }

func scrub(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, redacted)
}
