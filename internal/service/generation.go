package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/bff/common/llm"
	"basegraph.app/bff/common/logger"
	"basegraph.app/bff/internal/gqlschema"
	"basegraph.app/bff/internal/metrics"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/prompt"
	"basegraph.app/bff/internal/store"
)

const (
	MsgSchemaRequired    = "Please upload a GraphQL schema file"
	MsgUserStoryRequired = "Please upload a user story file"
)

var ErrValidation = errors.New("validation error")

// ValidationError reports a missing or empty required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type GenerationService interface {
	// Generate returns the generated query. Errors wrap ErrValidation,
	// llm.ErrUpstream or llm.ErrMalformedResponse. History persistence
	// failures are logged and never returned.
	Generate(ctx context.Context, req model.GenerationRequest) (string, error)
}

type generationService struct {
	llm     llm.Client
	history store.HistoryStore
}

func NewGenerationService(client llm.Client, history store.HistoryStore) GenerationService {
	return &generationService{
		llm:     client,
		history: history,
	}
}

func (s *generationService) Generate(ctx context.Context, req model.GenerationRequest) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:   "bff.service.generation",
		LLMProvider: logger.Ptr(s.llm.Provider()),
	})

	if err := validate(req); err != nil {
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeValidation).Inc()
		slog.InfoContext(ctx, "generation request rejected",
			"field", err.Field,
			"schema_length", len(req.Schema),
			"user_story_length", len(req.UserStory))
		return "", err
	}

	summary := gqlschema.Inspect(req.Schema)
	attrs := []any{
		"schema_length", len(req.Schema),
		"user_story_length", len(req.UserStory),
		"schema_format", summary.Format,
		"schema_types", summary.Types,
		"schema_has_query", summary.HasQuery,
	}
	if summary.ParseErr != "" {
		attrs = append(attrs, "schema_parse_error", logger.Truncate(summary.ParseErr, 256))
	}
	slog.InfoContext(ctx, "generating query", attrs...)

	instruction := prompt.Build(req.Schema, req.UserStory)

	query, err := s.complete(ctx, instruction)
	if err != nil {
		return "", err
	}

	s.record(ctx, req, query)

	metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	slog.InfoContext(ctx, "query generated", "query_length", len(query))
	return query, nil
}

func (s *generationService) complete(ctx context.Context, instruction string) (string, error) {
	sc := logger.StartSpan(ctx, "llm.complete", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	sc.SetAttributes(
		attribute.String("llm.provider", s.llm.Provider()),
		attribute.String("llm.model", s.llm.Model()),
		attribute.Int("llm.prompt_length", len(instruction)),
	)

	start := time.Now()
	query, err := s.llm.Complete(sc.Context(), instruction)
	metrics.UpstreamDuration.WithLabelValues(s.llm.Provider()).Observe(time.Since(start).Seconds())
	if err == nil {
		return query, nil
	}

	sc.RecordError(err)

	var upErr *llm.UpstreamError
	switch {
	case errors.As(err, &upErr):
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeUpstream).Inc()
		slog.ErrorContext(ctx, "completion API returned an error",
			"error", err,
			"status_code", upErr.StatusCode,
			"body", logger.Truncate(upErr.Body, 512),
			"model", s.llm.Model())
	case errors.Is(err, llm.ErrMalformedResponse):
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		slog.ErrorContext(ctx, "completion API returned an unexpected response", "error", err)
	default:
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeInternal).Inc()
		slog.ErrorContext(ctx, "completion failed", "error", err)
	}

	return "", fmt.Errorf("generating query: %w", err)
}

// record persists the generation. Failure is logged and dropped: the query has
// already been produced and is returned regardless.
func (s *generationService) record(ctx context.Context, req model.GenerationRequest, query string) {
	rec, err := s.history.Append(ctx, model.NewHistoryRecord{
		Schema:         req.Schema,
		UserStory:      req.UserStory,
		GeneratedQuery: query,
	})
	if err != nil {
		metrics.HistoryAppendFailuresTotal.Inc()
		slog.WarnContext(ctx, "failed to persist query history", "error", err)
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{HistoryID: logger.Ptr(rec.ID)})
	slog.DebugContext(ctx, "query history persisted")
}

func validate(req model.GenerationRequest) *ValidationError {
	if strings.TrimSpace(req.Schema) == "" {
		return &ValidationError{Field: "schema", Message: MsgSchemaRequired}
	}
	if strings.TrimSpace(req.UserStory) == "" {
		return &ValidationError{Field: "userStory", Message: MsgUserStoryRequired}
	}
	return nil
}
