package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/bff/common/llm"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/service"
	"basegraph.app/bff/internal/store"
)

var _ = Describe("GenerationService", func() {
	const (
		schema    = "type Query { user(id: ID!): User }"
		userStory = "As a user, I want to fetch my profile by id."
		query     = `query { user(id: "1") { id name } }`
	)

	var (
		ctx       context.Context
		llmClient *mockLLMClient
		history   *mockHistoryStore
		svc       service.GenerationService
	)

	BeforeEach(func() {
		ctx = context.Background()
		llmClient = &mockLLMClient{}
		history = &mockHistoryStore{}
		svc = service.NewGenerationService(llmClient, history)
	})

	// captureLogs routes the default logger into a buffer for one spec and
	// returns a func decoding every JSON line written so far.
	captureLogs := func() func() []map[string]any {
		var buf bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
		DeferCleanup(func() { slog.SetDefault(prev) })

		return func() []map[string]any {
			var entries []map[string]any
			dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
			for dec.More() {
				var entry map[string]any
				Expect(dec.Decode(&entry)).To(Succeed())
				entries = append(entries, entry)
			}
			return entries
		}
	}

	findLog := func(entries []map[string]any, msg string) map[string]any {
		for _, e := range entries {
			if e["msg"] == msg {
				return e
			}
		}
		Fail("no log line " + msg)
		return nil
	}

	Describe("Generate", func() {
		Context("when an input is missing", func() {
			DescribeTable("rejects the request without calling the LLM or the store",
				func(req model.GenerationRequest, field, message string) {
					_, err := svc.Generate(ctx, req)

					Expect(err).To(MatchError(service.ErrValidation))
					var vErr *service.ValidationError
					Expect(errors.As(err, &vErr)).To(BeTrue())
					Expect(vErr.Field).To(Equal(field))
					Expect(err.Error()).To(Equal(message))

					Expect(llmClient.prompts).To(BeEmpty())
					Expect(history.appended).To(BeEmpty())
				},
				Entry("empty schema", model.GenerationRequest{UserStory: userStory}, "schema", service.MsgSchemaRequired),
				Entry("blank schema", model.GenerationRequest{Schema: " \n\t", UserStory: userStory}, "schema", service.MsgSchemaRequired),
				Entry("empty user story", model.GenerationRequest{Schema: schema}, "userStory", service.MsgUserStoryRequired),
				Entry("both empty reports the schema first", model.GenerationRequest{}, "schema", service.MsgSchemaRequired),
			)
		})

		Context("when the LLM returns a query", func() {
			BeforeEach(func() {
				llmClient.completeFn = func(_ context.Context, _ string) (string, error) {
					return query, nil
				}
			})

			It("returns the query and appends exactly one history record", func() {
				got, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(query))
				Expect(history.appended).To(Equal([]model.NewHistoryRecord{{
					Schema:         schema,
					UserStory:      userStory,
					GeneratedQuery: query,
				}}))
			})

			It("sends one prompt embedding both inputs", func() {
				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).NotTo(HaveOccurred())
				Expect(llmClient.prompts).To(HaveLen(1))
				Expect(llmClient.prompts[0]).To(ContainSubstring(schema))
				Expect(llmClient.prompts[0]).To(ContainSubstring(userStory))
			})

			It("logs what the schema looks like", func() {
				logs := captureLogs()

				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema + "\ntype User { id: ID! name: String }", UserStory: userStory})

				Expect(err).NotTo(HaveOccurred())
				entry := findLog(logs(), "generating query")
				Expect(entry["schema_format"]).To(Equal("sdl"))
				Expect(entry["schema_has_query"]).To(BeTrue())
				Expect(entry).NotTo(HaveKey("schema_parse_error"))
			})

			It("logs the parse error of a schema that is not SDL", func() {
				logs := captureLogs()

				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: "type Query {", UserStory: userStory})

				Expect(err).NotTo(HaveOccurred())
				entry := findLog(logs(), "generating query")
				Expect(entry["schema_format"]).To(Equal("unknown"))
				Expect(entry["schema_parse_error"]).NotTo(BeEmpty())
			})

			It("still succeeds when the history store fails", func() {
				history.appendFn = func(_ context.Context, _ model.NewHistoryRecord) (*model.HistoryRecord, error) {
					return nil, fmt.Errorf("history append: %w", store.ErrStoreUnavailable)
				}

				got, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(query))
				Expect(history.appended).To(HaveLen(1))
			})
		})

		Context("when the LLM fails", func() {
			It("propagates upstream errors and does not persist", func() {
				llmClient.completeFn = func(_ context.Context, _ string) (string, error) {
					return "", &llm.UpstreamError{Provider: "anthropic", StatusCode: 500, Body: `{"error":"rate limited"}`}
				}

				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).To(MatchError(llm.ErrUpstream))
				var upErr *llm.UpstreamError
				Expect(errors.As(err, &upErr)).To(BeTrue())
				Expect(upErr.Message()).To(Equal("rate limited"))
				Expect(llmClient.prompts).To(HaveLen(1), "must not retry")
				Expect(history.appended).To(BeEmpty())
			})

			It("logs the cause of upstream failures that carry no status", func() {
				logs := captureLogs()
				llmClient.completeFn = func(_ context.Context, _ string) (string, error) {
					return "", fmt.Errorf("dial tcp 10.0.0.1:443: connection refused: %w", &llm.UpstreamError{Provider: "anthropic"})
				}

				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).To(MatchError(llm.ErrUpstream))
				entry := findLog(logs(), "completion API returned an error")
				Expect(entry["status_code"]).To(BeNumerically("==", 0))
				Expect(entry["error"]).To(ContainSubstring("connection refused"))
			})

			It("propagates malformed responses and does not persist", func() {
				llmClient.completeFn = func(_ context.Context, _ string) (string, error) {
					return "", fmt.Errorf("%w: no text block", llm.ErrMalformedResponse)
				}

				_, err := svc.Generate(ctx, model.GenerationRequest{Schema: schema, UserStory: userStory})

				Expect(err).To(MatchError(llm.ErrMalformedResponse))
				Expect(history.appended).To(BeEmpty())
			})
		})
	})
})
