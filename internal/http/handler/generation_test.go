package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/bff/common/llm"
	"basegraph.app/bff/internal/http/handler"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/service"
)

var _ = Describe("GenerationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockGenerationService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockGenerationService{}
		h := handler.NewGenerationHandler(svc)
		router.POST("/generate-query", h.Generate)
	})

	post := func(body string) (*httptest.ResponseRecorder, model.GenerationResult) {
		req := httptest.NewRequest(http.MethodPost, "/generate-query", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var result model.GenerationResult
		Expect(json.Unmarshal(w.Body.Bytes(), &result)).To(Succeed())
		return w, result
	}

	It("returns 200 with the generated query", func() {
		svc.generateFn = func(_ context.Context, req model.GenerationRequest) (string, error) {
			return "query { me { id } }", nil
		}

		w, result := post(`{"schema":"type Query { me: User }","userStory":"show my id"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(result).To(Equal(model.GenerationResult{Success: true, Data: "query { me { id } }"}))
		Expect(svc.calls).To(Equal([]model.GenerationRequest{{Schema: "type Query { me: User }", UserStory: "show my id"}}))
	})

	It("returns 400 with the validation message", func() {
		svc.generateFn = func(_ context.Context, _ model.GenerationRequest) (string, error) {
			return "", &service.ValidationError{Field: "userStory", Message: service.MsgUserStoryRequired}
		}

		w, result := post(`{"schema":"type Query { a: Int }","userStory":""}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(result.Success).To(BeFalse())
		Expect(result.Error).To(Equal(service.MsgUserStoryRequired))
		Expect(result.Data).To(BeEmpty())
	})

	It("returns 400 for a body that is not JSON without calling the service", func() {
		w, result := post(`not json`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(result.Success).To(BeFalse())
		Expect(result.Error).To(Equal("Invalid request body"))
		Expect(svc.calls).To(BeEmpty())
	})

	It("surfaces the upstream message and raw body on upstream failure", func() {
		svc.generateFn = func(_ context.Context, _ model.GenerationRequest) (string, error) {
			return "", fmt.Errorf("generating query: %w", &llm.UpstreamError{
				Provider:   "anthropic",
				StatusCode: 500,
				Body:       `{"error":"rate limited"}`,
			})
		}

		w, result := post(`{"schema":"s","userStory":"u"}`)

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(result.Success).To(BeFalse())
		Expect(result.Error).To(Equal("rate limited"))
		Expect(result.Details).To(Equal(`{"error":"rate limited"}`))
	})

	It("uses a generic message when the upstream body carries none", func() {
		svc.generateFn = func(_ context.Context, _ model.GenerationRequest) (string, error) {
			return "", &llm.UpstreamError{Provider: "anthropic", StatusCode: 503, Body: "<html>unavailable</html>"}
		}

		w, result := post(`{"schema":"s","userStory":"u"}`)

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(result.Error).To(Equal("Failed to generate query"))
		Expect(result.Details).To(Equal("<html>unavailable</html>"))
	})

	It("reports malformed upstream responses like upstream errors", func() {
		svc.generateFn = func(_ context.Context, _ model.GenerationRequest) (string, error) {
			return "", fmt.Errorf("generating query: %w", fmt.Errorf("%w: no text block", llm.ErrMalformedResponse))
		}

		w, result := post(`{"schema":"s","userStory":"u"}`)

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(result.Error).To(Equal("Failed to generate query"))
		Expect(result.Details).To(ContainSubstring("no text block"))
	})

	It("hides unexpected errors", func() {
		svc.generateFn = func(_ context.Context, _ model.GenerationRequest) (string, error) {
			return "", errors.New("internal detail")
		}

		w, result := post(`{"schema":"s","userStory":"u"}`)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(result.Error).To(Equal("An unexpected error occurred"))
		Expect(w.Body.String()).NotTo(ContainSubstring("internal detail"))
	})
})
