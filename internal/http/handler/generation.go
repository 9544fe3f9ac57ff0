package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/bff/common/llm"
	"basegraph.app/bff/internal/http/dto"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/service"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgGenerationFailed = "Failed to generate query"
	msgUnexpected       = "An unexpected error occurred"
)

type GenerationHandler struct {
	genService service.GenerationService
}

func NewGenerationHandler(genService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{genService: genService}
}

// Generate handles POST generate-query. Every response body is a
// model.GenerationResult.
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, model.Failed(msgInvalidBody))
		return
	}

	query, err := h.genService.Generate(ctx, req.ToModel())
	if err != nil {
		status, result := failureResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, model.Succeeded(query))
}

func failureResult(err error) (int, model.GenerationResult) {
	var (
		vErr  *service.ValidationError
		upErr *llm.UpstreamError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, model.Failed(vErr.Message)

	case errors.As(err, &upErr):
		result := model.Failed(msgGenerationFailed)
		if msg := upErr.Message(); msg != "" {
			result.Error = msg
		}
		result.Details = upErr.Body
		return http.StatusBadGateway, result

	case errors.Is(err, llm.ErrMalformedResponse):
		result := model.Failed(msgGenerationFailed)
		result.Details = err.Error()
		return http.StatusBadGateway, result

	default:
		return http.StatusInternalServerError, model.Failed(msgUnexpected)
	}
}
