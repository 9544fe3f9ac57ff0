package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"basegraph.app/bff/internal/http/dto"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/service"
)

type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles GET history?limit=N.
func (h *HistoryHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.Failed("limit must be an integer"))
			return
		}
		limit = n
	}

	records := h.historyService.ListRecent(c.Request.Context(), limit)
	c.JSON(http.StatusOK, dto.HistoryResponse{Success: true, Data: records})
}
