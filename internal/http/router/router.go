package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"basegraph.app/bff/internal/http/handler"
	"basegraph.app/bff/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	genHandler := handler.NewGenerationHandler(services.Generation())
	historyHandler := handler.NewHistoryHandler(services.History())

	v1 := router.Group("/api/v1")
	{
		GenerationRouter(v1, genHandler)
		HistoryRouter(v1.Group("/history"), historyHandler)
	}

	// Path kept for clients of the former edge function deployment.
	GenerationRouter(router.Group("/functions/v1"), genHandler)
}

func GenerationRouter(rg *gin.RouterGroup, h *handler.GenerationHandler) {
	rg.POST("/generate-query", h.Generate)
}

func HistoryRouter(rg *gin.RouterGroup, h *handler.HistoryHandler) {
	rg.GET("", h.List)
}
