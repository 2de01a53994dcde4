package server

import (
	"github.com/gin-gonic/gin"

	"github.com/myautosound/autosound-backend/internal/http/handlers"
	"github.com/myautosound/autosound-backend/internal/http/middleware"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	HealthHandler   *handlers.HealthHandler
	DiagnoseHandler *handlers.DiagnoseHandler
	FeedbackHandler *handlers.FeedbackHandler
	HistoryHandler  *handlers.HistoryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.Check)
	router.POST("/diagnose", cfg.DiagnoseHandler.Diagnose)
	router.POST("/feedback", cfg.FeedbackHandler.Submit)
	router.GET("/history", cfg.HistoryHandler.List)
	router.DELETE("/history", cfg.HistoryHandler.Clear)

	return router
}
