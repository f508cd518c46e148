package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/server/http/handlers"
	"github.com/meridianshop/paygate/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ReconcilerFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	webhookHandler := handlers.NewWebhookHandler(facade)
	opsHandler := handlers.NewOpsHandler(facade)

	api := engine.Group("/api")
	api.POST("/webhooks/:provider", webhookHandler.Handle)

	ops := api.Group("/ops")
	ops.Use(middleware.OpsAuth(cfg.OpsAPIKeyHash))
	ops.GET("/alerts", opsHandler.Alerts)
	ops.GET("/failed-notifications", opsHandler.FailedNotifications)
	ops.GET("/health", opsHandler.Health)

	return engine
}
