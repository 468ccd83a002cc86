package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/ivesbwas/bwas/internal/api/v1"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/rest/middleware"
	"github.com/ivesbwas/bwas/internal/sentry"
)

type Handlers struct {
	Health        *v1.HealthHandler
	Authorization *v1.AuthorizationHandler
}

func NewRouter(handlers Handlers, logger *logger.Logger, sentryService *sentry.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(sentryService),
		middleware.RequestIDMiddleware,
		middleware.ErrorHandler(logger, sentryService),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	authorizations := router.Group("/authorizations")
	{
		authorizations.GET("", handlers.Authorization.ListDocuments)
		authorizations.GET("/reconcile", handlers.Authorization.Reconcile)
		authorizations.GET("/:transaction_id", handlers.Authorization.GetDocument)
		authorizations.POST("/:transaction_id/authorize", handlers.Authorization.Authorize)
	}
}
