package api

import (
	v1 "github.com/flexprice/mgmt/internal/api/v1"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/rest/middleware"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Resource *v1.ResourceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(),
		middleware.RateLimitMiddleware(cfg),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	resources := router.Group("/resources")
	{
		resources.POST("", handlers.Resource.RegisterResource)
		resources.GET("", handlers.Resource.QueryResources)
		resources.DELETE("", handlers.Resource.UnregisterResource)
		resources.GET("/lookup", handlers.Resource.GetResource)
		resources.GET("/attributes", handlers.Resource.GetAttributes)
		resources.PUT("/attributes", handlers.Resource.SetAttribute)
	}

	router.GET("/domains", handlers.Resource.GetDomains)
}
