package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/middleware"
	"github.com/huangang/codereview-assistant/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	reviewLimiter := middleware.NewWindowLimiter(cfg.RateLimit.Review,
		"Too many review requests", "Please try again later")
	authLimiter := middleware.NewWindowLimiter(cfg.RateLimit.Auth,
		"Too many authentication attempts", "Please try again later")

	health := r.Group("/health")
	{
		health.GET("", svc.healthHandler.Check)
		health.GET("/detailed", svc.healthHandler.Detailed)
		health.GET("/database", svc.healthHandler.Database)
		health.GET("/ai-service", svc.healthHandler.AIService)
		health.GET("/metrics", svc.healthHandler.Metrics)
		health.GET("/ready", svc.healthHandler.Ready)
		health.GET("/live", svc.healthHandler.Live)
	}

	api := r.Group("/api")
	{
		// Users (public)
		users := api.Group("/users", authLimiter.Middleware())
		{
			users.POST("/register", svc.authHandler.Register)
			users.POST("/login", svc.authHandler.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/users/logout", svc.authHandler.Logout)
			protected.GET("/users/profile", svc.authHandler.GetProfile)

			protected.POST("/ai/get-review", reviewLimiter.Middleware(), svc.reviewHandler.GetReview)
			protected.GET("/ai/usage", svc.aiUsageHandler.GetUsage)

			protected.GET("/dashboard/stats", svc.dashboardHandler.GetStats)
			protected.GET("/dashboard/history", svc.dashboardHandler.GetHistory)
			protected.GET("/dashboard/profile", svc.dashboardHandler.GetProfile)
		}
	}
}
