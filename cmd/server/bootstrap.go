package main

import (
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/handlers"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/internal/utils"
	"github.com/huangang/codereview-assistant/pkg/logger"
)

// appServices holds the handlers and long-lived services of the application.
type appServices struct {
	usageService     *services.AIUsageService
	reviewHandler    *handlers.ReviewHandler
	dashboardHandler *handlers.DashboardHandler
	authHandler      *handlers.AuthHandler
	healthHandler    *handlers.HealthHandler
	aiUsageHandler   *handlers.AIUsageHandler
}

// bootstrap connects the database and wires services into handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Database ready")

	if len(cfg.AI.Providers) == 0 || (cfg.AI.Providers[0].APIKey == "" && cfg.AI.Providers[0].Provider != "ollama") {
		logger.Warn().Msg("Primary AI provider has no API key; reviews will fall through to backups or fail")
	}

	usageService := services.NewAIUsageService(db)
	aiService := services.NewAIService(&cfg.AI, usageService)
	store := services.NewGormReviewStore(db)

	reviewService := services.NewReviewService(store, aiService)
	dashboardService := services.NewDashboardService(store)
	authService := services.NewAuthService(db, &cfg.JWT)

	return &appServices{
		usageService:     usageService,
		reviewHandler:    handlers.NewReviewHandler(reviewService),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService, authService),
		authHandler:      handlers.NewAuthHandler(authService, dashboardService),
		healthHandler:    handlers.NewHealthHandler(db, aiService, usageService, cfg.Server.Environment),
		aiUsageHandler:   handlers.NewAIUsageHandler(usageService),
	}
}

// shutdown flushes pending writes and closes the database.
func (s *appServices) shutdown() {
	s.usageService.Wait()
	if sqlDB, err := models.GetDB().DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("Shutdown complete")
}
