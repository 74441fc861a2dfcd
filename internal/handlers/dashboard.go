package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/middleware"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	authService      *services.AuthService
}

func NewDashboardHandler(dashboardService *services.DashboardService, authService *services.AuthService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		authService:      authService,
	}
}

// GetStats returns the dashboard summary for the current user
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard stats")
		return
	}
	response.Success(c, stats)
}

// GetHistory returns one page of the current user's reviews
// GET /api/dashboard/history?page=1&limit=10&language=go
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	var req services.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query", err.Error())
		return
	}

	response.Success(c, h.dashboardService.GetHistory(c.Request.Context(), middleware.GetUserID(c), &req))
}

// GetProfile returns the current user with a per-language breakdown
// GET /api/dashboard/profile
func (h *DashboardHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err, "Failed to fetch user profile")
		return
	}

	stats, err := h.dashboardService.GetProfileStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch user profile")
		return
	}

	response.Success(c, gin.H{
		"user":  user,
		"stats": stats,
	})
}
