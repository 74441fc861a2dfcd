package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/middleware"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/response"
)

type AuthHandler struct {
	authService      *services.AuthService
	dashboardService *services.DashboardService
}

func NewAuthHandler(authService *services.AuthService, dashboardService *services.DashboardService) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		dashboardService: dashboardService,
	}
}

// Register creates an account
// POST /api/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Validation Error", err.Error())
		return
	}

	result, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	response.Created(c, "User registered successfully", result)
}

// Login handles user login
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Validation Error", err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	response.Success(c, result)
}

// Logout handles user logout (client-side token removal)
// POST /api/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Message(c, "Logged out successfully")
}

// GetProfile returns the current user with review totals
// GET /api/users/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	stats, err := h.dashboardService.GetProfileStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	response.Success(c, gin.H{
		"user": user,
		"stats": gin.H{
			"total_reviews":  stats.TotalReviews,
			"average_rating": stats.AverageRating,
			"languages":      stats.Languages,
		},
	})
}
