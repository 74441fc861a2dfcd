package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/middleware"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/response"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// GetReview reviews the submitted code and stores the result
// POST /api/ai/get-review
func (h *ReviewHandler) GetReview(c *gin.Context) {
	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	if req.Code == "" {
		response.BadRequest(c, "Code is required", "Please provide code for review")
		return
	}

	result, err := h.reviewService.Submit(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "Review failed")
		return
	}

	response.Success(c, result)
}
