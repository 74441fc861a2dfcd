package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/response"
)

const (
	defaultUsageDays = 7
	maxUsageDays     = 90
)

// AIUsageHandler reports on generation calls made by the review endpoint.
type AIUsageHandler struct {
	usageService *services.AIUsageService
}

func NewAIUsageHandler(usageService *services.AIUsageService) *AIUsageHandler {
	return &AIUsageHandler{usageService: usageService}
}

// GetUsage returns call totals and a per-provider breakdown over the last
// days (default 7, at most 90).
// GET /api/ai/usage?days=7
func (h *AIUsageHandler) GetUsage(c *gin.Context) {
	days := defaultUsageDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(c, "Invalid query", "days must be a positive integer")
			return
		}
		days = n
	}
	if days > maxUsageDays {
		days = maxUsageDays
	}
	since := time.Now().AddDate(0, 0, -days)

	stats, err := h.usageService.GetStats(since)
	if err != nil {
		respondError(c, err, "Failed to get AI usage stats")
		return
	}
	providers, err := h.usageService.GetProviderBreakdown(since)
	if err != nil {
		respondError(c, err, "Failed to get AI usage stats")
		return
	}

	response.Success(c, gin.H{
		"days":      days,
		"stats":     stats,
		"providers": providers,
	})
}
