package services

import (
	"sync"
	"time"

	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/pkg/logger"
	"gorm.io/gorm"
)

// AIUsageService tracks generation calls and reports on them.
type AIUsageService struct {
	db      *gorm.DB
	pending sync.WaitGroup
}

func NewAIUsageService(db *gorm.DB) *AIUsageService {
	return &AIUsageService{db: db}
}

// Record saves a usage entry asynchronously.
func (s *AIUsageService) Record(entry *models.AIUsageLog) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.db.Create(entry).Error; err != nil {
			logger.Warnf("[AIUsage] Failed to record usage: %v", err)
		}
	}()
}

// Wait blocks until every pending Record has finished.
func (s *AIUsageService) Wait() {
	s.pending.Wait()
}

type UsageStats struct {
	TotalCalls   int64   `json:"total_calls"`
	SuccessCount int64   `json:"success_count"`
	FailureCount int64   `json:"failure_count"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// GetStats aggregates usage recorded at or after since. A zero since covers
// everything.
func (s *AIUsageService) GetStats(since time.Time) (*UsageStats, error) {
	query := s.db.Model(&models.AIUsageLog{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var stats UsageStats
	err := query.Select(
		"COUNT(*) as total_calls, "+
			"COALESCE(AVG(latency_ms), 0) as avg_latency_ms, "+
			"COALESCE(SUM(CASE WHEN success = ? THEN 1 ELSE 0 END), 0) as success_count",
		true,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	stats.FailureCount = stats.TotalCalls - stats.SuccessCount
	if stats.TotalCalls > 0 {
		stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.TotalCalls) * 100
	}
	return &stats, nil
}

type ProviderUsage struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Calls        int64   `json:"calls"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// GetProviderBreakdown groups usage by provider and model, busiest first.
func (s *AIUsageService) GetProviderBreakdown(since time.Time) ([]ProviderUsage, error) {
	query := s.db.Model(&models.AIUsageLog{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var results []ProviderUsage
	err := query.Select(
		"provider, model, COUNT(*) as calls, COALESCE(AVG(latency_ms), 0) as avg_latency_ms",
	).Group("provider, model").Order("calls DESC").Scan(&results).Error
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []ProviderUsage{}
	}
	return results, nil
}
