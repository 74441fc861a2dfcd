package services

import (
	"context"
	"time"

	"github.com/huangang/codereview-assistant/internal/analytics"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/pkg/logger"
)

// DefaultFavoriteLanguage is reported for users with no reviews yet.
const DefaultFavoriteLanguage = "JavaScript"

type DashboardService struct {
	store ReviewStore
	now   func() time.Time
}

func NewDashboardService(store ReviewStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// GetStats aggregates every record of the user in one streaming pass.
func (s *DashboardService) GetStats(ctx context.Context, userID uint) (*analytics.DashboardStats, error) {
	agg := analytics.NewAggregator(s.now())
	err := s.store.Each(ctx, ReviewFilter{UserID: userID}, agg.Add)
	if err != nil {
		logger.Errorf("[Dashboard] Failed to aggregate stats for user %d: %v", userID, err)
		return nil, &AggregationError{Err: &StorageError{Op: "scan", Err: err}}
	}
	stats := agg.Stats()
	return &stats, nil
}

type HistoryRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Language string `form:"language"`
}

// HistoryResponse is one page of a user's review history. Total and
// TotalPages are omitted when the store could not be read.
type HistoryResponse struct {
	Items      []models.Review `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      *int64          `json:"total,omitempty"`
	TotalPages *int            `json:"total_pages,omitempty"`
}

// GetHistory returns one page of the user's records, newest first. It never
// fails: a storage error produces an empty page without totals.
func (s *DashboardService) GetHistory(ctx context.Context, userID uint, req *HistoryRequest) *HistoryResponse {
	page, pageSize := analytics.NormalizePage(req.Page, req.Limit)
	filter := ReviewFilter{UserID: userID, Language: analytics.LanguageFilter(req.Language)}

	resp := &HistoryResponse{
		Items:    []models.Review{},
		Page:     page,
		PageSize: pageSize,
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		logger.Warnf("[Dashboard] History count failed for user %d: %v", userID, err)
		return resp
	}

	offset := analytics.Offset(page, pageSize)
	if int64(offset) < total {
		items, err := s.store.FindPage(ctx, filter, offset, pageSize)
		if err != nil {
			logger.Warnf("[Dashboard] History page failed for user %d: %v", userID, err)
			return resp
		}
		if items != nil {
			resp.Items = items
		}
	}

	totalPages := analytics.TotalPages(total, pageSize)
	resp.Total = &total
	resp.TotalPages = &totalPages
	return resp
}

type ProfileStats struct {
	TotalReviews      int64           `json:"total_reviews"`
	AverageRating     float64         `json:"average_rating"`
	FavoriteLanguage  string          `json:"favorite_language"`
	LanguagesUsed     int             `json:"languages_used"`
	Languages         []string        `json:"languages"`
	LanguageBreakdown []LanguageUsage `json:"language_breakdown"`
}

// GetProfileStats summarizes the user's reviews per language.
func (s *DashboardService) GetProfileStats(ctx context.Context, userID uint) (*ProfileStats, error) {
	breakdown, err := s.store.LanguageBreakdown(ctx, userID)
	if err != nil {
		return nil, &StorageError{Op: "language breakdown", Err: err}
	}

	stats := &ProfileStats{
		FavoriteLanguage:  DefaultFavoriteLanguage,
		LanguagesUsed:     len(breakdown),
		Languages:         make([]string, 0, len(breakdown)),
		LanguageBreakdown: breakdown,
	}

	var ratingSum float64
	for i := range breakdown {
		row := &breakdown[i]
		stats.TotalReviews += row.Count
		ratingSum += row.AvgRating * float64(row.Count)
		stats.Languages = append(stats.Languages, row.Language)
		row.AvgRating = analytics.RoundTo(row.AvgRating, 1)
	}
	if len(breakdown) > 0 {
		stats.FavoriteLanguage = breakdown[0].Language
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = analytics.RoundTo(ratingSum/float64(stats.TotalReviews), 1)
	}
	return stats, nil
}
