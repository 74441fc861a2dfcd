package services

import (
	"context"

	"github.com/huangang/codereview-assistant/internal/models"
	"gorm.io/gorm"
)

const eachBatchSize = 500

// ReviewFilter narrows the records a query sees. An empty Language matches
// every language.
type ReviewFilter struct {
	UserID   uint
	Language string
}

// LanguageUsage is one row of a per-user language breakdown.
type LanguageUsage struct {
	Language  string  `json:"language"`
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// ReviewStore persists review records. Records are append-only.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) error
	// FindPage returns records newest first, ties broken by id descending.
	FindPage(ctx context.Context, filter ReviewFilter, offset, limit int) ([]models.Review, error)
	Count(ctx context.Context, filter ReviewFilter) (int64, error)
	// Each streams every matching record to fn in no particular order.
	Each(ctx context.Context, filter ReviewFilter, fn func(models.Review)) error
	LanguageBreakdown(ctx context.Context, userID uint) ([]LanguageUsage, error)
}

type GormReviewStore struct {
	db *gorm.DB
}

func NewGormReviewStore(db *gorm.DB) *GormReviewStore {
	return &GormReviewStore{db: db}
}

func (s *GormReviewStore) scoped(ctx context.Context, filter ReviewFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", filter.UserID)
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	return query
}

func (s *GormReviewStore) Insert(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}

func (s *GormReviewStore) FindPage(ctx context.Context, filter ReviewFilter, offset, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := s.scoped(ctx, filter).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *GormReviewStore) Count(ctx context.Context, filter ReviewFilter) (int64, error) {
	var total int64
	if err := s.scoped(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *GormReviewStore) Each(ctx context.Context, filter ReviewFilter, fn func(models.Review)) error {
	var batch []models.Review
	return s.scoped(ctx, filter).FindInBatches(&batch, eachBatchSize, func(tx *gorm.DB, _ int) error {
		for _, r := range batch {
			fn(r)
		}
		return nil
	}).Error
}

func (s *GormReviewStore) LanguageBreakdown(ctx context.Context, userID uint) ([]LanguageUsage, error) {
	var rows []LanguageUsage
	err := s.scoped(ctx, ReviewFilter{UserID: userID}).
		Select("language, COUNT(*) as count, COALESCE(AVG(rating), 0) as avg_rating").
		Group("language").
		Order("count DESC").
		Order("language ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []LanguageUsage{}
	}
	return rows, nil
}
