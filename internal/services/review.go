package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/huangang/codereview-assistant/internal/analytics"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/pkg/logger"
)

// DefaultLanguage is used when a submission does not name one.
const DefaultLanguage = "javascript"

// ReviewGenerator produces review text for a piece of code.
type ReviewGenerator interface {
	Generate(ctx context.Context, code, language string) (string, error)
}

type ReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type ReviewResponse struct {
	Review       string    `json:"review"`
	Rating       int       `json:"rating"`
	Tags         []string  `json:"tags"`
	Language     string    `json:"language"`
	SuggestionID string    `json:"suggestion_id"`
	Timestamp    time.Time `json:"timestamp"`
}

type ReviewService struct {
	store     ReviewStore
	generator ReviewGenerator
	now       func() time.Time
}

func NewReviewService(store ReviewStore, generator ReviewGenerator) *ReviewService {
	return &ReviewService{
		store:     store,
		generator: generator,
		now:       time.Now,
	}
}

// Submit validates the request, asks the generator for a review, classifies
// it and stores the resulting record. Nothing is stored when generation
// fails.
func (s *ReviewService) Submit(ctx context.Context, userID uint, req *ReviewRequest) (*ReviewResponse, error) {
	if req == nil || req.Code == "" {
		return nil, &ValidationError{Field: "code", Message: "code is required"}
	}
	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	start := s.now()
	text, err := s.generator.Generate(ctx, req.Code, language)
	if err != nil {
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			genErr = &GenerationError{Err: err}
		}
		logger.Warnf("[Review] Generation failed for user %d: %v", userID, err)
		return nil, genErr
	}
	end := s.now()

	review, err := BuildReview(userID, req.Code, language, text, end.Sub(start).Milliseconds(), end)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, review); err != nil {
		logger.Errorf("[Review] Failed to store review for user %d: %v", userID, err)
		return nil, &StorageError{Op: "insert", Err: err}
	}

	logger.Infof("[Review] Stored review %s (user=%d, language=%s, rating=%d, tags=%v, duration=%ds)",
		review.ID, userID, review.Language, review.Rating, review.Tags, review.ReviewDurationSeconds)

	return &ReviewResponse{
		Review:       review.ReviewText,
		Rating:       review.Rating,
		Tags:         review.Tags,
		Language:     review.Language,
		SuggestionID: review.ID,
		Timestamp:    review.CreatedAt,
	}, nil
}

// BuildReview assembles an immutable review record from a completed
// generation.
func BuildReview(userID uint, code, language, reviewText string, elapsedMs int64, now time.Time) (*models.Review, error) {
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: "code is required"}
	}
	if language == "" {
		language = DefaultLanguage
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	return &models.Review{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Code:                  code,
		Language:              language,
		ReviewText:            reviewText,
		Rating:                analytics.ClassifyRating(reviewText),
		Tags:                  analytics.ExtractTags(reviewText),
		ReviewDurationSeconds: int(analytics.Round(float64(elapsedMs) / 1000)),
		CreatedAt:             now,
	}, nil
}
