package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/logger"
	"github.com/huangang/codereview-assistant/pkg/response"
)

// toAppError maps service errors onto HTTP errors. fallback names the
// operation for anything unrecognized.
func toAppError(err error, fallback string) *response.AppError {
	var (
		validationErr  *services.ValidationError
		generationErr  *services.GenerationError
		storageErr     *services.StorageError
		aggregationErr *services.AggregationError
	)

	switch {
	case errors.As(err, &validationErr):
		return response.NewBadRequest("Validation Error", validationErr.Message).WithCause(err)
	case errors.Is(err, services.ErrUserExists):
		return response.NewConflict("User already exists", err.Error()).WithCause(err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.NewUnauthorized("Invalid credentials", "Email or password is incorrect").WithCause(err)
	case errors.Is(err, services.ErrUserNotFound):
		return response.NewNotFound("User not found", err.Error()).WithCause(err)
	case errors.As(err, &generationErr):
		return response.NewBadGateway("Review generation failed", "The AI service could not produce a review").WithCause(err)
	case errors.As(err, &aggregationErr):
		return response.NewServerError("Failed to fetch dashboard stats", "Could not compute dashboard statistics").WithCause(err)
	case errors.As(err, &storageErr):
		return response.NewServerError(fallback, "Could not access stored reviews").WithCause(err)
	default:
		return response.NewServerError(fallback, "Something went wrong").WithCause(err)
	}
}

func respondError(c *gin.Context, err error, fallback string) {
	appErr := toAppError(err, fallback)
	if appErr.HTTPStatus >= 500 {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(appErr.Title)
	}
	response.Error(c, appErr)
}
