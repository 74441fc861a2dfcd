package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists         = errors.New("user already exists with this email or username")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError reports a malformed request. It is raised before any
// collaborator is invoked.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GenerationError wraps a failure of the AI collaborator.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("review generation failed: %v", e.Err)
	}
	return fmt.Sprintf("review generation failed (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the review record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AggregationError reports that dashboard statistics could not be computed.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("dashboard aggregation failed: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }
