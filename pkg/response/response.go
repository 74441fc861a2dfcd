package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError carries an HTTP status, a short error title and a human-readable
// message.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Title      string // Short error title, e.g. "Validation Error"
	Message    string // Human-readable error message
	Err        error  // Underlying cause, never sent to clients
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCause attaches the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func NewBadRequest(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Title: title, Message: msg}
}

func NewUnauthorized(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Title: title, Message: msg}
}

func NewNotFound(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Title: title, Message: msg}
}

func NewConflict(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Title: title, Message: msg}
}

func NewBadGateway(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadGateway, Title: title, Message: msg}
}

func NewServerError(title, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Title: title, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created sends a 201 Created response with a message and data.
func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// Message sends a 200 OK response carrying only a message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

// Error sends an error response. If err is an *AppError its status and title
// are used; otherwise a generic 500 is returned.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Success: false,
			Error:   appErr.Title,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   "Internal server error",
		Message: err.Error(),
	})
}

// ErrorWithData sends an error response that still carries a data payload.
func ErrorWithData(c *gin.Context, status int, title, msg string, data interface{}) {
	c.JSON(status, Response{
		Success: false,
		Error:   title,
		Message: msg,
		Data:    data,
	})
}

func BadRequest(c *gin.Context, title, msg string) {
	c.JSON(http.StatusBadRequest, Response{Error: title, Message: msg})
}

func Unauthorized(c *gin.Context, title, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Error: title, Message: msg})
}

func TooManyRequests(c *gin.Context, title, msg string) {
	c.JSON(http.StatusTooManyRequests, Response{Error: title, Message: msg})
}

func ServerError(c *gin.Context, title, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Error: title, Message: msg})
}
