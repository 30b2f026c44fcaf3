package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grammate-io/grammate-api/internal/domain/service"
	"github.com/grammate-io/grammate-api/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	var fatalErr *service.FatalError
	var retryErr *service.RetryableError

	switch {
	case errors.Is(err, usecase.ErrBatchActive):
		return ErrorResponse{
			StatusCode: http.StatusConflict,
			Code:       "CONFLICT",
			Message:    "a batch is already running",
		}
	case errors.Is(err, usecase.ErrEmptyBatch):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "batch contains no items",
		}
	case errors.Is(err, usecase.ErrEmptyText):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "text is empty",
		}
	case errors.Is(err, usecase.ErrRecordNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "record not found",
		}
	case errors.As(err, &fatalErr), errors.As(err, &retryErr):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "UPSTREAM_ERROR",
			Message:    "annotation service failed",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It maps the error to an HTTP status and sends a JSON error response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidUUID handles an invalid UUID parameter error.
func HandleInvalidUUID(c *gin.Context, paramName string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid "+paramName)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
