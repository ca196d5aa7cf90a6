package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel error classes. Services wrap these with %w so handlers can map
// any failure to a status code without inspecting message text.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrExpiredCredential = errors.New("credential expired")
	ErrUpstream          = errors.New("upstream service failed")
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithServiceError maps a service-layer error onto the wire using the
// sentinel classes above. Unclassified errors become 500s.
func RespondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		RespondWithError(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
	case errors.Is(err, ErrUnauthorized):
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		RespondWithError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrExpiredCredential):
		RespondWithError(c, http.StatusGone, "token_expired", err.Error(), nil)
	case errors.Is(err, ErrUpstream):
		RespondWithError(c, http.StatusBadGateway, "upstream_error", err.Error(), nil)
	default:
		RespondWithInternalError(c, "Unexpected error", gin.H{"error": err.Error()})
	}
}
