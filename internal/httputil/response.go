// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping ties an error category to its HTTP status and public body. Order
// matters: the first category the error matches wins.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrLocked, http.StatusLocked, "account_locked",
		"Account is locked due to too many failed login attempts"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, "rate_limit_exceeded",
		"Too many requests. Please retry after the specified delay."},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden",
		"You don't have permission to access this resource"},
}

// ErrorStatus returns the HTTP status and body for err. Errors outside the taxonomy
// become a 500 without details.
func ErrorStatus(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		resp := ErrorResponse{Error: m.code, Message: m.message}
		switch m.target {
		case apperrors.ErrInvalidInput:
			resp.Message = err.Error()
		case apperrors.ErrRateLimited:
			var rlErr *apperrors.RateLimitError
			if apperrors.As(err, &rlErr) {
				resp.Code = rlErr.Policy
			}
		case apperrors.ErrForbidden:
			switch {
			case apperrors.Is(err, apperrors.ErrRoleDenied):
				resp.Code = "role"
			case apperrors.Is(err, apperrors.ErrCapabilityDenied):
				resp.Code = "capability"
			}
		}
		return m.status, resp
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// HandleErrorGin writes err as a JSON error response. Rate limit denials also get a
// Retry-After header.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := ErrorStatus(err)

	var rlErr *apperrors.RateLimitError
	if apperrors.As(err, &rlErr) {
		c.Header("Retry-After", RetryAfterSeconds(rlErr.RetryAfter))
	}

	if logger != nil {
		level := slog.LevelDebug
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// RetryAfterSeconds formats a wait duration for the Retry-After header,
// rounding up so clients never retry early.
func RetryAfterSeconds(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
