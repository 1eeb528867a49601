// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints. Every
// error is an ErrorResponse with a stable code from errors.go. Client
// errors carry a message meant for the caller; internal failures are
// logged with the request-scoped logger and answered with a generic text.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "record 42 not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/http/middleware"
)

// internalMessage is what clients see for any 5xx caused by an error.
const internalMessage = "internal error, retry later or quote the request id"

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"record 42 not found"`
}

// requestID prefers the ID stored by middleware.RequestID and falls back
// to the response header for engines that set it by hand.
func requestID(c *gin.Context) string {
	if rid := middleware.RequestIDFrom(c); rid != "" {
		return rid
	}
	return c.Writer.Header().Get("X-Request-ID")
}

// fail aborts the request with a structured error. 5xx statuses are logged.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: requestID(c),
		Code:      code,
		Message:   msg,
	})
}

// failInternal logs err and answers 500 without leaking its text.
func failInternal(c *gin.Context, code string, err error) {
	middleware.LoggerFrom(c).Error().Err(err).
		Str("code", code).
		Str("route", c.FullPath()).
		Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		RequestID: requestID(c),
		Code:      code,
		Message:   internalMessage,
	})
}

// Fail is the exported variant of fail, used by the router for NoRoute,
// NoMethod and the body limit.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// unavailable answers 503 for routes whose service is not wired.
func unavailable(c *gin.Context, what string) {
	fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, what+" is not available")
}
