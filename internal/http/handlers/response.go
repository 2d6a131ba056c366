// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope, consistent JSON serialization, and
// helpers for the common success/failure patterns. Every error response
// carries a stable code plus a human-readable message, and 5xx responses are
// logged with request context.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stajtalk/chat-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation ID echoed from X-Request-ID, used to match
//     server logs with client-side errors.
//   - Code: stable, machine-readable string (see errors.go constants).
//   - Message: human-readable description, safe for display to users.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail aborts the request with a structured error. Server errors (>=500)
// are logged via the request-scoped logger from middleware.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(). External packages (e.g. router
// setup) use it to return consistent error envelopes.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
