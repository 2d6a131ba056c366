// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail()
// helper in this package and give clients a stable, machine-readable error
// taxonomy alongside the human-readable message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "message": "nickname is required"
//	}
package handlers

// The middleware layer emits two more codes on its own paths: the rate
// limiter writes "rate_limited" and panic recovery writes "internal_error".
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"

	// Domain-specific:
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
