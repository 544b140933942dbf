// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and give clients a stable, machine-readable
// taxonomy that supplements the human-readable message. Generic codes mirror
// HTTP status semantics; domain codes cover storefront-specific failures.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "scout_busy",
//	  "message": "assistant is still answering"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "unavailable"

	// Domain-specific:
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeProductNotFound  = "product_not_found"
	ErrCodeMessageNotFound  = "message_not_found"
	ErrCodeNoRecommendation = "no_recommendation"
	ErrCodeScoutBusy        = "scout_busy"
	ErrCodeTooManySessions  = "too_many_sessions"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
