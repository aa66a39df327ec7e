// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable error taxonomy that supplements the
// human-readable (Turkish) detail strings.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, unauthorized, conflict-style ones) mirror
//     common HTTP status semantics.
//   - The four validation subkinds are distinct on purpose: the frontend
//     branches on them for UX (empty vs too long vs repetition vs charset).
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Validation subkinds (all HTTP 400):
	ErrCodeEmptyInput   = "empty_input"
	ErrCodeTooLong      = "name_too_long"
	ErrCodeSuspicious   = "suspicious_input"
	ErrCodeInvalidChars = "invalid_characters"

	// Domain-specific:
	ErrCodeDuplicateName   = "duplicate_name"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeUpstreamFormat  = "upstream_format"
	ErrCodeConfig          = "config_error"
)
