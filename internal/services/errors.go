// Package services defines the business logic for the name catalogue and
// the classification flow. This file centralizes common service-level
// error values so that they can be consistently returned by service
// methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing Turkish messages and HTTP status codes is
// performed at the handler layer (see UserMessage and the handlers
// package).
package services

import (
	"errors"
	"fmt"
)

// Validation errors. The caller must be able to distinguish these four
// rejection kinds, so they are separate sentinels rather than one generic
// invalid-input error.
var (
	// ErrEmptyInput is returned when the input is empty after markup
	// stripping and trimming.
	ErrEmptyInput = errors.New("input is empty")

	// ErrTooLong is returned when a field exceeds its maximum length.
	ErrTooLong = errors.New("input too long")

	// ErrSuspiciousRepeat is returned when the input contains three or
	// more identical consecutive characters.
	ErrSuspiciousRepeat = errors.New("suspicious character repetition")

	// ErrInvalidChars is returned when the input contains characters
	// outside the Turkish alphabet, space, or dash.
	ErrInvalidChars = errors.New("invalid characters")
)

// Write-path errors.
var (
	// ErrMissingFields is returned when a submitted record lacks one of
	// the required fields.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidGender is returned when the gender value is not one of
	// the accepted labels.
	ErrInvalidGender = errors.New("invalid gender value")

	// ErrEmptyBatch is returned when a create request carries no records.
	ErrEmptyBatch = errors.New("request body must contain name data")
)

// Classification-flow errors.
var (
	// ErrModelNotConfigured is returned when no model credential is
	// configured; the classification endpoint is unavailable.
	ErrModelNotConfigured = errors.New("model API key not configured")
)

// UpstreamFormatError reports that the model reply could not be decoded
// as the expected JSON shape. Raw carries the unparsed reply for
// diagnosis; it is logged, never silently dropped.
type UpstreamFormatError struct {
	Raw string
	Err error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("model returned unexpected format: %v", e.Err)
}

func (e *UpstreamFormatError) Unwrap() error { return e.Err }

// UserMessage maps a service error to the Turkish detail string shown to
// API callers. Unknown errors fall back to a generic message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "İsim boş olamaz."
	case errors.Is(err, ErrTooLong):
		return "İsim 30 karakterden uzun olamaz."
	case errors.Is(err, ErrSuspiciousRepeat):
		return "Bu bir isim gibi görünmüyor. Lütfen geçerli bir isim girin."
	case errors.Is(err, ErrInvalidChars):
		return "Sadece Türkçe harfler kullanabilirsiniz."
	case errors.Is(err, ErrMissingFields):
		return "Her isim için name, gender, origin, syllables, meaning ve inQuran alanları zorunludur."
	case errors.Is(err, ErrInvalidGender):
		return "Cinsiyet Kız, Erkek veya Her ikisi olmalıdır."
	case errors.Is(err, ErrEmptyBatch):
		return "İstek gövdesi isim verisi içermelidir."
	default:
		return "Beklenmeyen bir hata oluştu."
	}
}
