// Package services – input sanitization.
//
// Every free-text field that reaches persistence or the model passes
// through this pipeline. The stages run in order and short-circuit on the
// first failure, so callers always get the most specific rejection:
//
//  1. strip markup-like substrings (<...>)
//  2. trim surrounding whitespace
//  3. reject empty
//  4. reject over the field's length ceiling
//  5. reject 3+ identical consecutive characters (names never do this)
//  6. reject characters outside the Turkish alphabet, space, or dash
//
// Name fields additionally get Turkish title casing on acceptance; see
// NormalizeName. Meaning/origin fields skip stages 5–6 (free text may
// legitimately repeat letters or use punctuation) and only strip, trim,
// and bound length.
package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/isimkutusu/go-names-backend/internal/domain"
	"github.com/isimkutusu/go-names-backend/internal/turkish"
)

var markupRE = regexp.MustCompile(`<[^>]*>`)

// stripMarkup removes anything shaped like an HTML/XML tag.
func stripMarkup(s string) string {
	return markupRE.ReplaceAllString(s, "")
}

// SanitizeName runs the full pipeline on a candidate name without casing
// it. The classification flow forwards the result to the model verbatim;
// the write path cases it afterwards via NormalizeName.
func SanitizeName(raw string) (string, error) {
	s := trimmed(raw)
	if s == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(s) > domain.MaxNameLen {
		return "", ErrTooLong
	}
	if turkish.HasRepeatedRun(s) {
		return "", ErrSuspiciousRepeat
	}
	if !turkish.IsAlphabet(s) {
		return "", ErrInvalidChars
	}
	return s, nil
}

// NormalizeName sanitizes and then Turkish-title-cases a name field.
func NormalizeName(raw string) (string, error) {
	s, err := SanitizeName(raw)
	if err != nil {
		return "", err
	}
	return turkish.TitleCase(s), nil
}

// SanitizeText strips, trims, and bounds a free-text field (meaning,
// origin) against max runes.
func SanitizeText(raw string, max int) (string, error) {
	s := trimmed(raw)
	if s == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(s) > max {
		return "", ErrTooLong
	}
	return s, nil
}

func trimmed(raw string) string {
	return strings.TrimSpace(stripMarkup(raw))
}
