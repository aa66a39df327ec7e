// Package services – ClassifyService
//
// This file implements the classification flow: decide whether an
// arbitrary input string is a valid Turkish personal name. The pipeline
// mirrors the validate → gate → upstream shape of the rest of the
// service layer:
//
//	sanitize → exact-match lookup → near-duplicate gate → prompt →
//	model call → fence-strip + JSON decode → Turkish title casing
//
// The two gates exist to avoid spending model calls on strings the
// catalogue already answers: an exact match returns the stored record's
// metadata, and a likely typo of an existing entry returns a suggestion.
// The verdict is never persisted here; storing it is a separate, explicit
// call against the catalogue.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/isimkutusu/go-names-backend/internal/domain"
	"github.com/isimkutusu/go-names-backend/internal/llm"
	"github.com/isimkutusu/go-names-backend/internal/repo"
	"github.com/isimkutusu/go-names-backend/internal/turkish"
)

// rejectMessage is the canonical Turkish rejection line, shared with the
// prompt so the model and the short-circuit paths speak with one voice.
const rejectMessage = "Bu bir isim değil veya yanlış yazılmış."

// ClassifyService asks the generative model whether a string is a valid
// Turkish personal name, short-circuiting through the catalogue first.
type ClassifyService struct {
	DB    *gorm.DB
	Model llm.Generator // nil when no credential is configured
}

// Classify runs the full classification pipeline on raw input.
// Validation failures return the sanitizer's sentinel errors; a model
// reply that cannot be decoded returns *UpstreamFormatError.
func (s *ClassifyService) Classify(ctx context.Context, raw string) (*domain.Verdict, error) {
	tr := otel.Tracer("services/ClassifyService")
	ctx, span := tr.Start(ctx, "Classify")
	defer span.End()

	candidate, err := SanitizeName(raw)
	if err != nil {
		return nil, err
	}

	// Exact hit: the catalogue already knows this name.
	cased := turkish.TitleCase(candidate)
	if existing, err := repo.GetNameByName(ctx, s.DB, cased); err == nil {
		classifyOutcomes.WithLabelValues("known").Inc()
		span.SetAttributes(attribute.String("outcome", "known"))
		return &domain.Verdict{
			IsName:    true,
			Name:      existing.Name,
			Gender:    existing.Gender,
			Origin:    existing.Origin,
			Syllables: existing.Syllables,
			Length:    existing.Length,
			Meaning:   existing.Meaning,
			InQuran:   existing.InQuran,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Near-duplicate gate: a likely typo of an existing entry is rejected
	// with a suggestion instead of a model call.
	existing, err := repo.ListNameStrings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if m, ok := turkish.NearestMatch(candidate, existing); ok {
		classifyOutcomes.WithLabelValues("similar").Inc()
		span.SetAttributes(
			attribute.String("outcome", "similar"),
			attribute.Int("distance", m.Distance),
		)
		return &domain.Verdict{
			IsName:  false,
			Message: fmt.Sprintf("%s Bunu mu demek istediniz: %s?", rejectMessage, m.Name),
		}, nil
	}

	if s.Model == nil {
		return nil, ErrModelNotConfigured
	}

	reply, err := s.Model.Generate(ctx, buildPrompt(candidate))
	if err != nil {
		classifyOutcomes.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	var verdict domain.Verdict
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &verdict); err != nil {
		classifyOutcomes.WithLabelValues("upstream_error").Inc()
		return nil, &UpstreamFormatError{Raw: reply, Err: err}
	}

	// Enforce Turkish title case on whatever spelling the model returned
	// (e.g. IŞIL → Işıl) and keep the derived length consistent with it.
	if verdict.IsName && verdict.Name != "" {
		verdict.Name = turkish.TitleCase(verdict.Name)
		verdict.Length = utf8.RuneCountInString(verdict.Name)
		classifyOutcomes.WithLabelValues("accepted").Inc()
		span.SetAttributes(attribute.String("outcome", "accepted"))
	} else {
		classifyOutcomes.WithLabelValues("rejected").Inc()
		span.SetAttributes(attribute.String("outcome", "rejected"))
	}

	return &verdict, nil
}

// buildPrompt assembles the onomastics instruction block around the
// sanitized candidate. The model must answer with bare JSON; anything
// else is treated as an upstream format error by the caller.
func buildPrompt(name string) string {
	return `**System Instructions:**
You are a linguistics expert specializing in Turkish Onomastics. Your task is to analyze if a given string is used as a "personal name" (first name) in Türkiye.

**Context:**
This is for a cultural research project. Even if a word has a dictionary meaning (e.g., "Deniz" means "Sea"), you must accept it if it is used as a person's name.

**Rules:**
1. REJECT: Clearly misspelled names (e.g., 'Ahmettt'), random strings (e.g., 'asdfgh'), or numbers.
2. DICTIONARY TRAP: Do not reject names just because they are also common nouns or virtues.

**Output Format:**
return JSON in this format:
{
  "isName": true,
  "name": "Name (correct spelling)",
  "gender": "Kız" or "Erkek" or "Her ikisi",
  "origin": "Origin (e.g., Türkçe, Arapça, Farsça, İbranice, etc.)",
  "syllables": syllable count (number),
  "length": character length (number),
  "meaning": "Meaning of the name in Turkish",
  "inQuran": true or false (whether it appears in the Quran)
}

If this is CLEARLY not a name or is an OBVIOUS typo:
{
  "isName": false,
  "message": "` + rejectMessage + `"
}
Return ONLY JSON format, no additional explanation.
**Input Text to Analyze:** "` + name + `"`
}

// stripCodeFences removes markdown code-fence wrapping (```json ... ```)
// that models habitually add around JSON replies.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
