// Package services – NameService
//
// This file implements NameService, the application-level component that
// owns the catalogue: filtered, collated, paginated listings on the read
// path and sanitize-everything-then-insert batches on the write path.
//
// Store-level predicates (gender, origin, syllables, maxLength, inQuran)
// are pushed into SQL by the repo; the predicates that need Turkish
// folding (search substring, excluded letters) and the Turkish collation
// sort run here, over the bounded (≤5000 row) matching set.
//
// Observability: public methods are OpenTelemetry-instrumented, as
// elsewhere in the service layer.
package services

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/isimkutusu/go-names-backend/internal/domain"
	"github.com/isimkutusu/go-names-backend/internal/repo"
	"github.com/isimkutusu/go-names-backend/internal/turkish"
)

const (
	// DefaultPageSize is the page size used when the client sends none;
	// only listings at this size (page 1, no filters) are cacheable.
	DefaultPageSize = 50
	// MaxPageSize is the upper clamp for client-supplied page sizes.
	MaxPageSize = 100
)

// NameService coordinates catalogue reads and writes.
type NameService struct {
	DB    *gorm.DB
	Cache *ListingCache
}

// ListParams carries every predicate and paging knob of a listing
// request. Zero values mean "no constraint".
type ListParams struct {
	Gender         string
	Origin         string
	Syllables      int // 4 means "4 or more"
	MaxLength      int
	InQuran        bool
	Search         string // case-insensitive, Turkish-folded substring
	ExcludeLetters string // dash-separated letters, e.g. "ç-ğ-w"

	Page  int
	Limit int
	All   bool // bypass paging, capped at the catalogue ceiling
}

func (p ListParams) unfiltered() bool {
	return p.Gender == "" && p.Origin == "" && p.Syllables == 0 &&
		p.MaxLength == 0 && !p.InQuran && p.Search == "" && p.ExcludeLetters == ""
}

// Listing is a page of catalogue records plus pagination metadata.
type Listing struct {
	Records    []domain.Name
	Total      int
	Page       int
	Limit      int
	TotalPages int
	CacheHit   bool
}

// List returns the catalogue page matching p, in Turkish collation order.
// The unfiltered default first page is served from the snapshot cache
// when fresh.
func (s *NameService) List(ctx context.Context, p ListParams) (*Listing, error) {
	tr := otel.Tracer("services/NameService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("page", p.Page),
			attribute.Int("limit", p.Limit),
			attribute.Bool("all", p.All),
		),
	)
	defer span.End()

	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}

	cacheable := !p.All && p.unfiltered() && p.Page == 1 && p.Limit == DefaultPageSize

	var (
		records []domain.Name
		hit     bool
	)
	if cacheable {
		records, hit = s.Cache.Get()
		if hit {
			cacheLookups.WithLabelValues("hit").Inc()
		} else {
			cacheLookups.WithLabelValues("miss").Inc()
		}
	}

	if !hit {
		rows, err := repo.ListNames(ctx, s.DB, repo.NameFilter{
			Gender:    p.Gender,
			Origin:    p.Origin,
			Syllables: p.Syllables,
			MaxLength: p.MaxLength,
			InQuran:   p.InQuran,
		}, repo.MaxCatalogueRows)
		if err != nil {
			return nil, err
		}
		records = applyTextFilters(rows, p.Search, p.ExcludeLetters)

		less := turkish.Less()
		sort.SliceStable(records, func(i, j int) bool {
			return less(records[i].Name, records[j].Name)
		})

		if cacheable {
			s.Cache.Put(records)
		}
	}

	total := len(records)
	if p.All {
		return &Listing{
			Records:    records,
			Total:      total,
			Page:       1,
			Limit:      total,
			TotalPages: 1,
			CacheHit:   hit,
		}, nil
	}

	totalPages := (total + p.Limit - 1) / p.Limit
	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &Listing{
		Records:    records[start:end],
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		CacheHit:   hit,
	}, nil
}

// applyTextFilters narrows rows by the Turkish-folded substring search and
// the excluded-letter set.
func applyTextFilters(rows []domain.Name, search, excludeLetters string) []domain.Name {
	needle := turkish.Lower(strings.TrimSpace(search))

	var excluded []string
	for _, part := range strings.Split(excludeLetters, "-") {
		if l := turkish.Lower(strings.TrimSpace(part)); l != "" {
			excluded = append(excluded, l)
		}
	}

	if needle == "" && len(excluded) == 0 {
		return rows
	}

	out := make([]domain.Name, 0, len(rows))
rows:
	for _, r := range rows {
		folded := turkish.Lower(r.Name)
		if needle != "" && !strings.Contains(folded, needle) {
			continue
		}
		for _, l := range excluded {
			if strings.Contains(folded, l) {
				continue rows
			}
		}
		out = append(out, r)
	}
	return out
}

// NameInput is one submitted catalogue record, pre-sanitization. Pointer
// fields distinguish "absent" from zero values; Length is accepted for
// wire compatibility but always recomputed from the cased name.
type NameInput struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Origin    string `json:"origin"`
	Syllables *int   `json:"syllables"`
	Length    *int   `json:"length"`
	Meaning   string `json:"meaning"`
	InQuran   *bool  `json:"inQuran"`
}

// Create validates and sanitizes every record of the batch before
// persisting any, then inserts them in a single transaction; one
// duplicate rolls back the whole batch (repo.ErrDuplicateName). A
// successful write invalidates the listing snapshot unconditionally.
func (s *NameService) Create(ctx context.Context, inputs []NameInput) ([]domain.Name, error) {
	tr := otel.Tracer("services/NameService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.Int("batch_size", len(inputs))),
	)
	defer span.End()

	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	records := make([]domain.Name, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" || in.Gender == "" || in.Origin == "" ||
			in.Meaning == "" || in.Syllables == nil || in.InQuran == nil {
			return nil, ErrMissingFields
		}

		name, err := NormalizeName(in.Name)
		if err != nil {
			return nil, err
		}
		meaning, err := SanitizeText(in.Meaning, domain.MaxMeaningLen)
		if err != nil {
			return nil, err
		}
		origin, err := SanitizeText(in.Origin, domain.MaxOriginLen)
		if err != nil {
			return nil, err
		}
		if !domain.ValidGender(in.Gender) {
			return nil, ErrInvalidGender
		}
		if *in.Syllables < 1 {
			return nil, ErrMissingFields
		}

		records = append(records, domain.Name{
			Name:      name,
			Gender:    in.Gender,
			Origin:    origin,
			Syllables: *in.Syllables,
			Length:    utf8.RuneCountInString(name),
			Meaning:   meaning,
			InQuran:   *in.InQuran,
		})
	}

	created, err := repo.CreateNames(ctx, s.DB, records)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate()
	return created, nil
}
