// Package repo implements the data persistence layer for the name
// catalogue, backed by GORM. This file provides repository functions for
// the Name model.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// CRUD persistence and query composition.
//
// Error semantics:
//   - A unique-index conflict on the natural key surfaces as
//     ErrDuplicateName so callers can map it to HTTP 409.
//   - On other DB errors the raw gorm error is propagated.
//
// Turkish collation note: the pure-Go SQLite build ships no Turkish
// collation, so these functions never ORDER BY name. The catalogue is
// bounded (MaxCatalogueRows), and the service layer collates fetched rows
// with x/text before paginating.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/isimkutusu/go-names-backend/internal/domain"
)

// ErrDuplicateName is returned when an insert violates the unique index
// on the name column.
var ErrDuplicateName = errors.New("name already exists")

// MaxCatalogueRows caps every catalogue read. The catalogue is curated and
// assumed to stay in the low thousands; the cap bounds memory on abuse.
const MaxCatalogueRows = 5000

// NameFilter holds the store-level predicates of a catalogue listing.
// Zero values mean "no constraint". Substring search and letter exclusion
// need Turkish-locale folding and are applied by the service layer, not
// here.
type NameFilter struct {
	Gender    string // Kız/Erkek also match Her ikisi
	Origin    string // exact match
	Syllables int    // exact match; >=4 means "4 or more"
	MaxLength int    // length <= MaxLength
	InQuran   bool   // true restricts to inQuran rows
}

// ListNames returns catalogue rows matching f, unordered, capped at limit
// (MaxCatalogueRows when limit <= 0).
func ListNames(ctx context.Context, db *gorm.DB, f NameFilter, limit int) ([]domain.Name, error) {
	if limit <= 0 || limit > MaxCatalogueRows {
		limit = MaxCatalogueRows
	}

	q := db.WithContext(ctx).Model(&domain.Name{})
	switch f.Gender {
	case "":
	case domain.GenderGirl, domain.GenderBoy:
		q = q.Where("gender IN ?", []string{f.Gender, domain.GenderBoth})
	default:
		q = q.Where("gender = ?", f.Gender)
	}
	if f.Origin != "" {
		q = q.Where("origin = ?", f.Origin)
	}
	if f.Syllables > 0 {
		if f.Syllables >= 4 {
			q = q.Where("syllables >= ?", 4)
		} else {
			q = q.Where("syllables = ?", f.Syllables)
		}
	}
	if f.MaxLength > 0 {
		q = q.Where("length <= ?", f.MaxLength)
	}
	if f.InQuran {
		q = q.Where("in_quran = ?", true)
	}

	var out []domain.Name
	err := q.Limit(limit).Find(&out).Error
	return out, err
}

// ListNameStrings returns just the name column of the whole catalogue,
// capped at MaxCatalogueRows. Used by the similarity checker.
func ListNameStrings(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Name{}).
		Limit(MaxCatalogueRows).
		Pluck("name", &out).Error
	return out, err
}

// GetNameByName fetches the catalogue row whose natural key equals name
// (stored title-cased, so callers normalize first). Returns
// gorm.ErrRecordNotFound when absent.
func GetNameByName(ctx context.Context, db *gorm.DB, name string) (*domain.Name, error) {
	var n domain.Name
	if err := db.WithContext(ctx).Where("name = ?", name).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// CountNames returns the total number of catalogue rows.
func CountNames(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Name{}).Count(&total).Error
	return total, err
}

// CreateNames inserts a batch of records inside a single transaction.
// Any failure rolls back the whole batch; a unique-index conflict is
// reported as ErrDuplicateName.
func CreateNames(ctx context.Context, db *gorm.DB, names []domain.Name) ([]domain.Name, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range names {
			if err := tx.Create(&names[i]).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateName
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// isUniqueViolation matches both GORM's translated duplicate-key error and
// the raw sqlite constraint message (the pure-Go driver does not translate
// in every path).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
