// Package domain defines the persistence model for catalogue name records.
// The type is mapped with GORM and forms the core data layer of the
// name-catalogue application.
package domain

import "time"

// Gender values accepted by the catalogue. The Turkish labels are part of
// the public API contract and are stored verbatim.
const (
	GenderGirl = "Kız"
	GenderBoy  = "Erkek"
	GenderBoth = "Her ikisi"
)

// ValidGender reports whether g is one of the accepted gender labels.
func ValidGender(g string) bool {
	return g == GenderGirl || g == GenderBoy || g == GenderBoth
}

// Field length ceilings enforced by the sanitization pipeline. The store
// itself applies no business validation, so these constants are the single
// enforcement point for every persisted row.
const (
	MaxNameLen    = 30
	MaxOriginLen  = 50
	MaxMeaningLen = 200
)

// Name represents a single catalogue entry: a Turkish personal name with
// its linguistic metadata. Name is the natural key; the unique index
// surfaces duplicate submissions as a store-level conflict.
//
// Fields:
//   - Name: stored in Turkish title case (first rune Turkish-upper,
//     remainder Turkish-lower); 1–30 characters.
//   - Gender: one of GenderGirl, GenderBoy, GenderBoth.
//   - Origin: etymological origin label (e.g. "Türkçe", "Arapça"), ≤50 chars.
//   - Syllables: positive syllable count.
//   - Length: rune count of Name, recomputed server-side.
//   - Meaning: Turkish-language meaning, ≤200 chars.
//   - InQuran: whether the name appears in the Quran.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM (not serialized).
type Name struct {
	ID        uint      `json:"-"         gorm:"primaryKey"`
	Name      string    `json:"name"      gorm:"type:varchar(30);not null;uniqueIndex:ux_names_name"`
	Gender    string    `json:"gender"    gorm:"type:varchar(16);not null;check:gender IN ('Kız','Erkek','Her ikisi')"`
	Origin    string    `json:"origin"    gorm:"type:varchar(50);not null;index"`
	Syllables int       `json:"syllables" gorm:"not null;check:syllables >= 1"`
	Length    int       `json:"length"    gorm:"not null;check:length >= 1"`
	Meaning   string    `json:"meaning"   gorm:"type:varchar(200);not null"`
	InQuran   bool      `json:"inQuran"   gorm:"not null;default:false"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Name.
func (Name) TableName() string { return "names" }

// Verdict is the structured reply of the classification flow. On
// acceptance IsName is true and the metadata fields mirror a Name record;
// on rejection only IsName and Message are populated.
type Verdict struct {
	IsName    bool   `json:"isName"`
	Name      string `json:"name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Origin    string `json:"origin,omitempty"`
	Syllables int    `json:"syllables,omitempty"`
	Length    int    `json:"length,omitempty"`
	Meaning   string `json:"meaning,omitempty"`
	InQuran   bool   `json:"inQuran"`
	Message   string `json:"message,omitempty"`
}
