package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/isimkutusu/go-names-backend/internal/domain"
	"github.com/isimkutusu/go-names-backend/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("name_service_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&domain.Name{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newNameService(t *testing.T) *NameService {
	t.Helper()
	return &NameService{DB: newServiceDB(t), Cache: NewListingCache(5 * time.Minute)}
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func seedInput(name string) NameInput {
	return NameInput{
		Name:      name,
		Gender:    domain.GenderGirl,
		Origin:    "Türkçe",
		Syllables: intp(2),
		Meaning:   "anlam",
		InQuran:   boolp(false),
	}
}

func TestCreate_PersistsSanitizedRecord(t *testing.T) {
	svc := newNameService(t)

	in := NameInput{
		Name:      "  IŞIL ",
		Gender:    domain.GenderGirl,
		Origin:    " <b>Türkçe</b> ",
		Syllables: intp(2),
		Length:    intp(99), // client-supplied, must be recomputed
		Meaning:   "ışık, parlaklık",
		InQuran:   boolp(false),
	}
	created, err := svc.Create(context.Background(), []NameInput{in})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d records", len(created))
	}
	got := created[0]
	if got.Name != "Işıl" {
		t.Errorf("Name = %q, want Işıl", got.Name)
	}
	if got.Origin != "Türkçe" {
		t.Errorf("Origin = %q, want Türkçe", got.Origin)
	}
	if got.Length != 4 {
		t.Errorf("Length = %d, want 4 (recomputed)", got.Length)
	}
	if got.ID == 0 {
		t.Errorf("ID not assigned")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*NameInput)
		wantErr error
	}{
		{"missing name", func(in *NameInput) { in.Name = "" }, ErrMissingFields},
		{"missing gender", func(in *NameInput) { in.Gender = "" }, ErrMissingFields},
		{"missing syllables", func(in *NameInput) { in.Syllables = nil }, ErrMissingFields},
		{"missing inQuran", func(in *NameInput) { in.InQuran = nil }, ErrMissingFields},
		{"zero syllables", func(in *NameInput) { in.Syllables = intp(0) }, ErrMissingFields},
		{"bad gender", func(in *NameInput) { in.Gender = "Unisex" }, ErrInvalidGender},
		{"bad name chars", func(in *NameInput) { in.Name = "Ahmet123" }, ErrInvalidChars},
		{"repeated run", func(in *NameInput) { in.Name = "Ahmettt" }, ErrSuspiciousRepeat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := seedInput("Ahmet")
			tc.mutate(&in)
			if _, err := svc.Create(ctx, []NameInput{in}); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if _, err := svc.Create(ctx, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("empty batch err = %v, want ErrEmptyBatch", err)
	}
}

func TestCreate_DuplicateRollsBackWholeBatch(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, []NameInput{seedInput("Zeynep")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Second batch carries one new name and one duplicate.
	_, err := svc.Create(ctx, []NameInput{seedInput("Elif"), seedInput("Zeynep")})
	if !errors.Is(err, repo.ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	// The new name from the failed batch must not have been persisted.
	n, err := repo.CountNames(ctx, svc.DB)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count after rollback = %d, want 1", n)
	}
}

func TestList_TurkishCollationAndPagination(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	for _, name := range []string{"Deniz", "Çağla", "Bora", "Şule", "Selin"} {
		if _, err := svc.Create(ctx, []NameInput{seedInput(name)}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	l, err := svc.List(ctx, ListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if l.Total != 5 || l.TotalPages != 3 {
		t.Fatalf("Total=%d TotalPages=%d", l.Total, l.TotalPages)
	}
	if l.Records[0].Name != "Bora" || l.Records[1].Name != "Çağla" {
		t.Fatalf("page 1 order: %s, %s", l.Records[0].Name, l.Records[1].Name)
	}

	l2, err := svc.List(ctx, ListParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if l2.Records[0].Name != "Deniz" || l2.Records[1].Name != "Selin" {
		t.Fatalf("page 2 order: %s, %s", l2.Records[0].Name, l2.Records[1].Name)
	}

	// Page past the end is empty, not an error.
	l3, err := svc.List(ctx, ListParams{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("List page 9: %v", err)
	}
	if len(l3.Records) != 0 {
		t.Fatalf("page past end returned %d records", len(l3.Records))
	}
}

func TestList_PaginationOver120Records(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	// 120 distinct synthetic names.
	syllables := []string{"ba", "ce", "do", "fe", "gi", "ha", "ke", "la", "me", "nu", "pa", "re"}
	var batch []NameInput
	for _, a := range syllables {
		for _, b := range syllables {
			if len(batch) == 120 {
				break
			}
			batch = append(batch, seedInput(a+b+"net"))
		}
	}
	if len(batch) != 120 {
		t.Fatalf("built %d inputs", len(batch))
	}
	if _, err := svc.Create(ctx, batch); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l, err := svc.List(ctx, ListParams{Page: 2, Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if l.Total != 120 || l.TotalPages != 3 {
		t.Fatalf("Total=%d TotalPages=%d, want 120/3", l.Total, l.TotalPages)
	}
	if len(l.Records) != 50 {
		t.Fatalf("page 2 has %d records, want 50", len(l.Records))
	}

	// Page 2 must carry records 51..100 of the collated order.
	full, err := svc.List(ctx, ListParams{All: true})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if l.Records[0].Name != full.Records[50].Name || l.Records[49].Name != full.Records[99].Name {
		t.Fatalf("page 2 window [%s..%s] does not match records 51..100 [%s..%s]",
			l.Records[0].Name, l.Records[49].Name, full.Records[50].Name, full.Records[99].Name)
	}
}

func TestList_Filters(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	inputs := []NameInput{
		{Name: "Ahmet", Gender: domain.GenderBoy, Origin: "Arapça", Syllables: intp(2), Meaning: "övülen", InQuran: boolp(true)},
		{Name: "Zeynep", Gender: domain.GenderGirl, Origin: "Arapça", Syllables: intp(2), Meaning: "değerli taş", InQuran: boolp(false)},
		{Name: "Deniz", Gender: domain.GenderBoth, Origin: "Türkçe", Syllables: intp(2), Meaning: "deniz", InQuran: boolp(false)},
		{Name: "Muhammed", Gender: domain.GenderBoy, Origin: "Arapça", Syllables: intp(3), Meaning: "övülmüş", InQuran: boolp(true)},
	}
	if _, err := svc.Create(ctx, inputs); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Gender filter includes the "both" bucket.
	l, err := svc.List(ctx, ListParams{Gender: domain.GenderGirl})
	if err != nil {
		t.Fatalf("List girl: %v", err)
	}
	if l.Total != 2 {
		t.Fatalf("girl total = %d, want 2 (Zeynep + Deniz)", l.Total)
	}

	l, err = svc.List(ctx, ListParams{Origin: "Türkçe"})
	if err != nil {
		t.Fatalf("List origin: %v", err)
	}
	if l.Total != 1 || l.Records[0].Name != "Deniz" {
		t.Fatalf("origin filter: %+v", l.Records)
	}

	l, err = svc.List(ctx, ListParams{InQuran: true})
	if err != nil {
		t.Fatalf("List inQuran: %v", err)
	}
	if l.Total != 2 {
		t.Fatalf("inQuran total = %d", l.Total)
	}

	l, err = svc.List(ctx, ListParams{MaxLength: 5})
	if err != nil {
		t.Fatalf("List maxLength: %v", err)
	}
	if l.Total != 2 { // Ahmet, Deniz
		t.Fatalf("maxLength total = %d", l.Total)
	}

	// Turkish-folded substring search.
	l, err = svc.List(ctx, ListParams{Search: "DENİZ"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if l.Total != 1 || l.Records[0].Name != "Deniz" {
		t.Fatalf("search: %+v", l.Records)
	}

	// Exclude-letters drops every name containing any listed letter.
	l, err = svc.List(ctx, ListParams{ExcludeLetters: "z-h"})
	if err != nil {
		t.Fatalf("List exclude: %v", err)
	}
	if l.Total != 0 {
		t.Fatalf("exclude total = %d, want 0", l.Total)
	}
}

func TestList_CacheServesDefaultFirstPageOnly(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, []NameInput{seedInput("Ahmet")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l, err := svc.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("first List: %v", err)
	}
	if l.CacheHit {
		t.Fatalf("first listing must be a miss")
	}

	l, err = svc.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("second List: %v", err)
	}
	if !l.CacheHit {
		t.Fatalf("second identical listing must be a hit")
	}

	// Filtered listings bypass the snapshot.
	l, err = svc.List(ctx, ListParams{Origin: "Türkçe"})
	if err != nil {
		t.Fatalf("filtered List: %v", err)
	}
	if l.CacheHit {
		t.Fatalf("filtered listing must not hit the snapshot")
	}

	// A write invalidates the snapshot.
	if _, err := svc.Create(ctx, []NameInput{seedInput("Zeynep")}); err != nil {
		t.Fatalf("second create: %v", err)
	}
	l, err = svc.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("post-write List: %v", err)
	}
	if l.CacheHit {
		t.Fatalf("listing after a write must be a miss")
	}
	if l.Total != 2 {
		t.Fatalf("post-write total = %d, want 2", l.Total)
	}
}

func TestList_AllBypassesPaging(t *testing.T) {
	svc := newNameService(t)
	ctx := context.Background()

	for _, name := range []string{"Ahmet", "Bora", "Cem"} {
		if _, err := svc.Create(ctx, []NameInput{seedInput(name)}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	l, err := svc.List(ctx, ListParams{All: true, Page: 7, Limit: 1})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(l.Records) != 3 || l.Page != 1 || l.TotalPages != 1 {
		t.Fatalf("all-mode listing: len=%d page=%d totalPages=%d", len(l.Records), l.Page, l.TotalPages)
	}
}

func TestList_LimitClamped(t *testing.T) {
	svc := newNameService(t)

	l, err := svc.List(context.Background(), ListParams{Limit: 10_000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if l.Limit != MaxPageSize {
		t.Fatalf("Limit = %d, want %d", l.Limit, MaxPageSize)
	}
}
