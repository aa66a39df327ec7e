package repo

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
)

func newNameRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("name_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func record(name string) domain.Name {
	return domain.Name{
		Name:      name,
		Gender:    domain.GenderGirl,
		Origin:    "Türkçe",
		Syllables: 2,
		Length:    len([]rune(name)),
		Meaning:   "anlam",
	}
}

func seedCatalogue(t *testing.T, db *gorm.DB, names ...domain.Name) {
	t.Helper()
	if _, err := CreateNames(context.Background(), db, names); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCreateNames_Error_NoTable(t *testing.T) {
	db := newNameRepoDB(t /* no migrations */)
	out, err := CreateNames(context.Background(), db, []domain.Name{record("Ayşe")})
	if err == nil || out != nil {
		t.Fatalf("expected error creating without table, got out=%v err=%v", out, err)
	}
}

func TestCreateNames_AssignsIDsAndTimestamps(t *testing.T) {
	db := newNameRepoDB(t, &domain.Name{})

	start := time.Now().UTC().Add(-time.Minute)
	out, err := CreateNames(context.Background(), db, []domain.Name{record("Ayşe"), record("Fatma")})
	if err != nil {
		t.Fatalf("CreateNames: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("created %d rows", len(out))
	}
	for _, n := range out {
		if n.ID == 0 {
			t.Fatalf("ID not assigned: %+v", n)
		}
		if n.CreatedAt.Before(start) {
			t.Fatalf("CreatedAt seems unset/really old: %v", n.CreatedAt)
		}
	}
}

func TestCreateNames_DuplicateRollsBack(t *testing.T) {
	db := newNameRepoDB(t, &domain.Name{})
	seedCatalogue(t, db, record("Ayşe"))

	_, err := CreateNames(context.Background(), db, []domain.Name{record("Fatma"), record("Ayşe")})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	total, err := CountNames(context.Background(), db)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("total after rollback = %d, want 1 (Fatma must not persist)", total)
	}
}

func TestGetNameByName(t *testing.T) {
	db := newNameRepoDB(t, &domain.Name{})
	seedCatalogue(t, db, record("Ayşe"))

	got, err := GetNameByName(context.Background(), db, "Ayşe")
	if err != nil {
		t.Fatalf("GetNameByName: %v", err)
	}
	if got.Name != "Ayşe" || got.Meaning != "anlam" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := GetNameByName(context.Background(), db, "Yok"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing row err = %v, want ErrRecordNotFound", err)
	}
}

func TestListNames_Filters(t *testing.T) {
	db := newNameRepoDB(t, &domain.Name{})

	mk := func(name, gender, origin string, syll, length int, inQuran bool) domain.Name {
		return domain.Name{Name: name, Gender: gender, Origin: origin, Syllables: syll, Length: length, Meaning: "m", InQuran: inQuran}
	}
	seedCatalogue(t, db,
		mk("Ahmet", domain.GenderBoy, "Arapça", 2, 5, true),
		mk("Zeynep", domain.GenderGirl, "Arapça", 2, 6, false),
		mk("Deniz", domain.GenderBoth, "Türkçe", 2, 5, false),
		mk("Bahriyenur", domain.GenderGirl, "Arapça", 4, 10, false),
		mk("Abdurrahman", domain.GenderBoy, "Arapça", 5, 11, true),
	)

	ctx := context.Background()

	// Girl bucket includes "both".
	rows, err := ListNames(ctx, db, NameFilter{Gender: domain.GenderGirl}, 0)
	if err != nil {
		t.Fatalf("list girl: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("girl rows = %d, want 3", len(rows))
	}

	// Exact syllable count below the 4+ threshold.
	rows, err = ListNames(ctx, db, NameFilter{Syllables: 2}, 0)
	if err != nil {
		t.Fatalf("list syllables=2: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("syllables=2 rows = %d, want 3", len(rows))
	}

	// 4 means "4 or more".
	rows, err = ListNames(ctx, db, NameFilter{Syllables: 4}, 0)
	if err != nil {
		t.Fatalf("list syllables=4: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("syllables=4 rows = %d, want 2", len(rows))
	}

	rows, err = ListNames(ctx, db, NameFilter{Origin: "Türkçe", MaxLength: 5}, 0)
	if err != nil {
		t.Fatalf("list origin+len: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Deniz" {
		t.Fatalf("origin+len rows: %+v", rows)
	}

	rows, err = ListNames(ctx, db, NameFilter{InQuran: true}, 0)
	if err != nil {
		t.Fatalf("list inQuran: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("inQuran rows = %d, want 2", len(rows))
	}

	// Limit caps the result set.
	rows, err = ListNames(ctx, db, NameFilter{}, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limited rows = %d, want 2", len(rows))
	}
}

func TestListNameStrings(t *testing.T) {
	db := newNameRepoDB(t, &domain.Name{})
	seedCatalogue(t, db, record("Ayşe"), record("Fatma"))

	names, err := ListNameStrings(context.Background(), db)
	if err != nil {
		t.Fatalf("ListNameStrings: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
}

func Test_isUniqueViolation(t *testing.T) {
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("translated duplicate-key error not recognized")
	}
	if !isUniqueViolation(errors.New("UNIQUE constraint failed: names.name")) {
		t.Fatalf("raw sqlite message not recognized")
	}
	if isUniqueViolation(errors.New("database is locked")) {
		t.Fatalf("unrelated error treated as duplicate")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil error treated as duplicate")
	}
}
