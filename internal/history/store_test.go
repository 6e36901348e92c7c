package history

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aurumview/metals-backend/internal/models"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.json"))
}

func rec(date string, gold, silver float64) models.DailyPrice {
	return models.DailyPrice{
		Date:      date,
		Timestamp: 1756080000000,
		GoldOz:    gold,
		SilverOz:  silver,
		Source:    models.SourceDailySync,
	}
}

func TestMerge_CreatesFile(t *testing.T) {
	s := tempStore(t)

	merged, err := s.Merge(rec("2026-08-25", 2412.5, 30.91))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Date != "2026-08-25" {
		t.Fatalf("unexpected loaded records: %+v", loaded)
	}
}

func TestMerge_IdempotentByDate(t *testing.T) {
	s := tempStore(t)

	if _, err := s.Merge(rec("2026-08-25", 2400.0, 30.0)); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	merged, err := s.Merge(rec("2026-08-25", 2412.5, 30.91))
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected 1 record after re-merge, got %d", len(merged))
	}
	if merged[0].GoldOz != 2412.5 {
		t.Fatalf("latest values should win: got gold %f", merged[0].GoldOz)
	}
}

func TestMerge_SortedAscending(t *testing.T) {
	s := tempStore(t)

	for _, d := range []string{"2026-08-25", "2026-08-21", "2026-08-24"} {
		if _, err := s.Merge(rec(d, 2400.0, 30.0)); err != nil {
			t.Fatalf("merge %s: %v", d, err)
		}
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(loaded))
	}
	if !sort.SliceIsSorted(loaded, func(i, j int) bool { return loaded[i].Date < loaded[j].Date }) {
		t.Fatalf("history not sorted by date: %+v", loaded)
	}
}

func TestMerge_Rounds(t *testing.T) {
	s := tempStore(t)

	merged, err := s.Merge(rec("2026-08-25", 2412.123456, 30.98765))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged[0].GoldOz != 2412.1235 {
		t.Fatalf("gold should round to 4 decimals: got %f", merged[0].GoldOz)
	}
	if merged[0].SilverOz != 30.9877 {
		t.Fatalf("silver should round to 4 decimals: got %f", merged[0].SilverOz)
	}
}

func TestMerge_CollapsesDuplicatesInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	seed := `[
  {"date":"2026-08-24","timestamp":1,"gold_oz":1,"silver_oz":1,"source":"daily-sync"},
  {"date":"2026-08-24","timestamp":2,"gold_oz":2,"silver_oz":2,"source":"daily-sync"},
  {"date":"","timestamp":3,"gold_oz":3,"silver_oz":3,"source":"daily-sync"}
]`
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewStore(path)
	merged, err := s.Merge(rec("2026-08-25", 2412.5, 30.91))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	// One row for the duplicate date (last wins), dateless row dropped.
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(merged), merged)
	}
	if merged[0].Date != "2026-08-24" || merged[0].GoldOz != 2 {
		t.Fatalf("expected last duplicate to win: %+v", merged[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := tempStore(t)
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected empty history, got %+v", loaded)
	}
}

func TestLoad_NotAnArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`{"date":"2026-08-25"}`), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("expected error for non-array store")
	}
}
