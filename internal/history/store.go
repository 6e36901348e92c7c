package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/aurumview/metals-backend/internal/models"
)

// Store is a flat JSON-array file holding one DailyPrice per date,
// sorted ascending by date.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the history file. A missing file is an empty history; a file
// that does not contain a JSON array is an error.
func (s *Store) Load() ([]models.DailyPrice, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []models.DailyPrice
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%s must contain a JSON array of daily records: %w", s.path, err)
	}
	return records, nil
}

// Merge inserts or replaces the record for rec.Date and rewrites the file
// sorted ascending by date. Duplicate dates already in the file collapse
// last-write-wins; rows without a date are dropped. Prices are rounded to
// 4 decimals on the way in.
func (s *Store) Merge(rec models.DailyPrice) ([]models.DailyPrice, error) {
	if rec.Date == "" {
		return nil, fmt.Errorf("record has no date")
	}

	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]models.DailyPrice, len(existing)+1)
	for _, row := range existing {
		if row.Date == "" {
			continue
		}
		byDate[row.Date] = row
	}

	rec.GoldOz = round4(rec.GoldOz)
	rec.SilverOz = round4(rec.SilverOz)
	byDate[rec.Date] = rec

	merged := make([]models.DailyPrice, 0, len(byDate))
	for _, row := range byDate {
		merged = append(merged, row)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })

	if err := s.write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Store) write(records []models.DailyPrice) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
