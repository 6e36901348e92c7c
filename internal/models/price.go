package models

// DailyPrice is one day of USD spot prices, keyed by market date.
// Timestamp is epoch milliseconds at UTC midnight of Date.
type DailyPrice struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	GoldOz    float64 `json:"gold_oz"`
	SilverOz  float64 `json:"silver_oz"`
	Source    string  `json:"source"`
}

// SourceDailySync is the source label stamped on every synced record.
const SourceDailySync = "daily-sync"
