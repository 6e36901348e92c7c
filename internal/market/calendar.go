package market

import (
	"fmt"
	"time"
)

// DateLayout is the market date format used as the record key everywhere.
const DateLayout = "2006-01-02"

var newYork *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Containers without tzdata; EST keeps dates sane even if DST is off.
		loc = time.FixedZone("EST", -5*3600)
	}
	newYork = loc
}

// Location returns the New York market timezone.
func Location() *time.Location {
	return newYork
}

// QuoteDate returns the market date (YYYY-MM-DD) for ts in New York time.
func QuoteDate(ts time.Time) string {
	return ts.In(newYork).Format(DateLayout)
}

// IsOpen reports whether the metals market is open at ts.
// Closed from Friday 17:00 NY through Sunday 18:00 NY, and during the
// daily maintenance hour 17:00-17:59 NY Monday-Thursday.
func IsOpen(ts time.Time) bool {
	ny := ts.In(newYork)
	wd := ny.Weekday()
	hour := ny.Hour()

	if (wd == time.Friday && hour >= 17) || wd == time.Saturday || (wd == time.Sunday && hour < 18) {
		return false
	}
	if wd >= time.Monday && wd <= time.Thursday && hour == 17 {
		return false
	}
	return true
}

// Snapshot returns whether a sync should run at ts and the quote date it
// would be keyed under.
func Snapshot(ts time.Time) (open bool, quoteDate string) {
	return IsOpen(ts), QuoteDate(ts)
}

// MidnightUTC parses a YYYY-MM-DD date and returns UTC midnight of that day.
func MidnightUTC(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse quote date %q: %w", date, err)
	}
	return t, nil
}

// TimestampMillis returns epoch milliseconds at UTC midnight of date.
func TimestampMillis(date string) (int64, error) {
	t, err := MidnightUTC(date)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
