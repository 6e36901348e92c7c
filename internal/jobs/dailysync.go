package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/aurumview/metals-backend/internal/external"
	"github.com/aurumview/metals-backend/internal/market"
	"github.com/aurumview/metals-backend/internal/models"
	"github.com/aurumview/metals-backend/internal/notifications"
	"github.com/aurumview/metals-backend/internal/repository"
)

// DocumentStore is the write surface the daily sync needs from Firestore.
type DocumentStore interface {
	UpsertDaily(ctx context.Context, rec models.DailyPrice) error
}

// Result describes what a daily sync run did.
type Result struct {
	Skipped   bool
	QuoteDate string
	Record    *models.DailyPrice
}

// DailySyncJob upserts today's record into the document store, gated on
// the New York market calendar.
type DailySyncJob struct {
	Metals      *external.MetalsClient
	Docs        DocumentStore
	CombinedURL string // when set, one combined call replaces the two spot calls
	GoldURL     string
	SilverURL   string
	Archive     *repository.DailyPriceRepo // optional
	Notify      *notifications.Sender      // optional
}

func (j *DailySyncJob) Run(ctx context.Context, now time.Time) (*Result, error) {
	open, quoteDate := market.Snapshot(now)
	if !open {
		fmt.Printf("[SYNC] Market closed/maintenance in NY — skipping sync for %s\n", quoteDate)
		return &Result{Skipped: true, QuoteDate: quoteDate}, nil
	}

	rec, err := j.buildRecord(ctx, quoteDate)
	if err != nil {
		return nil, err
	}

	if err := j.Docs.UpsertDaily(ctx, *rec); err != nil {
		return nil, err
	}
	fmt.Printf("[SYNC] Upserted %s (gold %.2f, silver %.2f)\n", rec.Date, rec.GoldOz, rec.SilverOz)

	if j.Archive != nil {
		if _, err := j.Archive.Upsert(ctx, *rec); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
	}

	if j.Notify != nil {
		j.Notify.Send(fmt.Sprintf("Synced %s: gold $%.2f/oz, silver $%.2f/oz", rec.Date, rec.GoldOz, rec.SilverOz))
	}

	return &Result{QuoteDate: quoteDate, Record: rec}, nil
}

// buildRecord assembles the day's record from either the combined endpoint
// or the two spot endpoints. The computed NY quote date always wins over a
// provider-supplied date.
func (j *DailySyncJob) buildRecord(ctx context.Context, quoteDate string) (*models.DailyPrice, error) {
	ts, err := market.TimestampMillis(quoteDate)
	if err != nil {
		return nil, err
	}

	var gold, silver float64
	if j.CombinedURL != "" {
		quote, err := j.Metals.FetchCombined(ctx, j.CombinedURL)
		if err != nil {
			return nil, err
		}
		gold, silver = quote.GoldOz, quote.SilverOz
	} else {
		if gold, err = j.Metals.FetchSpotPrice(ctx, j.GoldURL); err != nil {
			return nil, fmt.Errorf("gold: %w", err)
		}
		if silver, err = j.Metals.FetchSpotPrice(ctx, j.SilverURL); err != nil {
			return nil, fmt.Errorf("silver: %w", err)
		}
	}

	return &models.DailyPrice{
		Date:      quoteDate,
		Timestamp: ts,
		GoldOz:    gold,
		SilverOz:  silver,
		Source:    models.SourceDailySync,
	}, nil
}
