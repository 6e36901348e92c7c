package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/aurumview/metals-backend/internal/external"
	"github.com/aurumview/metals-backend/internal/history"
	"github.com/aurumview/metals-backend/internal/market"
	"github.com/aurumview/metals-backend/internal/models"
	"github.com/aurumview/metals-backend/internal/repository"
)

// HistoryJob fetches both spot prices and merges today's record into the
// flat JSON history file. It runs unconditionally — no market gate.
type HistoryJob struct {
	Metals    *external.MetalsClient
	Store     *history.Store
	GoldURL   string
	SilverURL string
	Archive   *repository.DailyPriceRepo // optional
}

func (j *HistoryJob) Run(ctx context.Context, now time.Time) (*models.DailyPrice, error) {
	quoteDate := market.QuoteDate(now)
	ts, err := market.TimestampMillis(quoteDate)
	if err != nil {
		return nil, err
	}

	gold, err := j.Metals.FetchSpotPrice(ctx, j.GoldURL)
	if err != nil {
		return nil, fmt.Errorf("gold: %w", err)
	}
	silver, err := j.Metals.FetchSpotPrice(ctx, j.SilverURL)
	if err != nil {
		return nil, fmt.Errorf("silver: %w", err)
	}

	rec := models.DailyPrice{
		Date:      quoteDate,
		Timestamp: ts,
		GoldOz:    gold,
		SilverOz:  silver,
		Source:    models.SourceDailySync,
	}

	merged, err := j.Store.Merge(rec)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[SYNC] Updated %s with %s (%d records)\n", j.Store.Path(), quoteDate, len(merged))

	if j.Archive != nil {
		if _, err := j.Archive.Upsert(ctx, rec); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		fmt.Printf("[SYNC] Archived %s to Postgres\n", quoteDate)
	}

	return &rec, nil
}
