package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aurumview/metals-backend/internal/config"
	"github.com/aurumview/metals-backend/internal/db"
	"github.com/aurumview/metals-backend/internal/external"
	"github.com/aurumview/metals-backend/internal/history"
	"github.com/aurumview/metals-backend/internal/jobs"
	"github.com/aurumview/metals-backend/internal/repository"
)

// historysync is a single-shot job: fetch gold and silver spot prices and
// merge today's record into the JSON history file. Run it from cron; it
// exits non-zero on any failure so the scheduler retries next invocation.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateHistorySync(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	job := &jobs.HistoryJob{
		Metals:    external.NewMetalsClient(cfg.APIKey, cfg.AuthHeader),
		Store:     history.NewStore(cfg.HistoryPath),
		GoldURL:   cfg.GoldURL,
		SilverURL: cfg.SilverURL,
	}

	if cfg.ArchiveEnabled() {
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		job.Archive = repository.NewDailyPriceRepo(pool)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rec, err := job.Run(ctx, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[SYNC] History sync failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SYNC] Done: %s gold $%.4f silver $%.4f\n", rec.Date, rec.GoldOz, rec.SilverOz)
}
