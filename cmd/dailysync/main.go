package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aurumview/metals-backend/internal/config"
	"github.com/aurumview/metals-backend/internal/db"
	"github.com/aurumview/metals-backend/internal/docstore"
	"github.com/aurumview/metals-backend/internal/external"
	"github.com/aurumview/metals-backend/internal/jobs"
	"github.com/aurumview/metals-backend/internal/notifications"
	"github.com/aurumview/metals-backend/internal/repository"
)

// dailysync is a single-shot job: upsert today's gold/silver record into
// Firestore, keyed by the New York market date. Inside a market-closed or
// maintenance window it exits cleanly without writing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateDailySync(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	docs, err := docstore.Connect(ctx, cfg.ServiceAccount, cfg.FirestoreProject, cfg.Collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FIRESTORE] %v\n", err)
		os.Exit(1)
	}
	defer docs.Close()

	job := &jobs.DailySyncJob{
		Metals:      external.NewMetalsClient(cfg.APIKey, cfg.AuthHeader),
		Docs:        docs,
		CombinedURL: cfg.CombinedURL,
		GoldURL:     cfg.GoldURL,
		SilverURL:   cfg.SilverURL,
	}

	if cfg.WebhookURL != "" {
		job.Notify = notifications.NewSender(cfg.WebhookURL, cfg.BotName)
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

	res, err := job.Run(ctx, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[SYNC] Daily sync failed: %v\n", err)
		os.Exit(1)
	}
	if res.Skipped {
		return
	}
	fmt.Printf("[SYNC] Done: upserted %s into %s\n", res.QuoteDate, cfg.Collection)
}
