package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurumview/metals-backend/internal/api"
	"github.com/aurumview/metals-backend/internal/config"
	"github.com/aurumview/metals-backend/internal/db"
	"github.com/aurumview/metals-backend/internal/docstore"
	"github.com/aurumview/metals-backend/internal/external"
	"github.com/aurumview/metals-backend/internal/jobs"
	"github.com/aurumview/metals-backend/internal/notifications"
	"github.com/aurumview/metals-backend/internal/repository"
	"github.com/aurumview/metals-backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║      Metals Daily Sync Server        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(pool, cfg.Port, cfg.APIServerKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// 2. In-process daily sync (only when Firestore credentials are configured)
	var sched *scheduler.DailySyncScheduler
	if cfg.ServiceAccount != "" {
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
			Archive:     repository.NewDailyPriceRepo(pool),
		}
		if cfg.WebhookURL != "" {
			job.Notify = notifications.NewSender(cfg.WebhookURL, cfg.BotName)
		}

		sched = scheduler.NewDailySyncScheduler(job, time.Duration(cfg.SyncIntervalMinutes)*time.Minute)
		sched.Start()
	} else {
		fmt.Println("[SCHEDULER] Skipped - no Firestore credentials configured")
	}

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
