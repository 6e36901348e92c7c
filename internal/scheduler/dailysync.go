package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aurumview/metals-backend/internal/jobs"
)

// DailySyncScheduler runs the Firestore sync job on a fixed interval.
// The job gates itself on the market calendar and is idempotent by date
// key, so a coarse interval with reruns is safe.
type DailySyncScheduler struct {
	job      *jobs.DailySyncJob
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewDailySyncScheduler(job *jobs.DailySyncJob, interval time.Duration) *DailySyncScheduler {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &DailySyncScheduler{job: job, interval: interval}
}

func (s *DailySyncScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[SCHEDULER] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Initial run on startup (fire-and-forget)
	go s.runOnce()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()

	fmt.Printf("[SCHEDULER] Started (sync every %s)\n", s.interval)
}

func (s *DailySyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	fmt.Println("[SCHEDULER] Stopped")
}

func (s *DailySyncScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *DailySyncScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	res, err := s.job.Run(ctx, time.Now())
	if err != nil {
		fmt.Printf("[SCHEDULER] Sync failed: %v\n", err)
		return
	}
	if res.Skipped {
		return
	}
	fmt.Printf("[SCHEDULER] Sync complete for %s\n", res.QuoteDate)
}
