// Package scheduler runs the daily stats report.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
}

// New creates an idle scheduler.
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetReportFunction installs the daily report job.
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Println("[scheduler] report function not set, nothing to schedule")
		return nil
	}

	// Daily at 21:00 UTC.
	_, err := s.cron.AddFunc("0 21 * * *", func() {
		log.Println("[scheduler] running daily stats report")
		if err := s.reportFunc(s.ctx); err != nil {
			log.Printf("[scheduler] daily stats report failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[scheduler] started, daily stats report at 21:00 UTC")
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("[scheduler] stopped")
}

// IsRunning reports whether any job is registered.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
