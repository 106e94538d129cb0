package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"document-review-api/logger"
	"document-review-api/monitor"

	"github.com/robfig/cron/v3"
)

// DefaultExpirySchedule runs the sweep at midnight.
const DefaultExpirySchedule = "0 0 * * *"

// ExpireOverdue marks every PENDING request past its response deadline as EXPIRED.
func (w *ReviewWorkflow) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := w.repo.ExpireOverdueRequests(ctx, w.now())
	w.record("expire", err)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		monitor.ExpiredRequests.WithLabelValues("sweep").Add(float64(n))
	}
	w.log.Info("expiry sweep finished", "expired", n)
	return n, nil
}

// ExpirySweeper runs ExpireOverdue on a cron schedule.
type ExpirySweeper struct {
	workflow *ReviewWorkflow
	cron     *cron.Cron
	log      *logger.Logger
	timeout  time.Duration

	mu      sync.Mutex
	running bool
}

func NewExpirySweeper(workflow *ReviewWorkflow, schedule string, log *logger.Logger) (*ExpirySweeper, error) {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	s := &ExpirySweeper{
		workflow: workflow,
		cron:     cron.New(),
		log:      log.With("service", "ExpirySweeper"),
		timeout:  5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", schedule, err)
	}
	return s, nil
}

// runOnce skips a tick when the previous sweep is still going.
func (s *ExpirySweeper) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous expiry sweep still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.workflow.ExpireOverdue(ctx); err != nil {
		s.log.Error("expiry sweep failed", "error", err)
	}
}

// Run starts the schedule and blocks until ctx is done, then waits for an in-flight sweep.
func (s *ExpirySweeper) Run(ctx context.Context) error {
	s.cron.Start()
	s.log.Info("expiry sweeper started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("expiry sweeper stopped")
	return nil
}
