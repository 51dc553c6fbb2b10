package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls scheduled pruning of old decisions.
type RetentionConfig struct {
	// RetentionDays is how long decisions are kept. Zero disables pruning.
	RetentionDays int

	// PruneSchedule is a cron expression. Empty disables the scheduler.
	PruneSchedule string
}

// RetentionScheduler prunes old decisions from the store on a cron
// schedule (e.g. daily at 3 AM).
type RetentionScheduler struct {
	store   Store
	config  RetentionConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewRetentionScheduler creates a new retention scheduler.
func NewRetentionScheduler(store Store, config RetentionConfig) *RetentionScheduler {
	return &RetentionScheduler{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "store.retention"),
	}
}

// Start begins scheduled pruning based on the cron expression.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//
// If PruneSchedule is empty or RetentionDays is zero, the scheduler
// does nothing.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.PruneSchedule == "" || s.config.RetentionDays <= 0 {
		s.logger.Info("retention not configured, skipping scheduler")
		return nil
	}

	_, err := cron.ParseStandard(s.config.PruneSchedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.PruneSchedule, err)
	}

	_, err = s.cron.AddFunc(s.config.PruneSchedule, func() {
		s.runPruning(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.config.PruneSchedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPruning executes one pruning cycle.
func (s *RetentionScheduler) runPruning(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	deleted, err := s.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("scheduled pruning completed",
			"deleted_count", deleted,
			"cutoff", cutoff,
		)
	} else {
		s.logger.Debug("scheduled pruning completed, no decisions deleted")
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled pruning time.
func (s *RetentionScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
