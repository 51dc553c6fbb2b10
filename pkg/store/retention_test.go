package store

import (
	"context"
	"testing"
	"time"
)

func TestRetentionSchedulerNotConfigured(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	tests := []struct {
		name   string
		config RetentionConfig
	}{
		{"empty schedule", RetentionConfig{RetentionDays: 30}},
		{"zero retention days", RetentionConfig{PruneSchedule: "0 3 * * *"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewRetentionScheduler(s, tt.config)
			if err := scheduler.Start(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if scheduler.IsRunning() {
				t.Error("scheduler running without configuration")
			}
		})
	}
}

func TestRetentionSchedulerInvalidSchedule(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	scheduler := NewRetentionScheduler(s, RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "not a cron expression",
	})
	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestRetentionSchedulerStartStop(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	scheduler := NewRetentionScheduler(s, RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scheduler.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if scheduler.NextRun() == nil {
		t.Error("no next run scheduled")
	}

	scheduler.Stop()
	if scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}

func TestRetentionSchedulerStopsOnContextCancel(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	scheduler := NewRetentionScheduler(s, RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()

	deadline := time.Now().Add(time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
}
