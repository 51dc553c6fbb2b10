package store

import (
	"context"
	"time"

	"veredito-hq/veredito/pkg/process"
)

// Store persists verification decisions for later retrieval and analytics.
// The decision engine writes to it after each successful verification but
// does not depend on it for correctness; a failed save is logged, not
// propagated.
type Store interface {
	// Save persists a decision, overwriting any previous decision for
	// the same process number.
	Save(ctx context.Context, result *process.DecisionResult) error

	// FindByProcessNumber returns the stored decision for the process,
	// or (nil, nil) when absent.
	FindByProcessNumber(ctx context.Context, number string) (*process.DecisionResult, error)

	// List returns all stored decisions, most recent first.
	List(ctx context.Context) ([]*process.DecisionResult, error)

	// DeleteBefore removes decisions decided before the cutoff and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Stats returns aggregate counts and rates over stored decisions.
	Stats(ctx context.Context) (*AggregateStats, error)

	// Close releases resources held by the backend.
	Close() error
}

// AggregateStats summarizes stored decisions for the analytics surface.
type AggregateStats struct {
	// Total is the number of stored decisions.
	Total int `json:"total"`

	// Approved, Rejected and Incomplete count decisions per disposition.
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	Incomplete int `json:"incomplete"`

	// ApprovalRate is Approved/Total, zero when empty.
	ApprovalRate float64 `json:"approval_rate"`

	// MeanElapsed is the mean decision latency.
	MeanElapsed time.Duration `json:"mean_elapsed"`

	// ByProvenance counts decisions per provenance tag.
	ByProvenance map[string]int `json:"by_provenance"`
}
