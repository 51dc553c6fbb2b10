package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/telemetry/metrics"
)

// Batch abort reasons.
const (
	AbortClassifierUnavailable = "classifier-unavailable"
	AbortClassifierAuthFailed  = "classifier-auth-failed"
	AbortCancelled             = "cancelled"
)

// BatchFailure records a single record that could not be verified.
type BatchFailure struct {
	// Index is the record's position in the submitted batch.
	Index int `json:"index"`

	// ProcessNumber identifies the failed record.
	ProcessNumber string `json:"process_number"`

	// Error is the failure message.
	Error string `json:"error"`
}

// BatchResult summarizes a batch verification run.
type BatchResult struct {
	// BatchID uniquely identifies this run.
	BatchID string `json:"batch_id"`

	// Total is the number of records submitted.
	Total int `json:"total"`

	// Processed is the number of records that received a decision.
	Processed int `json:"processed"`

	// Errored is the number of records that failed.
	Errored int `json:"errored"`

	// Results holds the successful decisions, in submission order.
	Results []*process.DecisionResult `json:"results"`

	// Failures holds the per-record failures, in submission order.
	Failures []BatchFailure `json:"failures,omitempty"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`

	// AbortReason is set when the run stopped before reaching the end
	// of the batch. Records after the aborting one are not counted as
	// errors; they were simply never attempted.
	AbortReason string `json:"abort_reason,omitempty"`
}

// Aborted reports whether the run stopped early.
func (r *BatchResult) Aborted() bool {
	return r.AbortReason != ""
}

// BatchCoordinator verifies batches of records sequentially.
//
// Per-record failures (invalid records, malformed classifier responses)
// are recorded and the run continues. Failures that would doom every
// remaining record (classifier outage, authentication failure,
// context cancellation) abort the run instead.
type BatchCoordinator struct {
	verifier *Verifier
	maxSize  int
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewBatchCoordinator creates a batch coordinator. maxSize caps the
// number of records accepted in a single batch.
func NewBatchCoordinator(verifier *Verifier, maxSize int, collector *metrics.Collector, logger *slog.Logger) *BatchCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchCoordinator{
		verifier: verifier,
		maxSize:  maxSize,
		metrics:  collector,
		logger:   logger.With("component", "verify.batch"),
	}
}

// VerifyBatch verifies each record in order and returns the aggregate
// result. Batches larger than the configured maximum are refused with
// *BatchTooLargeError before any record is processed.
func (c *BatchCoordinator) VerifyBatch(ctx context.Context, records []*process.Record) (*BatchResult, error) {
	if len(records) > c.maxSize {
		return nil, &BatchTooLargeError{Requested: len(records), Max: c.maxSize}
	}

	start := time.Now()
	result := &BatchResult{
		BatchID: uuid.NewString(),
		Total:   len(records),
		Results: make([]*process.DecisionResult, 0, len(records)),
	}

	c.logger.Info("batch started",
		"batch_id", result.BatchID,
		"total", result.Total,
	)
	if c.metrics != nil {
		c.metrics.Verification().RecordBatch()
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			c.abort(result, AbortCancelled, i, err)
			break
		}

		decision, _, err := c.verifier.Verify(ctx, record)
		if err == nil {
			result.Processed++
			result.Results = append(result.Results, decision)
			continue
		}

		result.Errored++
		result.Failures = append(result.Failures, BatchFailure{
			Index:         i,
			ProcessNumber: record.Number,
			Error:         err.Error(),
		})

		if reason := abortReason(err); reason != "" {
			c.abort(result, reason, i, err)
			break
		}

		c.logger.Warn("batch record failed",
			"batch_id", result.BatchID,
			"index", i,
			"process_number", record.Number,
			"error", err,
		)
	}

	result.Elapsed = time.Since(start)
	c.logger.Info("batch finished",
		"batch_id", result.BatchID,
		"total", result.Total,
		"processed", result.Processed,
		"errored", result.Errored,
		"aborted", result.Aborted(),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// abortReason maps an error to a batch abort reason, or "" when the
// run should continue past it.
func abortReason(err error) string {
	var unavailableErr *UnavailableError
	var authErr *AuthFailedError

	switch {
	case errors.As(err, &unavailableErr):
		return AbortClassifierUnavailable
	case errors.As(err, &authErr):
		return AbortClassifierAuthFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return AbortCancelled
	default:
		return ""
	}
}

func (c *BatchCoordinator) abort(result *BatchResult, reason string, index int, err error) {
	result.AbortReason = reason
	if c.metrics != nil {
		c.metrics.Verification().RecordBatchAbort(reason)
	}
	c.logger.Error("batch aborted",
		"batch_id", result.BatchID,
		"reason", reason,
		"index", index,
		"error", err,
	)
}
