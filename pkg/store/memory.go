package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"veredito-hq/veredito/pkg/process"
)

// MemoryStore implements Store using an in-memory map keyed by process
// number. Decisions do not survive a restart; use the sqlite backend
// when durability matters.
type MemoryStore struct {
	decisions map[string]*process.DecisionResult
	mu        sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decisions: make(map[string]*process.DecisionResult),
	}
}

// Save persists a decision, overwriting any previous decision for the
// same process number.
func (s *MemoryStore) Save(ctx context.Context, result *process.DecisionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to avoid later mutation by the caller.
	resultCopy := *result
	s.decisions[result.ProcessNumber] = &resultCopy
	return nil
}

// FindByProcessNumber returns the stored decision for the process, or
// (nil, nil) when absent.
func (s *MemoryStore) FindByProcessNumber(ctx context.Context, number string) (*process.DecisionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.decisions[number]
	if !ok {
		return nil, nil
	}
	resultCopy := *result
	return &resultCopy, nil
}

// List returns all stored decisions, most recent first.
func (s *MemoryStore) List(ctx context.Context) ([]*process.DecisionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*process.DecisionResult, 0, len(s.decisions))
	for _, result := range s.decisions {
		resultCopy := *result
		results = append(results, &resultCopy)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DecidedAt.After(results[j].DecidedAt)
	})
	return results, nil
}

// DeleteBefore removes decisions decided before the cutoff.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for number, result := range s.decisions {
		if result.DecidedAt.Before(cutoff) {
			delete(s.decisions, number)
			deleted++
		}
	}
	return deleted, nil
}

// Stats returns aggregate counts and rates over stored decisions.
func (s *MemoryStore) Stats(ctx context.Context) (*AggregateStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &AggregateStats{
		ByProvenance: make(map[string]int),
	}

	var totalElapsed time.Duration
	for _, result := range s.decisions {
		stats.Total++
		switch result.Disposition {
		case process.DispositionApproved:
			stats.Approved++
		case process.DispositionRejected:
			stats.Rejected++
		case process.DispositionIncomplete:
			stats.Incomplete++
		}
		stats.ByProvenance[result.Provenance]++
		totalElapsed += result.Elapsed
	}

	if stats.Total > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.Total)
		stats.MeanElapsed = totalElapsed / time.Duration(stats.Total)
	}
	return stats, nil
}

// Close releases the store contents.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decisions = make(map[string]*process.DecisionResult)
	return nil
}

// Size returns the number of stored decisions (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}
