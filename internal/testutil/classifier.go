// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"context"
	"sync"

	"veredito-hq/veredito/pkg/classifier"
)

// MockClassifier is a scriptable classifier for tests. It counts calls
// and returns the configured verdict or error, or delegates to
// ClassifyFunc when set.
type MockClassifier struct {
	// Verdict is returned from Classify when Err and ClassifyFunc are unset.
	Verdict *classifier.Verdict

	// Err is returned from Classify when set.
	Err error

	// ClassifyFunc, when set, handles Classify calls entirely. The
	// argument is the 1-based call count.
	ClassifyFunc func(call int, prompt string) (*classifier.Verdict, error)

	// Provider is the name reported by Name. Defaults to "mock".
	Provider string

	mu    sync.Mutex
	calls int
}

// Classify returns the scripted verdict or error.
func (m *MockClassifier) Classify(ctx context.Context, prompt string) (*classifier.Verdict, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(call, prompt)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Verdict != nil {
		verdict := *m.Verdict
		return &verdict, nil
	}
	return &classifier.Verdict{
		Decision:   "approved",
		Rationale:  "mock approval",
		Citations:  []string{},
		Confidence: 0.9,
	}, nil
}

// Name returns the configured provider name.
func (m *MockClassifier) Name() string {
	if m.Provider != "" {
		return m.Provider
	}
	return "mock"
}

// Close is a no-op.
func (m *MockClassifier) Close() error {
	return nil
}

// Calls returns the number of Classify invocations.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
