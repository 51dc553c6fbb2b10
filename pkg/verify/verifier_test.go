package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"veredito-hq/veredito/internal/testutil"
	"veredito-hq/veredito/pkg/classifier"
	"veredito-hq/veredito/pkg/policy"
	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/store"
)

func newTestVerifier(mock *testutil.MockClassifier, st store.Store) *Verifier {
	var cls classifier.Classifier
	if mock != nil {
		cls = mock
	}
	return NewVerifier(VerifierOptions{
		Evaluator:  NewEvaluator(1000.00),
		Cache:      NewResultCache(time.Minute, nil),
		Classifier: cls,
		Store:      st,
	})
}

func TestVerifyConclusiveSkipsClassifier(t *testing.T) {
	mock := &testutil.MockClassifier{}
	v := newTestVerifier(mock, nil)

	record := eligibleRecord()
	record.Sphere = process.SphereLabor

	decision, fromCache, err := v.Verify(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.Calls() != 0 {
		t.Errorf("classifier called %d times for a conclusive record", mock.Calls())
	}
	if fromCache {
		t.Error("conclusive decision reported as cached")
	}
	if decision.Disposition != process.DispositionRejected {
		t.Errorf("disposition = %s, want rejected", decision.Disposition)
	}
	if decision.Provenance != process.ProvenanceRuleEngine {
		t.Errorf("provenance = %q, want %q", decision.Provenance, process.ProvenanceRuleEngine)
	}
	if decision.Confidence != nil {
		t.Error("rule-engine decision carries a confidence")
	}
	if decision.ProcessNumber != record.Number {
		t.Errorf("process number = %q, want %q", decision.ProcessNumber, record.Number)
	}
}

func TestVerifyNonConclusiveConsultsClassifier(t *testing.T) {
	mock := &testutil.MockClassifier{
		Verdict: &classifier.Verdict{
			Decision:   "approved",
			Rationale:  "meets all policies",
			Citations:  []string{policy.RuleFinalJudgment, policy.RuleMinimumValue},
			Confidence: 0.87,
		},
	}
	v := newTestVerifier(mock, nil)

	decision, fromCache, err := v.Verify(context.Background(), eligibleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.Calls() != 1 {
		t.Fatalf("classifier called %d times, want 1", mock.Calls())
	}
	if fromCache {
		t.Error("fresh decision reported as cached")
	}
	if decision.Disposition != process.DispositionApproved {
		t.Errorf("disposition = %s, want approved", decision.Disposition)
	}
	if decision.Provenance != process.ClassifierProvenance("mock") {
		t.Errorf("provenance = %q, want classifier:mock", decision.Provenance)
	}
	if decision.Confidence == nil || *decision.Confidence != 0.87 {
		t.Errorf("confidence = %v, want 0.87", decision.Confidence)
	}
	if len(decision.Citations) != 2 {
		t.Fatalf("len(citations) = %d, want 2", len(decision.Citations))
	}
	if decision.Citations[0].PolicyID != policy.RuleFinalJudgment {
		t.Errorf("citations[0] = %s, want %s", decision.Citations[0].PolicyID, policy.RuleFinalJudgment)
	}
}

func TestVerifySecondCallServedFromCache(t *testing.T) {
	mock := &testutil.MockClassifier{
		Verdict: &classifier.Verdict{
			Decision:   "approved",
			Rationale:  "meets all policies",
			Confidence: 0.9,
		},
	}
	v := newTestVerifier(mock, nil)

	record := eligibleRecord()

	if _, fromCache, err := v.Verify(context.Background(), record); err != nil || fromCache {
		t.Fatalf("first call: fromCache=%v err=%v", fromCache, err)
	}

	decision, fromCache, err := v.Verify(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Error("second call not served from cache")
	}
	if mock.Calls() != 1 {
		t.Errorf("classifier called %d times, want 1", mock.Calls())
	}
	if decision.ProcessNumber != record.Number {
		t.Errorf("cached decision process number = %q", decision.ProcessNumber)
	}
}

func TestVerifyCacheKeyIgnoresDocuments(t *testing.T) {
	mock := &testutil.MockClassifier{
		Verdict: &classifier.Verdict{
			Decision:   "approved",
			Rationale:  "meets all policies",
			Confidence: 0.9,
		},
	}
	v := newTestVerifier(mock, nil)

	first := eligibleRecord()
	if _, _, err := v.Verify(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same decision-relevant fields, one more document: still a cache hit.
	second := eligibleRecord()
	second.Documents = append(second.Documents, process.Document{
		ID: "d9", Name: "Procuração",
	})

	_, fromCache, err := v.Verify(context.Background(), second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Error("record differing only in documents missed the cache")
	}
	if mock.Calls() != 1 {
		t.Errorf("classifier called %d times, want 1", mock.Calls())
	}
}

func TestVerifyClassifierErrorTranslation(t *testing.T) {
	tests := []struct {
		name     string
		clsErr   error
		checkErr func(t *testing.T, err error)
	}{
		{
			name: "rate limit becomes unavailable with retry hint",
			clsErr: &classifier.RateLimitError{
				Provider:   "mock",
				RetryAfter: 30 * time.Second,
			},
			checkErr: func(t *testing.T, err error) {
				var unavailable *UnavailableError
				if !errors.As(err, &unavailable) {
					t.Fatalf("expected *UnavailableError, got %T", err)
				}
				if unavailable.RetryAfter != 30*time.Second {
					t.Errorf("RetryAfter = %s, want 30s", unavailable.RetryAfter)
				}
			},
		},
		{
			name:   "timeout becomes unavailable",
			clsErr: &classifier.TimeoutError{Provider: "mock", Timeout: time.Second},
			checkErr: func(t *testing.T, err error) {
				var unavailable *UnavailableError
				if !errors.As(err, &unavailable) {
					t.Fatalf("expected *UnavailableError, got %T", err)
				}
			},
		},
		{
			name:   "auth failure becomes auth failed",
			clsErr: &classifier.AuthError{Provider: "mock", Message: "bad key"},
			checkErr: func(t *testing.T, err error) {
				var authFailed *AuthFailedError
				if !errors.As(err, &authFailed) {
					t.Fatalf("expected *AuthFailedError, got %T", err)
				}
				if authFailed.Provider != "mock" {
					t.Errorf("provider = %q, want mock", authFailed.Provider)
				}
			},
		},
		{
			name:   "parse failure becomes response invalid",
			clsErr: &classifier.ParseError{Provider: "mock", RawResponse: "not json"},
			checkErr: func(t *testing.T, err error) {
				var responseInvalid *ResponseInvalidError
				if !errors.As(err, &responseInvalid) {
					t.Fatalf("expected *ResponseInvalidError, got %T", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockClassifier{Err: tt.clsErr}
			v := newTestVerifier(mock, nil)

			_, _, err := v.Verify(context.Background(), eligibleRecord())
			if err == nil {
				t.Fatal("expected error")
			}
			tt.checkErr(t, err)

			// The cause survives translation.
			if !errors.Is(err, tt.clsErr) {
				t.Error("translated error does not unwrap to the classifier error")
			}
		})
	}
}

func TestVerifyWithoutClassifierFallsBackToRules(t *testing.T) {
	v := NewVerifier(VerifierOptions{
		Evaluator: NewEvaluator(1000.00),
	})

	decision, fromCache, err := v.Verify(context.Background(), eligibleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("decision reported as cached")
	}
	if decision.Disposition != process.DispositionApproved {
		t.Errorf("disposition = %s, want approved", decision.Disposition)
	}
	if decision.Provenance != process.ProvenanceRuleEngine {
		t.Errorf("provenance = %q, want rule-engine", decision.Provenance)
	}
}

func TestVerifyInvalidRecord(t *testing.T) {
	mock := &testutil.MockClassifier{}
	v := newTestVerifier(mock, nil)

	_, _, err := v.Verify(context.Background(), &process.Record{Sphere: process.SphereState})
	if err == nil {
		t.Fatal("expected error")
	}

	var invalidErr *process.InvalidRecordError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected *InvalidRecordError, got %T", err)
	}
	if mock.Calls() != 0 {
		t.Error("classifier consulted for an invalid record")
	}
}

func TestVerifyPersistsDecision(t *testing.T) {
	st := store.NewMemoryStore()
	mock := &testutil.MockClassifier{
		Verdict: &classifier.Verdict{
			Decision:   "incomplete",
			Rationale:  "worksheet looks outdated",
			Confidence: 0.7,
		},
	}
	v := newTestVerifier(mock, st)

	record := eligibleRecord()
	if _, _, err := v.Verify(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := st.FindByProcessNumber(context.Background(), record.Number)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("decision not persisted")
	}
	if saved.Disposition != process.DispositionIncomplete {
		t.Errorf("saved disposition = %s, want incomplete", saved.Disposition)
	}
}

func TestVerifySkipsUnknownCitedPolicies(t *testing.T) {
	mock := &testutil.MockClassifier{
		Verdict: &classifier.Verdict{
			Decision:   "rejected",
			Rationale:  "cites a policy that does not exist",
			Citations:  []string{"POL-99", policy.RuleLaborSphere},
			Confidence: 0.8,
		},
	}
	v := newTestVerifier(mock, nil)

	decision, _, err := v.Verify(context.Background(), eligibleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(decision.Citations) != 1 {
		t.Fatalf("len(citations) = %d, want 1", len(decision.Citations))
	}
	if decision.Citations[0].PolicyID != policy.RuleLaborSphere {
		t.Errorf("citations[0] = %s, want %s", decision.Citations[0].PolicyID, policy.RuleLaborSphere)
	}
}
