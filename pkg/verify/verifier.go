package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"veredito-hq/veredito/pkg/classifier"
	"veredito-hq/veredito/pkg/policy"
	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/store"
	"veredito-hq/veredito/pkg/telemetry/metrics"
)

// VerifierOptions configures a Verifier. Evaluator is required; the
// remaining dependencies are optional and degrade gracefully when nil.
type VerifierOptions struct {
	// Evaluator runs the deterministic policy checks.
	Evaluator *Evaluator

	// Cache holds classifier verdicts keyed by record fingerprint.
	// Nil disables caching.
	Cache *ResultCache

	// Classifier resolves non-conclusive records. Nil means the
	// rule evaluation is final even when inconclusive.
	Classifier classifier.Classifier

	// Store persists decisions. Saves are best effort; a storage
	// failure never fails the verification.
	Store store.Store

	// Metrics records verification and classifier telemetry.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// ClassifierTimeout bounds a single classifier call.
	ClassifierTimeout time.Duration
}

// Verifier decides the disposition of judicial process records.
//
// The deterministic rule evaluation runs first. When it is conclusive
// (a rejection or a missing document) the classifier is never consulted.
// Non-conclusive records are resolved by the external classifier, with
// verdicts cached by record fingerprint.
type Verifier struct {
	evaluator         *Evaluator
	cache             *ResultCache
	classifier        classifier.Classifier
	store             store.Store
	metrics           *metrics.Collector
	logger            *slog.Logger
	classifierTimeout time.Duration
}

// NewVerifier creates a verifier from the given options.
func NewVerifier(opts VerifierOptions) *Verifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		evaluator:         opts.Evaluator,
		cache:             opts.Cache,
		classifier:        opts.Classifier,
		store:             opts.Store,
		metrics:           opts.Metrics,
		logger:            logger.With("component", "verify.verifier"),
		classifierTimeout: opts.ClassifierTimeout,
	}
}

// Verify decides the disposition of a single record. The boolean return
// reports whether the decision was served from the result cache.
//
// Invalid records return *process.InvalidRecordError. Classifier
// failures are translated into the verify error types; the caller can
// distinguish retryable outages (UnavailableError) from permanent
// failures (AuthFailedError, ResponseInvalidError).
func (v *Verifier) Verify(ctx context.Context, record *process.Record) (*process.DecisionResult, bool, error) {
	start := time.Now()

	evaluation, err := v.evaluator.Evaluate(record)
	if err != nil {
		v.recordError("invalid-record")
		return nil, false, err
	}

	if evaluation.Conclusive || v.classifier == nil {
		result := v.finalize(record, &process.DecisionResult{
			Disposition: evaluation.Disposition,
			Rationale:   evaluation.Rationale,
			Citations:   evaluation.Citations,
			Provenance:  process.ProvenanceRuleEngine,
		}, start)
		v.persist(ctx, result)
		return result, false, nil
	}

	fingerprint := NewFingerprint(record)
	if v.cache != nil {
		if cached, ok := v.cache.Get(fingerprint); ok {
			v.logger.Debug("decision served from cache",
				"process_number", record.Number,
				"disposition", cached.Disposition,
			)
			return cached, true, nil
		}
	}

	result, err := v.classify(ctx, record)
	if err != nil {
		return nil, false, err
	}

	result = v.finalize(record, result, start)
	if v.cache != nil {
		v.cache.Set(fingerprint, result)
	}
	v.persist(ctx, result)
	return result, false, nil
}

// classify consults the external classifier and translates its verdict
// into a decision.
func (v *Verifier) classify(ctx context.Context, record *process.Record) (*process.DecisionResult, error) {
	provider := v.classifier.Name()

	prompt, err := classifier.RenderPrompt(record)
	if err != nil {
		v.recordError("response-invalid")
		return nil, &ResponseInvalidError{Provider: provider, Cause: err}
	}

	callCtx := ctx
	if v.classifierTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.classifierTimeout)
		defer cancel()
	}

	callStart := time.Now()
	verdict, err := v.classifier.Classify(callCtx, prompt)
	callElapsed := time.Since(callStart)

	if err != nil {
		translated := v.translateClassifierError(provider, err)
		v.logger.Warn("classifier call failed",
			"provider", provider,
			"process_number", record.Number,
			"elapsed", callElapsed,
			"error", err,
		)
		return nil, translated
	}

	if v.metrics != nil {
		v.metrics.Classifier().RecordCall(provider, callElapsed)
	}

	disposition := process.Disposition(verdict.Decision)
	if !disposition.Valid() {
		v.recordClassifierError(provider, "response-invalid")
		v.recordError("response-invalid")
		return nil, &ResponseInvalidError{
			Provider: provider,
			Cause:    fmt.Errorf("unknown decision %q", verdict.Decision),
		}
	}

	confidence := verdict.Confidence
	return &process.DecisionResult{
		Disposition: disposition,
		Rationale:   verdict.Rationale,
		Citations:   v.resolveCitations(record.Number, verdict.Citations),
		Confidence:  &confidence,
		Provenance:  process.ClassifierProvenance(provider),
	}, nil
}

// resolveCitations maps classifier-cited policy identifiers to catalog
// citations. Unknown identifiers are skipped with a warning rather than
// failing the verdict.
func (v *Verifier) resolveCitations(processNumber string, ids []string) []process.Citation {
	citations := make([]process.Citation, 0, len(ids))
	for _, id := range ids {
		rule, err := policy.ByID(id)
		if err != nil {
			v.logger.Warn("classifier cited unknown policy",
				"process_number", processNumber,
				"policy_id", id,
			)
			continue
		}
		citations = append(citations, process.Citation{
			PolicyID:    rule.ID,
			Explanation: rule.Description,
		})
	}
	return citations
}

// translateClassifierError maps provider error types onto the verify
// error taxonomy and records the corresponding metrics.
func (v *Verifier) translateClassifierError(provider string, err error) error {
	var rateLimitErr *classifier.RateLimitError
	var timeoutErr *classifier.TimeoutError
	var authErr *classifier.AuthError
	var parseErr *classifier.ParseError
	var validationErr *classifier.ValidationError

	switch {
	case errors.As(err, &rateLimitErr):
		v.recordClassifierError(provider, "rate-limit")
		v.recordError("unavailable")
		return &UnavailableError{Provider: provider, RetryAfter: rateLimitErr.RetryAfter, Cause: err}
	case errors.As(err, &timeoutErr):
		v.recordClassifierError(provider, "timeout")
		v.recordError("unavailable")
		return &UnavailableError{Provider: provider, Cause: err}
	case errors.As(err, &authErr):
		v.recordClassifierError(provider, "auth")
		v.recordError("auth-failed")
		return &AuthFailedError{Provider: provider, Cause: err}
	case errors.As(err, &parseErr):
		v.recordClassifierError(provider, "parse")
		v.recordError("response-invalid")
		return &ResponseInvalidError{Provider: provider, Cause: err}
	case errors.As(err, &validationErr):
		v.recordClassifierError(provider, "validation")
		v.recordError("response-invalid")
		return &ResponseInvalidError{Provider: provider, Cause: err}
	default:
		v.recordClassifierError(provider, "other")
		v.recordError("classifier")
		return err
	}
}

// finalize stamps timing and identity onto a decision and records it.
func (v *Verifier) finalize(record *process.Record, result *process.DecisionResult, start time.Time) *process.DecisionResult {
	result.ProcessNumber = record.Number
	result.Elapsed = time.Since(start)
	result.DecidedAt = time.Now().UTC()

	if v.metrics != nil {
		v.metrics.Verification().RecordDecision(
			string(result.Disposition), result.Provenance, result.Elapsed)
	}

	v.logger.Info("process verified",
		"process_number", result.ProcessNumber,
		"disposition", result.Disposition,
		"provenance", result.Provenance,
		"elapsed", result.Elapsed,
	)
	return result
}

// persist saves the decision. Failures are logged but never surfaced;
// the decision itself already succeeded.
func (v *Verifier) persist(ctx context.Context, result *process.DecisionResult) {
	if v.store == nil {
		return
	}
	if err := v.store.Save(ctx, result); err != nil {
		v.logger.Warn("failed to persist decision",
			"process_number", result.ProcessNumber,
			"error", err,
		)
	}
}

func (v *Verifier) recordError(kind string) {
	if v.metrics != nil {
		v.metrics.Verification().RecordError(kind)
	}
}

func (v *Verifier) recordClassifierError(provider, kind string) {
	if v.metrics != nil {
		v.metrics.Classifier().RecordError(provider, kind)
	}
}
