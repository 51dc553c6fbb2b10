package process

import (
	"fmt"
	"time"
)

// Sphere identifies the judicial sphere a process belongs to.
type Sphere string

const (
	// SphereFederal is the federal judicial sphere.
	SphereFederal Sphere = "federal"
	// SphereState is the state judicial sphere.
	SphereState Sphere = "state"
	// SphereLabor is the labor judicial sphere. Processes in this sphere
	// are never eligible for acquisition.
	SphereLabor Sphere = "labor"
)

// Valid reports whether the sphere is one of the known values.
func (s Sphere) Valid() bool {
	switch s {
	case SphereFederal, SphereState, SphereLabor:
		return true
	}
	return false
}

// Disposition is the three-way outcome of a verification.
type Disposition string

const (
	// DispositionApproved means the process meets all acquisition criteria.
	DispositionApproved Disposition = "approved"
	// DispositionRejected means an exclusion or eligibility rule fired.
	DispositionRejected Disposition = "rejected"
	// DispositionIncomplete means an essential document is missing.
	DispositionIncomplete Disposition = "incomplete"
)

// Valid reports whether the disposition is one of the known values.
func (d Disposition) Valid() bool {
	switch d {
	case DispositionApproved, DispositionRejected, DispositionIncomplete:
		return true
	}
	return false
}

// ProvenanceRuleEngine tags decisions produced by the deterministic rule
// evaluator alone.
const ProvenanceRuleEngine = "rule-engine"

// ClassifierProvenance builds the provenance tag for a decision produced by
// an external classifier (e.g. "classifier:anthropic").
func ClassifierProvenance(provider string) string {
	return "classifier:" + provider
}

// Document is a single filing attached to a judicial process.
// Names are matched case-insensitively against required-document keywords;
// filing order is irrelevant for decision purposes.
type Document struct {
	ID      string    `json:"id" yaml:"id"`
	FiledAt time.Time `json:"filed_at" yaml:"filed_at"`
	Name    string    `json:"name" yaml:"name"`
	Content string    `json:"content" yaml:"content"`
}

// Movement is a single procedural movement of a judicial process.
// Movement descriptions are scanned for phase indicators such as the start
// of the execution phase.
type Movement struct {
	OccurredAt  time.Time `json:"occurred_at" yaml:"occurred_at"`
	Description string    `json:"description" yaml:"description"`
}

// Record is a judicial process submitted for verification.
// A record is immutable once submitted; the engine never mutates it.
type Record struct {
	// Number is the unique process number (CNJ numbering in practice,
	// treated as an opaque identifier here).
	Number string `json:"number" yaml:"number"`

	// Sphere is the judicial sphere (federal, state, labor).
	Sphere Sphere `json:"sphere" yaml:"sphere"`

	// CondemnationValue is the condemnation amount in currency units.
	// Nil when the value has not been informed.
	CondemnationValue *float64 `json:"condemnation_value,omitempty" yaml:"condemnation_value,omitempty"`

	// Documents are the filings attached to the process, in filing order.
	Documents []Document `json:"documents" yaml:"documents"`

	// Movements are the procedural movements, in chronological order.
	Movements []Movement `json:"movements" yaml:"movements"`

	// FreeJustice indicates the author litigates under free justice.
	FreeJustice bool `json:"free_justice" yaml:"free_justice"`

	// Confidential indicates the process runs under judicial secrecy.
	Confidential bool `json:"confidential" yaml:"confidential"`
}

// Validate checks the structural integrity of the record.
// It returns an *InvalidRecordError describing the first missing or
// malformed field. A valid record may still be rejected or incomplete;
// validation only guards against input the evaluator cannot reason about.
func (r *Record) Validate() error {
	if r == nil {
		return &InvalidRecordError{Field: "record", Reason: "record is nil"}
	}
	if r.Number == "" {
		return &InvalidRecordError{Field: "number", Reason: "process number is required"}
	}
	if !r.Sphere.Valid() {
		return &InvalidRecordError{
			Field:  "sphere",
			Reason: fmt.Sprintf("unknown sphere %q (want federal, state or labor)", r.Sphere),
		}
	}
	return nil
}

// Citation links a decision back to the policy that motivated it.
type Citation struct {
	// PolicyID is the stable policy identifier (e.g. "POL-4").
	PolicyID string `json:"policy_id" yaml:"policy_id"`

	// Explanation describes how the policy applied to this record.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// DecisionResult is the outcome of verifying a single process record.
type DecisionResult struct {
	// ProcessNumber identifies the record this decision belongs to.
	ProcessNumber string `json:"process_number"`

	// Disposition is the verification outcome.
	Disposition Disposition `json:"disposition"`

	// Rationale is a human-readable explanation derived from the
	// triggered citations.
	Rationale string `json:"rationale"`

	// Citations are the policies consulted, in the order the checks ran.
	Citations []Citation `json:"citations"`

	// Confidence is the classifier's self-reported confidence in [0, 1].
	// Nil for deterministic decisions: confidence is defined iff the
	// provenance is classifier:*.
	Confidence *float64 `json:"confidence,omitempty"`

	// Elapsed is the wall-clock processing time for this decision.
	Elapsed time.Duration `json:"elapsed"`

	// Provenance records whether the decision came from the rule engine
	// or an external classifier ("rule-engine" or "classifier:<provider>").
	Provenance string `json:"provenance"`

	// DecidedAt is when the decision was produced.
	DecidedAt time.Time `json:"decided_at"`
}

// FromClassifier reports whether the decision was produced by an external
// classifier rather than the deterministic rule evaluator.
func (d *DecisionResult) FromClassifier() bool {
	return d.Provenance != ProvenanceRuleEngine && d.Provenance != ""
}

// InvalidRecordError reports a structurally invalid process record.
// It is a caller error and is never retried.
type InvalidRecordError struct {
	// Field is the offending record field.
	Field string

	// Reason describes what is wrong with the field.
	Reason string
}

// Error implements the error interface.
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid process record: field %q: %s", e.Field, e.Reason)
}
