package policy

import "fmt"

// Category groups policy rules by the concern they protect.
type Category string

const (
	// CategoryEligibility covers the positive conditions a process must
	// satisfy before it can be acquired.
	CategoryEligibility Category = "eligibility"
	// CategoryExclusion covers conditions that disqualify a process
	// outright.
	CategoryExclusion Category = "exclusion"
	// CategoryDocumentation covers required-document completeness.
	CategoryDocumentation Category = "documentation"
	// CategoryFees covers fee-disclosure guidance.
	CategoryFees Category = "fees"
)

// Severity indicates how a triggered rule affects the decision.
type Severity string

const (
	// SeverityError rules determine the disposition when triggered.
	SeverityError Severity = "error"
	// SeverityWarning rules are advisory and never change the disposition.
	SeverityWarning Severity = "warning"
)

// Rule is a single business policy. Rules are immutable and loaded once at
// process start; there is no lifecycle beyond the process lifetime.
type Rule struct {
	// ID is the stable policy identifier (e.g. "POL-3").
	ID string `json:"id"`

	// Description is the human-readable statement of the policy.
	Description string `json:"description"`

	// Category groups the rule by concern.
	Category Category `json:"category"`

	// Severity indicates whether the rule is decisive or advisory.
	Severity Severity `json:"severity"`
}

// Stable policy identifiers. The numbering follows the company's policy
// handbook and must not be renumbered.
const (
	// RuleFinalJudgment: only buy credit from processes in final judgment
	// and execution phase.
	RuleFinalJudgment = "POL-1"
	// RuleValueInformed: the condemnation value must be informed.
	RuleValueInformed = "POL-2"
	// RuleMinimumValue: condemnation value below the minimum threshold.
	RuleMinimumValue = "POL-3"
	// RuleLaborSphere: labor sphere condemnations are excluded.
	RuleLaborSphere = "POL-4"
	// RuleAuthorDeceased: author deceased without estate habilitation.
	RuleAuthorDeceased = "POL-5"
	// RuleDelegation: delegation without reserved powers.
	RuleDelegation = "POL-6"
	// RuleFeeDisclosure: contractual, expert and litigation fees must be
	// disclosed when they exist.
	RuleFeeDisclosure = "POL-7"
	// RuleEssentialDocuments: essential documents must be present.
	RuleEssentialDocuments = "POL-8"
)

// catalog is the fixed, ordered set of business policies. Order matters for
// rendering and citation presentation, not for correctness.
var catalog = []Rule{
	{
		ID:          RuleFinalJudgment,
		Description: "Only buy credit from processes in final judgment (transitado em julgado) and execution phase",
		Category:    CategoryEligibility,
		Severity:    SeverityError,
	},
	{
		ID:          RuleValueInformed,
		Description: "Require the condemnation value to be informed",
		Category:    CategoryEligibility,
		Severity:    SeverityError,
	},
	{
		ID:          RuleMinimumValue,
		Description: "Condemnation value below R$ 1,000.00 - do not buy",
		Category:    CategoryExclusion,
		Severity:    SeverityError,
	},
	{
		ID:          RuleLaborSphere,
		Description: "Labor sphere condemnations - do not buy",
		Category:    CategoryExclusion,
		Severity:    SeverityError,
	},
	{
		ID:          RuleAuthorDeceased,
		Description: "Death of the author without habilitation in the estate - do not buy",
		Category:    CategoryExclusion,
		Severity:    SeverityError,
	},
	{
		ID:          RuleDelegation,
		Description: "Delegation (substabelecimento) without reserve of powers - do not buy",
		Category:    CategoryExclusion,
		Severity:    SeverityError,
	},
	{
		ID:          RuleFeeDisclosure,
		Description: "Disclose contractual, expert and litigation fees when they exist",
		Category:    CategoryFees,
		Severity:    SeverityWarning,
	},
	{
		ID:          RuleEssentialDocuments,
		Description: "Missing essential document (e.g. final judgment certificate not proven) - incomplete",
		Category:    CategoryDocumentation,
		Severity:    SeverityError,
	},
}

// All returns the full catalog in its fixed order.
// The returned slice is a copy; callers may not mutate the catalog.
func All() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}

// ByID returns the rule with the given identifier.
// Unknown identifiers fail with a *NotFoundError; this indicates a
// programming or configuration error and is fatal to the request.
func ByID(id string) (Rule, error) {
	for _, r := range catalog {
		if r.ID == id {
			return r, nil
		}
	}
	return Rule{}, &NotFoundError{ID: id}
}

// ByCategory returns all rules in the given category, preserving
// catalog order.
func ByCategory(c Category) []Rule {
	var out []Rule
	for _, r := range catalog {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// NotFoundError reports a lookup for a policy id that does not exist in
// the catalog.
type NotFoundError struct {
	// ID is the unknown policy identifier.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("policy %q not found", e.ID)
}
