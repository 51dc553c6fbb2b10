package verify

import (
	"fmt"
	"strings"

	"veredito-hq/veredito/pkg/policy"
	"veredito-hq/veredito/pkg/process"
)

// Evaluation is the outcome of deterministic rule evaluation.
type Evaluation struct {
	// Disposition is the rule-based verdict.
	Disposition process.Disposition

	// Rationale concatenates the explanations of the deciding checks.
	Rationale string

	// Citations are the policies consulted, in check order.
	Citations []process.Citation

	// Conclusive reports whether the disposition is final without
	// consulting the external classifier. Rejections and incompletions
	// are always conclusive; approvals are not.
	Conclusive bool
}

// Evaluator applies the policy catalog to a process record.
// Evaluation is pure and deterministic: no I/O, no clocks, no randomness.
type Evaluator struct {
	minCondemnationValue float64
}

// NewEvaluator creates an evaluator with the given minimum condemnation
// value threshold.
func NewEvaluator(minCondemnationValue float64) *Evaluator {
	return &Evaluator{minCondemnationValue: minCondemnationValue}
}

// Required document name patterns, matched case-insensitively as
// substrings against document names. Filing order is irrelevant.
var requiredDocuments = []string{
	"trânsito em julgado", // transit-in-judgment certificate
	"planilha de cálculo", // calculation worksheet
	"requisição",          // payment requisition (RPV)
}

// Evaluate verifies the record against the policy catalog.
//
// Checks run in a fixed order: exclusions, documentation completeness,
// approval criteria. Rejected takes precedence over Incomplete, which
// takes precedence over Approved. Once an exclusion fires the disposition
// is fixed, but the remaining checks still run so the rationale cites
// every applicable policy.
func (e *Evaluator) Evaluate(record *process.Record) (*Evaluation, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	var citations []process.Citation
	var rejections []string
	var incompletions []string

	// Exclusion checks.
	for _, check := range []func(*process.Record) (bool, []process.Citation){
		e.checkLaborSphere,
		e.checkDeathWithoutEstate,
		e.checkDelegationWithoutReserve,
	} {
		fired, refs := check(record)
		citations = append(citations, refs...)
		if fired {
			for _, ref := range refs {
				rejections = append(rejections, ref.Explanation)
			}
		}
	}

	// Documentation completeness.
	complete, refs := e.checkDocumentCompleteness(record)
	citations = append(citations, refs...)
	if !complete {
		for _, ref := range refs {
			incompletions = append(incompletions, ref.Explanation)
		}
	}

	if len(rejections) > 0 {
		return &Evaluation{
			Disposition: process.DispositionRejected,
			Rationale:   "Process rejected: " + strings.Join(rejections, "; "),
			Citations:   citations,
			Conclusive:  true,
		}, nil
	}

	if len(incompletions) > 0 {
		return &Evaluation{
			Disposition: process.DispositionIncomplete,
			Rationale:   "Process incomplete: " + strings.Join(incompletions, "; "),
			Citations:   citations,
			Conclusive:  true,
		}, nil
	}

	// Approval checks run only when nothing rejected or incomplete.
	var failures []string

	phaseOK, refs := e.checkExecutionPhase(record)
	citations = append(citations, refs...)
	if !phaseOK {
		for _, ref := range refs {
			failures = append(failures, ref.Explanation)
		}
	}

	valueOK, refs := e.checkCondemnationValue(record)
	citations = append(citations, refs...)
	if !valueOK {
		for _, ref := range refs {
			failures = append(failures, ref.Explanation)
		}
	}

	if len(failures) > 0 {
		return &Evaluation{
			Disposition: process.DispositionRejected,
			Rationale:   "Process rejected: " + strings.Join(failures, "; "),
			Citations:   citations,
			Conclusive:  true,
		}, nil
	}

	return &Evaluation{
		Disposition: process.DispositionApproved,
		Rationale:   "Process meets all eligibility criteria and is approved for acquisition",
		Citations:   citations,
		Conclusive:  false,
	}, nil
}

// checkLaborSphere fires when the process runs in the labor sphere.
func (e *Evaluator) checkLaborSphere(record *process.Record) (bool, []process.Citation) {
	if record.Sphere != process.SphereLabor {
		return false, nil
	}
	return true, []process.Citation{cite(policy.RuleLaborSphere, "process is in the labor sphere")}
}

// checkDeathWithoutEstate fires when a death record is filed without any
// estate habilitation document. Detection is keyword co-occurrence across
// document names.
func (e *Evaluator) checkDeathWithoutEstate(record *process.Record) (bool, []process.Citation) {
	death := false
	estate := false
	for _, doc := range record.Documents {
		name := strings.ToLower(doc.Name)
		if strings.Contains(name, "óbito") || strings.Contains(name, "morte") {
			death = true
		}
		if strings.Contains(name, "inventário") || strings.Contains(name, "habilitação") {
			estate = true
		}
	}
	if !death || estate {
		return false, nil
	}
	return true, []process.Citation{cite(policy.RuleAuthorDeceased,
		"death record filed without estate habilitation")}
}

// checkDelegationWithoutReserve fires when a delegation document lacking a
// reserve of powers is filed. Both keywords must appear in one document
// name.
func (e *Evaluator) checkDelegationWithoutReserve(record *process.Record) (bool, []process.Citation) {
	for _, doc := range record.Documents {
		name := strings.ToLower(doc.Name)
		if strings.Contains(name, "substabelecimento") && strings.Contains(name, "sem reserva") {
			return true, []process.Citation{cite(policy.RuleDelegation,
				fmt.Sprintf("delegation without reserve of powers: %q", doc.Name))}
		}
	}
	return false, nil
}

// checkDocumentCompleteness verifies every required document name pattern
// matches at least one filed document.
func (e *Evaluator) checkDocumentCompleteness(record *process.Record) (bool, []process.Citation) {
	var missing []string
	for _, pattern := range requiredDocuments {
		found := false
		for _, doc := range record.Documents {
			if strings.Contains(strings.ToLower(doc.Name), pattern) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, pattern)
		}
	}

	if len(missing) > 0 {
		return false, []process.Citation{cite(policy.RuleEssentialDocuments,
			"missing essential documents: "+strings.Join(missing, ", "))}
	}
	return true, []process.Citation{cite(policy.RuleEssentialDocuments,
		"all essential documents are present")}
}

// checkExecutionPhase verifies the process carries both a final-judgment
// indicator (in document names or content) and an execution-phase
// indicator (in movement descriptions).
func (e *Evaluator) checkExecutionPhase(record *process.Record) (bool, []process.Citation) {
	hasTransit := false
	for _, doc := range record.Documents {
		if strings.Contains(strings.ToLower(doc.Name), "trânsito") ||
			strings.Contains(strings.ToLower(doc.Content), "trânsito em julgado") {
			hasTransit = true
			break
		}
	}

	hasExecution := false
	for _, mov := range record.Movements {
		desc := strings.ToLower(mov.Description)
		if strings.Contains(desc, "execução") || strings.Contains(desc, "cumprimento") {
			hasExecution = true
			break
		}
	}

	if !hasTransit || !hasExecution {
		return false, []process.Citation{cite(policy.RuleFinalJudgment,
			"process is not in final judgment and execution phase")}
	}
	return true, []process.Citation{cite(policy.RuleFinalJudgment,
		"process is in final judgment and execution phase")}
}

// checkCondemnationValue verifies the condemnation value is informed and
// meets the minimum threshold.
func (e *Evaluator) checkCondemnationValue(record *process.Record) (bool, []process.Citation) {
	if record.CondemnationValue == nil {
		return false, []process.Citation{cite(policy.RuleValueInformed,
			"condemnation value not informed")}
	}

	value := *record.CondemnationValue
	if value < e.minCondemnationValue {
		return false, []process.Citation{cite(policy.RuleMinimumValue,
			fmt.Sprintf("condemnation value %.2f is below the %.2f minimum",
				value, e.minCondemnationValue))}
	}

	return true, []process.Citation{cite(policy.RuleValueInformed,
		fmt.Sprintf("condemnation value informed: %.2f", value))}
}

// cite builds a citation for a catalog rule, prefixing the explanation
// with the rule description.
func cite(policyID, explanation string) process.Citation {
	rule, err := policy.ByID(policyID)
	if err != nil {
		// The evaluator only cites catalog constants; reaching this
		// means the catalog and the checks drifted apart.
		panic(err)
	}
	return process.Citation{
		PolicyID:    rule.ID,
		Explanation: rule.Description + " - " + explanation,
	}
}
