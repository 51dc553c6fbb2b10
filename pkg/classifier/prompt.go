package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"veredito-hq/veredito/pkg/policy"
	"veredito-hq/veredito/pkg/process"
)

// promptTemplate frames the classification task. The classifier must answer
// with a single JSON object so the verdict parser can fail closed on
// anything else.
const promptTemplate = `You are an expert legal analyst specializing in judicial process verification and credit purchase eligibility.

Your task is to analyze a judicial process and provide a structured decision based on company policies.

IMPORTANT: You MUST respond with ONLY a valid JSON object, no additional text before or after.

Response format:
{
    "decision": "approved" | "rejected" | "incomplete",
    "rationale": "Clear explanation of the decision",
    "citations": ["POL-X", "POL-Y"],
    "confidence": 0.95
}

%s

## Process Data
%s

Analyze the process considering:
1. Judicial sphere (reject if labor)
2. Final judgment status (transitado em julgado)
3. Execution phase confirmation
4. Condemnation value against the minimum threshold
5. Essential documents presence
6. Any disqualifying factors (death without estate habilitation, delegation without reserve of powers)

Base your decision on facts from the documents and movements provided.`

// RenderPrompt builds the classification prompt from the policy catalog and
// the process record. Document contents are truncated to keep the prompt
// within provider context limits.
func RenderPrompt(record *process.Record) (string, error) {
	data, err := json.MarshalIndent(promptRecord(record), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize process record: %w", err)
	}
	return fmt.Sprintf(promptTemplate, renderPolicyContext(), string(data)), nil
}

// renderPolicyContext renders the policy catalog as prompt context.
func renderPolicyContext() string {
	var b strings.Builder
	b.WriteString("## Company Policies\n")
	for _, rule := range policy.All() {
		fmt.Fprintf(&b, "- %s [%s, severity: %s]: %s\n",
			rule.ID, rule.Category, rule.Severity, rule.Description)
	}
	return b.String()
}

const maxDocumentPreview = 500

// promptRecord shapes a record for prompt serialization, trimming document
// contents to a preview.
func promptRecord(record *process.Record) map[string]interface{} {
	docs := make([]map[string]interface{}, 0, len(record.Documents))
	for _, doc := range record.Documents {
		preview := doc.Content
		if len(preview) > maxDocumentPreview {
			preview = preview[:maxDocumentPreview]
		}
		docs = append(docs, map[string]interface{}{
			"name":     doc.Name,
			"filed_at": doc.FiledAt,
			"preview":  preview,
		})
	}

	movs := make([]map[string]interface{}, 0, len(record.Movements))
	for _, mov := range record.Movements {
		movs = append(movs, map[string]interface{}{
			"occurred_at": mov.OccurredAt,
			"description": mov.Description,
		})
	}

	return map[string]interface{}{
		"process_number":     record.Number,
		"sphere":             record.Sphere,
		"condemnation_value": record.CondemnationValue,
		"free_justice":       record.FreeJustice,
		"confidential":       record.Confidential,
		"documents":          docs,
		"movements":          movs,
	}
}
