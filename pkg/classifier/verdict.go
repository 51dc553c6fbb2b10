package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseVerdict extracts the structured verdict from raw classifier output.
//
// Providers occasionally wrap the JSON object in prose despite instructions,
// so the parser locates the outermost braces before decoding. Parsing fails
// closed: a missing or unknown decision field is a *ParseError, never a
// silently defaulted verdict.
func ParseVerdict(provider, raw string) (*Verdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, &ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("no JSON object in classifier output"),
		}
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &verdict); err != nil {
		return nil, &ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("failed to decode verdict: %w", err),
		}
	}

	switch verdict.Decision {
	case "approved", "rejected", "incomplete":
	default:
		return nil, &ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("unknown decision %q in verdict", verdict.Decision),
		}
	}

	if verdict.Rationale == "" {
		return nil, &ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("verdict rationale is empty"),
		}
	}

	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return nil, &ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("verdict confidence %v outside [0, 1]", verdict.Confidence),
		}
	}

	if verdict.Citations == nil {
		verdict.Citations = []string{}
	}

	return &verdict, nil
}
