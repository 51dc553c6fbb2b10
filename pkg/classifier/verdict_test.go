package classifier

import (
	"errors"
	"strings"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *Verdict
		wantErr string
	}{
		{
			name: "clean JSON",
			raw:  `{"decision":"approved","rationale":"all criteria met","citations":["POL-1"],"confidence":0.92}`,
			want: &Verdict{
				Decision:   "approved",
				Rationale:  "all criteria met",
				Citations:  []string{"POL-1"},
				Confidence: 0.92,
			},
		},
		{
			name: "JSON wrapped in prose",
			raw: "Here is my analysis:\n" +
				`{"decision":"rejected","rationale":"labor sphere","citations":["POL-4"],"confidence":1.0}` +
				"\nLet me know if you need anything else.",
			want: &Verdict{
				Decision:   "rejected",
				Rationale:  "labor sphere",
				Citations:  []string{"POL-4"},
				Confidence: 1.0,
			},
		},
		{
			name: "missing citations normalized to empty slice",
			raw:  `{"decision":"incomplete","rationale":"no worksheet","confidence":0.8}`,
			want: &Verdict{
				Decision:   "incomplete",
				Rationale:  "no worksheet",
				Citations:  []string{},
				Confidence: 0.8,
			},
		},
		{
			name:    "no JSON object",
			raw:     "I cannot analyze this record.",
			wantErr: "no JSON object",
		},
		{
			name:    "malformed JSON",
			raw:     `{"decision":"approved",`,
			wantErr: "no JSON object",
		},
		{
			name:    "truncated JSON with closing brace",
			raw:     `{"decision": {"oops"}}`,
			wantErr: "failed to decode",
		},
		{
			name:    "unknown decision",
			raw:     `{"decision":"maybe","rationale":"unsure","confidence":0.5}`,
			wantErr: "unknown decision",
		},
		{
			name:    "empty rationale",
			raw:     `{"decision":"approved","rationale":"","confidence":0.5}`,
			wantErr: "rationale is empty",
		},
		{
			name:    "confidence above one",
			raw:     `{"decision":"approved","rationale":"sure","confidence":1.5}`,
			wantErr: "outside [0, 1]",
		},
		{
			name:    "negative confidence",
			raw:     `{"decision":"approved","rationale":"sure","confidence":-0.1}`,
			wantErr: "outside [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := ParseVerdict("test", tt.raw)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if parseErr.Provider != "test" {
					t.Errorf("provider = %q, want test", parseErr.Provider)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if verdict.Decision != tt.want.Decision {
				t.Errorf("decision = %q, want %q", verdict.Decision, tt.want.Decision)
			}
			if verdict.Rationale != tt.want.Rationale {
				t.Errorf("rationale = %q, want %q", verdict.Rationale, tt.want.Rationale)
			}
			if verdict.Confidence != tt.want.Confidence {
				t.Errorf("confidence = %v, want %v", verdict.Confidence, tt.want.Confidence)
			}
			if verdict.Citations == nil {
				t.Fatal("citations is nil")
			}
			if len(verdict.Citations) != len(tt.want.Citations) {
				t.Fatalf("citations = %v, want %v", verdict.Citations, tt.want.Citations)
			}
			for i := range verdict.Citations {
				if verdict.Citations[i] != tt.want.Citations[i] {
					t.Errorf("citations[%d] = %q, want %q", i, verdict.Citations[i], tt.want.Citations[i])
				}
			}
		})
	}
}
