package policy

import (
	"errors"
	"testing"
)

func TestAllReturnsFullCatalog(t *testing.T) {
	rules := All()

	if len(rules) != 8 {
		t.Fatalf("expected 8 rules, got %d", len(rules))
	}

	seen := make(map[string]bool)
	for _, rule := range rules {
		if rule.ID == "" {
			t.Error("rule with empty ID")
		}
		if rule.Description == "" {
			t.Errorf("rule %s has empty description", rule.ID)
		}
		if seen[rule.ID] {
			t.Errorf("duplicate rule ID %s", rule.ID)
		}
		seen[rule.ID] = true
	}
}

func TestAllReturnsCopy(t *testing.T) {
	rules := All()
	rules[0].Description = "mutated"

	if All()[0].Description == "mutated" {
		t.Error("mutating the returned slice changed the catalog")
	}
}

func TestByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantErr  bool
		category Category
	}{
		{
			name:     "final judgment rule",
			id:       RuleFinalJudgment,
			category: CategoryEligibility,
		},
		{
			name:     "labor sphere rule",
			id:       RuleLaborSphere,
			category: CategoryExclusion,
		},
		{
			name:     "essential documents rule",
			id:       RuleEssentialDocuments,
			category: CategoryDocumentation,
		},
		{
			name:    "unknown rule",
			id:      "POL-99",
			wantErr: true,
		},
		{
			name:    "empty id",
			id:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ByID(tt.id)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.id)
				}
				var notFound *NotFoundError
				if !errors.As(err, &notFound) {
					t.Fatalf("expected *NotFoundError, got %T", err)
				}
				if notFound.ID != tt.id {
					t.Errorf("error ID = %q, want %q", notFound.ID, tt.id)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rule.ID != tt.id {
				t.Errorf("rule.ID = %q, want %q", rule.ID, tt.id)
			}
			if rule.Category != tt.category {
				t.Errorf("rule.Category = %q, want %q", rule.Category, tt.category)
			}
		})
	}
}

func TestByCategory(t *testing.T) {
	exclusions := ByCategory(CategoryExclusion)
	if len(exclusions) != 4 {
		t.Fatalf("expected 4 exclusion rules, got %d", len(exclusions))
	}

	// Catalog order is preserved within a category.
	wantOrder := []string{RuleMinimumValue, RuleLaborSphere, RuleAuthorDeceased, RuleDelegation}
	gotIDs := make([]string, 0, len(exclusions))
	for _, rule := range exclusions {
		gotIDs = append(gotIDs, rule.ID)
	}
	for i, id := range gotIDs {
		if id != wantOrder[i] {
			t.Errorf("exclusions[%d] = %s, want %s", i, id, wantOrder[i])
		}
	}

	if got := ByCategory(Category("nonexistent")); len(got) != 0 {
		t.Errorf("unknown category returned %d rules", len(got))
	}
}
