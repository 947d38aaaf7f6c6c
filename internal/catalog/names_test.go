package catalog

import "testing"

func TestValidatePatternName_Valid(t *testing.T) {
	for _, name := range []string{"Security Sandbox", "Spec-Driven Development", "Context Persistence"} {
		if issues := ValidatePatternName(name, 1); len(issues) != 0 {
			t.Errorf("%q should be valid, got %v", name, issues)
		}
	}
}

func TestValidatePatternName_WordCount(t *testing.T) {
	issues := ValidatePatternName("Observable AI Development Workflow", 10)
	if !hasRule(issues, "word-count") {
		t.Errorf("expected word-count issue for 4 words, got %v", issues)
	}

	// Hyphenated compounds count as one word.
	if issues := ValidatePatternName("AI-Driven Refactoring", 1); hasRule(issues, "word-count") {
		t.Error("hyphenated compound should count as one word")
	}
}

func TestValidatePatternName_TitleCase(t *testing.T) {
	if issues := ValidatePatternName("security Sandbox", 1); !hasRule(issues, "title-case") {
		t.Error("expected title-case issue for lowercase word")
	}
	if issues := ValidatePatternName("Spec-driven Development", 1); !hasRule(issues, "title-case") {
		t.Error("expected title-case issue for lowercase hyphen part")
	}
}

func TestValidatePatternName_AvoidWords(t *testing.T) {
	if issues := ValidatePatternName("Pattern Manager", 1); !hasRule(issues, "avoid-words") {
		t.Error("expected avoid-words issue for generic words")
	}
}

func TestValidateAntipatternName(t *testing.T) {
	if issues := ValidateAntipatternName("Unrestricted Access", 1); len(issues) != 0 {
		t.Errorf("expected valid antipattern name, got %v", issues)
	}
	if issues := ValidateAntipatternName("Friendly Access", 1); !hasRule(issues, "negative-indicator") {
		t.Error("expected negative-indicator issue")
	}
}

func TestHasNegativeIndicator(t *testing.T) {
	cases := map[string]bool{
		"Broken Feedback":       true,
		"Over-Reliance Loop":    true,
		"Unchecked Output":      true,
		"Careful Review":        false,
		"Premature Automation":  true,
		"Thorough Verification": false,
	}
	for name, want := range cases {
		if got := HasNegativeIndicator(name); got != want {
			t.Errorf("HasNegativeIndicator(%q) = %v, want %v", name, got, want)
		}
	}
}

func hasRule(issues []NameIssue, rule string) bool {
	for _, i := range issues {
		if i.Rule == rule {
			return true
		}
	}
	return false
}
