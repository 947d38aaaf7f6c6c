package validate

import (
	"strings"
	"testing"
)

const depsDocHeader = `# Catalog

## Complete Pattern Reference

| Pattern | Maturity | Type | Description | Dependencies |
|---------|----------|------|-------------|--------------|
`

func TestDependencyGraph_NoCycles(t *testing.T) {
	doc := depsDocHeader +
		"| **[Security Sandbox](#security-sandbox)** | Beginner | Foundation | Base. | None |\n" +
		"| **[Context Persistence](#context-persistence)** | Intermediate | Development | Uses sandbox. | [Security Sandbox](#security-sandbox) |\n"

	g := NewDependencyGraph(parseDoc(t, doc))
	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}

	depths := g.Depth()
	if depths["Security Sandbox"] != 0 {
		t.Errorf("expected depth 0 for root, got %d", depths["Security Sandbox"])
	}
	if depths["Context Persistence"] != 1 {
		t.Errorf("expected depth 1, got %d", depths["Context Persistence"])
	}
}

func TestDependencyGraph_DetectsCycle(t *testing.T) {
	doc := depsDocHeader +
		"| **[Alpha Pattern](#alpha-pattern)** | Beginner | Foundation | A. | [Beta Pattern](#beta-pattern) |\n" +
		"| **[Beta Pattern](#beta-pattern)** | Beginner | Foundation | B. | [Alpha Pattern](#alpha-pattern) |\n"

	g := NewDependencyGraph(parseDoc(t, doc))
	cycles := g.Cycles()
	if len(cycles) == 0 {
		t.Fatal("expected a cycle")
	}

	depths := g.Depth()
	if depths["Alpha Pattern"] != -1 || depths["Beta Pattern"] != -1 {
		t.Errorf("expected cycle members to have depth -1, got %v", depths)
	}

	findings := CheckDependencies(parseDoc(t, doc), "README.md")
	found := false
	for _, f := range findings {
		if strings.Contains(f.Message, "circular dependency") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected circular-dependency finding, got %+v", findings)
	}
}

func TestDependencyGraph_UnknownDepWithSuggestion(t *testing.T) {
	doc := depsDocHeader +
		"| **[Security Sandbox](#security-sandbox)** | Beginner | Foundation | Base. | None |\n" +
		"| **[Context Persistence](#context-persistence)** | Intermediate | Development | Typo dep. | [Security Sandbx](#security-sandbox) |\n"

	findings := NewDependencyGraph(parseDoc(t, doc)).UnknownDependencies()
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}
	if !strings.Contains(findings[0].Message, `did you mean "Security Sandbox"`) {
		t.Errorf("expected suggestion in finding: %s", findings[0].Message)
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"sandbox", "sandbox", 0},
		{"sandbox", "sandbx", 1},
		{"abc", "xyz", 3},
		{"", "abc", 3},
	}
	for _, tc := range cases {
		if got := editDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
