package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"patternforge/internal/config"
)

const fixtureReadme = "# AI Development Patterns\n" +
	"\n" +
	"[![Patterns](https://img.shields.io/badge/patterns-2-blue.svg)](#complete-pattern-reference)\n" +
	"\n" +
	"## Complete Pattern Reference\n" +
	"\n" +
	"| Pattern | Maturity | Type | Description | Dependencies |\n" +
	"|---------|----------|------|-------------|--------------|\n" +
	"| **Foundation Patterns** | | | | |\n" +
	"| **[Security Sandbox](#security-sandbox)** | Beginner | Foundation | Run AI tools in isolation. | None |\n" +
	"| **[Context Persistence](#context-persistence)** | Intermediate | Development | Preserve session context across runs. | [Security Sandbox](#security-sandbox) |\n" +
	"\n" +
	"## Foundation Patterns\n" +
	"\n" +
	"### Security Sandbox\n" +
	"\n" +
	"**Maturity**: Beginner\n" +
	"**Description**: Run AI tools in isolation.\n" +
	"**Related Patterns**: [Context Persistence](#context-persistence)\n" +
	"\n" +
	"Run every AI coding tool inside a network-isolated container so that\n" +
	"credentials and the host filesystem stay out of reach.\n" +
	"\n" +
	"```bash\n" +
	"### not a heading, just a comment in a code block\n" +
	"docker run --network none sandbox\n" +
	"```\n" +
	"\n" +
	"#### Anti-pattern: Unrestricted Access\n" +
	"Letting the tool run with host credentials mounted.\n" +
	"\n" +
	"## Development Patterns\n" +
	"\n" +
	"### Context Persistence\n" +
	"\n" +
	"**Maturity**: Intermediate\n" +
	"**Description**: Preserve session context across runs.\n" +
	"**Related Patterns**: [Security Sandbox](#security-sandbox)\n" +
	"\n" +
	"Keep TODO.md, DECISIONS.log, and NOTES.md as durable memory files that\n" +
	"survive the end of any one assistant session and seed the next one.\n" +
	"\n" +
	"**Anti-pattern: Contextless Sessions**\n" +
	"Starting every session from a blank slate.\n" +
	"\n" +
	"## Contributing\n" +
	"\n" +
	"PRs welcome.\n"

func parseFixture(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Parse(fixtureReadme, config.DefaultConfig().Catalog)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cat
}

func TestParse_ExtractsPatterns(t *testing.T) {
	cat := parseFixture(t)

	want := []string{"Security Sandbox", "Context Persistence"}
	if diff := cmp.Diff(want, cat.PatternNames()); diff != "" {
		t.Errorf("pattern names mismatch (-want +got):\n%s", diff)
	}

	sandbox := cat.Patterns["Security Sandbox"]
	if sandbox.Maturity != "Beginner" {
		t.Errorf("expected Maturity=Beginner, got %q", sandbox.Maturity)
	}
	if sandbox.Description != "Run AI tools in isolation." {
		t.Errorf("unexpected description: %q", sandbox.Description)
	}
	if sandbox.Category != "Foundation" {
		t.Errorf("expected Category=Foundation, got %q", sandbox.Category)
	}
	if diff := cmp.Diff([]string{"Context Persistence"}, sandbox.RelatedPatterns); diff != "" {
		t.Errorf("related patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SeparatesImplementationAndAntiPattern(t *testing.T) {
	cat := parseFixture(t)

	sandbox := cat.Patterns["Security Sandbox"]
	if !contains(sandbox.Implementation, "network-isolated container") {
		t.Error("implementation content missing")
	}
	if contains(sandbox.Implementation, "Unrestricted Access") {
		t.Error("anti-pattern leaked into implementation")
	}
	if !contains(sandbox.AntiPattern, "Anti-pattern: Unrestricted Access") {
		t.Errorf("anti-pattern header missing: %q", sandbox.AntiPattern)
	}
	if !contains(sandbox.AntiPattern, "host credentials") {
		t.Error("anti-pattern body missing")
	}

	// Bold-style anti-pattern marker works too.
	persistence := cat.Patterns["Context Persistence"]
	if !contains(persistence.AntiPattern, "Contextless Sessions") {
		t.Errorf("bold anti-pattern not detected: %q", persistence.AntiPattern)
	}
}

func TestParse_IgnoresHeadingsInCodeBlocks(t *testing.T) {
	cat := parseFixture(t)
	for _, h := range cat.Headings {
		if contains(h.Text, "not a heading") {
			t.Fatal("code block content parsed as heading")
		}
	}
}

func TestParse_SkipsOrganizationalSections(t *testing.T) {
	cat := parseFixture(t)
	for _, name := range []string{"Contributing", "Complete Pattern Reference"} {
		if _, ok := cat.Patterns[name]; ok {
			t.Errorf("organizational section %q parsed as pattern", name)
		}
	}
}

func TestParse_ReferenceTable(t *testing.T) {
	cat := parseFixture(t)

	if len(cat.Table) != 2 {
		t.Fatalf("expected 2 table rows, got %d", len(cat.Table))
	}

	row := cat.Table["Context Persistence"]
	if row.Maturity != "Intermediate" {
		t.Errorf("expected Maturity=Intermediate, got %q", row.Maturity)
	}
	if row.Anchor != "#context-persistence" {
		t.Errorf("unexpected anchor: %q", row.Anchor)
	}
	if diff := cmp.Diff([]string{"Security Sandbox"}, row.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	if deps := cat.Table["Security Sandbox"].Dependencies; len(deps) != 0 {
		t.Errorf("expected None to parse as empty dependencies, got %v", deps)
	}
}

func TestParse_Anchors(t *testing.T) {
	cat := parseFixture(t)
	anchors := cat.Anchors()

	for _, want := range []string{"#security-sandbox", "#context-persistence", "#complete-pattern-reference"} {
		if !anchors[want] {
			t.Errorf("expected anchor %s to exist", want)
		}
	}
}

func TestAnchor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Security Sandbox", "security-sandbox"},
		{"AI-Driven Refactoring", "ai-driven-refactoring"},
		{"Security & Compliance", "security-compliance"},
		{"**Bold Header**", "bold-header"},
		{"`code` Header", "code-header"},
		{"  Spaced   Out  ", "spaced-out"},
	}
	for _, tc := range cases {
		if got := Anchor(tc.in); got != tc.want {
			t.Errorf("Anchor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateAnchor(t *testing.T) {
	if !ValidateAnchor("Security Sandbox", "#security-sandbox") {
		t.Error("expected anchor to validate")
	}
	if ValidateAnchor("Security Sandbox", "#securitysandbox") {
		t.Error("expected wrong anchor to fail")
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
