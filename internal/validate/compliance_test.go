package validate

import (
	"strings"
	"testing"

	"patternforge/internal/catalog"
	"patternforge/internal/config"
)

const validDoc = `# Catalog

## Complete Pattern Reference

| Pattern | Maturity | Type | Description | Dependencies |
|---------|----------|------|-------------|--------------|
| **[Security Sandbox](#security-sandbox)** | Beginner | Foundation | Run AI tools in isolation. | None |
| **[Context Persistence](#context-persistence)** | Intermediate | Development | Preserve session context across runs. | [Security Sandbox](#security-sandbox) |

## Foundation Patterns

### Security Sandbox

**Maturity**: Beginner
**Description**: Run AI tools in isolation.
**Related Patterns**: [Context Persistence](#context-persistence)

Run every assistant inside a network-isolated container so credentials and
the host filesystem stay out of reach during autonomous work. The container
gets a read-only workspace bind and nothing else.

#### Anti-pattern: Unrestricted Access
Letting the tool run with host credentials mounted.

## Development Patterns

### Context Persistence

**Maturity**: Intermediate
**Description**: Preserve session context across runs.
**Related Patterns**: [Security Sandbox](#security-sandbox)

Keep durable memory files that survive the end of any one assistant session
and seed the next one, so no session starts from a blank slate again.

#### Anti-pattern: Contextless Sessions
Starting every session from scratch.
`

func parseDoc(t *testing.T, content string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse(content, config.DefaultConfig().Catalog)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cat
}

func findingsWith(findings []Finding, substr string) []Finding {
	var out []Finding
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			out = append(out, f)
		}
	}
	return out
}

func TestCheckCompliance_ValidDocPasses(t *testing.T) {
	cat := parseDoc(t, validDoc)
	findings := CheckCompliance(cat, config.DefaultConfig(), "README.md")

	for _, f := range findings {
		if f.Severity == SeverityError {
			t.Errorf("unexpected error finding: %s", f)
		}
	}
}

func TestCheckCompliance_InvalidMaturity(t *testing.T) {
	doc := strings.Replace(validDoc, "**Maturity**: Beginner", "**Maturity**: Expert", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, "invalid maturity level")) == 0 {
		t.Error("expected invalid-maturity finding")
	}
}

func TestCheckCompliance_MultiSentenceDescription(t *testing.T) {
	doc := strings.Replace(validDoc,
		"**Description**: Run AI tools in isolation.",
		"**Description**: Run AI tools in isolation. Also do other things.", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, "single sentence")) == 0 {
		t.Error("expected single-sentence finding")
	}
}

func TestCheckCompliance_MissingAntiPattern(t *testing.T) {
	doc := strings.Replace(validDoc,
		"#### Anti-pattern: Contextless Sessions\nStarting every session from scratch.\n", "", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, "missing anti-pattern")) == 0 {
		t.Error("expected missing anti-pattern finding")
	}
}

func TestCheckCompliance_AntiPatternNeedsName(t *testing.T) {
	doc := strings.Replace(validDoc, "#### Anti-pattern: Unrestricted Access", "#### Anti-pattern:", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, "descriptive name")) == 0 {
		t.Error("expected descriptive-name finding")
	}
}

func TestCheckCompliance_UnknownRelatedPattern(t *testing.T) {
	doc := strings.Replace(validDoc,
		"**Related Patterns**: [Context Persistence](#context-persistence)",
		"**Related Patterns**: [Phantom Pattern](#phantom-pattern)", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, `related pattern "Phantom Pattern" does not exist`)) == 0 {
		t.Error("expected unknown related-pattern finding")
	}
}

func TestCheckCompliance_TableSectionMismatch(t *testing.T) {
	// Add a table row without a matching section.
	doc := strings.Replace(validDoc,
		"| **[Context Persistence](#context-persistence)**",
		"| **[Ghost Entry](#ghost-entry)** | Beginner | Foundation | Missing section. | None |\n| **[Context Persistence](#context-persistence)**", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, `"Ghost Entry" in table but has no section`)) == 0 {
		t.Error("expected table-without-section finding")
	}
}

func TestCheckCompliance_SectionMissingFromTable(t *testing.T) {
	doc := validDoc + `
### Observable Development

**Maturity**: Advanced
**Description**: Make assistant actions visible.
**Related Patterns**: [Security Sandbox](#security-sandbox)

Emit structured traces for every assistant action so humans can audit what
happened after the fact and trust grows from evidence instead of hope.

#### Anti-pattern: Blind Automation
Running without visibility.
`
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, `"Observable Development" has a section but is missing from the reference table`)) == 0 {
		t.Error("expected section-without-table finding")
	}
}

func TestCheckCompliance_TableMaturityDisagrees(t *testing.T) {
	doc := strings.Replace(validDoc,
		"| **[Security Sandbox](#security-sandbox)** | Beginner |",
		"| **[Security Sandbox](#security-sandbox)** | Advanced |", 1)
	findings := CheckCompliance(parseDoc(t, doc), config.DefaultConfig(), "README.md")

	if len(findingsWith(findings, "disagrees with section")) == 0 {
		t.Error("expected maturity-disagreement finding")
	}
}

func TestCheckCompliance_ShortImplementation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Validation.MinImplementationChars = 10000
	findings := CheckCompliance(parseDoc(t, validDoc), cfg, "README.md")

	if len(findingsWith(findings, "implementation content below")) == 0 {
		t.Error("expected short-implementation finding")
	}
}
