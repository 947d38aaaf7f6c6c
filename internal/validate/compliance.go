package validate

import (
	"fmt"
	"strings"

	"patternforge/internal/catalog"
	"patternforge/internal/config"
)

// CheckCompliance validates pattern sections against the catalog
// conventions: required fields, valid maturity, single-sentence
// descriptions, hyperlinked related patterns, anti-pattern sections with
// descriptive names, enough implementation content, known categories, and
// two-way agreement with the reference table.
func CheckCompliance(cat *catalog.Catalog, cfg *config.Config, file string) []Finding {
	var findings []Finding
	ccfg := cfg.Catalog

	add := func(line int, format string, args ...interface{}) {
		findings = append(findings, Finding{
			Check:    "compliance",
			Severity: SeverityError,
			File:     file,
			Line:     line,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	// Expected patterns must exist as sections.
	expected := ccfg.ExpectedPatterns
	if len(expected) == 0 {
		for name := range cat.Table {
			expected = append(expected, name)
		}
	}
	for _, name := range expected {
		if _, ok := cat.Patterns[name]; !ok {
			add(0, "expected pattern %q has no section", name)
		}
	}

	for _, name := range cat.PatternNames() {
		p := cat.Patterns[name]

		switch {
		case p.Maturity == "":
			add(p.Line, "pattern %q: missing maturity level", name)
		case !ccfg.HasMaturity(p.Maturity):
			add(p.Line, "pattern %q: invalid maturity level %q", name, p.Maturity)
		}

		switch {
		case p.Description == "":
			add(p.Line, "pattern %q: missing description", name)
		case strings.Count(p.Description, ".") > 1:
			add(p.Line, "pattern %q: description must be a single sentence", name)
		}

		if len(p.RelatedPatterns) == 0 {
			add(p.Line, "pattern %q: missing related patterns", name)
		}
		for _, rel := range p.RelatedPatterns {
			if _, ok := cat.Patterns[rel]; !ok {
				add(p.Line, "pattern %q: related pattern %q does not exist", name, rel)
			}
		}

		if p.AntiPattern == "" {
			add(p.Line, "pattern %q: missing anti-pattern section", name)
		} else {
			findings = append(findings, checkAntiPatternName(p, file)...)
		}

		if len(strings.TrimSpace(p.Implementation)) < cfg.Validation.MinImplementationChars {
			add(p.Line, "pattern %q: implementation content below %d characters",
				name, cfg.Validation.MinImplementationChars)
		}

		if p.Category != "" && !ccfg.HasCategory(p.Category) {
			add(p.Line, "pattern %q: unknown category %q", name, p.Category)
		}

		for _, issue := range catalog.ValidatePatternName(name, p.Line) {
			add(p.Line, "pattern %q: naming: %s", name, issue.Message)
		}
	}

	findings = append(findings, checkReferenceTable(cat, file)...)
	return findings
}

// checkAntiPatternName verifies the anti-pattern header carries a
// descriptive name and that the name follows the antipattern convention.
func checkAntiPatternName(p *catalog.Pattern, file string) []Finding {
	var findings []Finding

	header := strings.SplitN(p.AntiPattern, "\n", 2)[0]
	name := ""
	if idx := strings.Index(header, ":"); idx >= 0 {
		name = strings.TrimSpace(header[idx+1:])
		name = strings.TrimSuffix(name, "**")
		name = strings.TrimSpace(name)
	}

	if len(name) < 5 {
		findings = append(findings, Finding{
			Check:    "compliance",
			Severity: SeverityError,
			File:     file,
			Line:     p.Line,
			Message:  fmt.Sprintf("pattern %q: anti-pattern needs a descriptive name", p.Name),
		})
		return findings
	}

	for _, issue := range catalog.ValidateAntipatternName(name, p.Line) {
		findings = append(findings, Finding{
			Check:    "compliance",
			Severity: SeverityWarning,
			File:     file,
			Line:     p.Line,
			Message:  fmt.Sprintf("pattern %q: anti-pattern name %q: %s", p.Name, name, issue.Message),
		})
	}
	return findings
}

// checkReferenceTable verifies two-way agreement between the reference
// table and the pattern sections, plus per-row anchor and maturity
// consistency.
func checkReferenceTable(cat *catalog.Catalog, file string) []Finding {
	var findings []Finding

	add := func(line int, format string, args ...interface{}) {
		findings = append(findings, Finding{
			Check:    "reference-table",
			Severity: SeverityError,
			File:     file,
			Line:     line,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for name, row := range cat.Table {
		p, ok := cat.Patterns[name]
		if !ok {
			add(row.Line, "pattern %q in table but has no section", name)
			continue
		}
		if !catalog.ValidateAnchor(name, row.Anchor) {
			add(row.Line, "pattern %q: table anchor %q does not match expected %q",
				name, row.Anchor, "#"+catalog.Anchor(name))
		}
		if p.Maturity != "" && row.Maturity != p.Maturity {
			add(row.Line, "pattern %q: table maturity %q disagrees with section %q",
				name, row.Maturity, p.Maturity)
		}
	}

	for _, name := range cat.PatternNames() {
		if _, ok := cat.Table[name]; !ok {
			add(cat.Patterns[name].Line, "pattern %q has a section but is missing from the reference table", name)
		}
	}
	return findings
}
