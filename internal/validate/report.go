// Package validate implements the documentation checks for a pattern
// catalog: spec compliance, link integrity, dependency graph analysis, and
// mermaid diagram consistency.
package validate

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result.
type Finding struct {
	Check    string
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (f Finding) String() string {
	loc := f.File
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Check, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s: %s", f.Severity, f.Check, loc, f.Message)
}

// Report aggregates findings across checks.
type Report struct {
	Findings []Finding
}

// Add appends findings.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Errors returns only error-severity findings.
func (r *Report) Errors() []Finding {
	var errs []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	return errs
}

// OK reports whether the run produced no errors.
func (r *Report) OK() bool {
	return len(r.Errors()) == 0
}

// Render formats the report as human-readable text, findings sorted by
// file and line.
func (r *Report) Render() string {
	if len(r.Findings) == 0 {
		return "All checks passed.\n"
	}

	sorted := append([]Finding(nil), r.Findings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Line < sorted[j].Line
	})

	var b strings.Builder
	for _, f := range sorted {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	errs := len(r.Errors())
	fmt.Fprintf(&b, "\n%d finding(s), %d error(s), %d warning(s)\n",
		len(sorted), errs, len(sorted)-errs)
	return b.String()
}
