package validate

import (
	"fmt"
	"regexp"
	"strings"

	"patternforge/internal/catalog"
)

var (
	// Node definitions like RA([Readiness<br/>Assessment]) or CP[Context Persistence]
	diagramNodeRe = regexp.MustCompile(`(\w+)\(?\[\(?([^\])]+)\)?\]\)?`)
	// click RA "https://..."
	diagramClickRe = regexp.MustCompile(`click\s+(\w+)\s+"([^"]+)"`)
	brRe           = regexp.MustCompile(`<br\s*/?>`)
)

// Diagram is the extracted mermaid dependency diagram.
type Diagram struct {
	// Raw mermaid source
	Source string
	// Node ID -> display label
	Nodes map[string]string
	// Node ID -> click link URL
	Clicks map[string]string
	// Line of the opening fence, 1-based
	Line int
}

// ExtractDiagram pulls the first mermaid block out of the document.
// Returns nil when the document has no diagram.
func ExtractDiagram(lines []string) *Diagram {
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if strings.HasPrefix(trimmed, "```mermaid") {
				start = i
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			return parseDiagram(strings.Join(lines[start+1:i], "\n"), start+1)
		}
	}
	return nil
}

func parseDiagram(source string, line int) *Diagram {
	d := &Diagram{
		Source: source,
		Nodes:  make(map[string]string),
		Clicks: make(map[string]string),
		Line:   line,
	}

	for _, raw := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}
		if m := diagramClickRe.FindStringSubmatch(trimmed); m != nil {
			d.Clicks[m[1]] = m[2]
			continue
		}
		for _, m := range diagramNodeRe.FindAllStringSubmatch(trimmed, -1) {
			label := strings.TrimSpace(brRe.ReplaceAllString(m[2], " "))
			label = strings.Trim(label, `"`)
			if label != "" {
				d.Nodes[m[1]] = label
			}
		}
	}
	return d
}

// CheckDiagram validates the dependency diagram: every pattern in the
// reference table appears as a node (matched on short label or full
// name), and every node's click link targets a valid anchor.
func CheckDiagram(cat *catalog.Catalog, file string) []Finding {
	var findings []Finding

	d := ExtractDiagram(cat.Lines())
	if d == nil {
		if len(cat.Table) > 0 {
			findings = append(findings, Finding{
				Check:    "diagram",
				Severity: SeverityWarning,
				File:     file,
				Message:  "no mermaid dependency diagram found",
			})
		}
		return findings
	}

	labels := make(map[string]bool, len(d.Nodes))
	for _, label := range d.Nodes {
		labels[strings.ToLower(label)] = true
	}

	for name := range cat.Table {
		if labels[strings.ToLower(name)] || labels[strings.ToLower(shortLabel(name))] {
			continue
		}
		findings = append(findings, Finding{
			Check:    "diagram",
			Severity: SeverityError,
			File:     file,
			Line:     d.Line,
			Message:  fmt.Sprintf("pattern %q missing from dependency diagram", name),
		})
	}

	anchors := cat.Anchors()
	for id, url := range d.Clicks {
		if _, ok := d.Nodes[id]; !ok {
			findings = append(findings, Finding{
				Check:    "diagram",
				Severity: SeverityError,
				File:     file,
				Line:     d.Line,
				Message:  fmt.Sprintf("click target %q has no node definition", id),
			})
			continue
		}
		if idx := strings.Index(url, "#"); idx >= 0 {
			if !anchors[url[idx:]] {
				findings = append(findings, Finding{
					Check:    "diagram",
					Severity: SeverityError,
					File:     file,
					Line:     d.Line,
					Message:  fmt.Sprintf("click link for %q targets unknown anchor %s", id, url[idx:]),
				})
			}
		}
	}
	return findings
}

// shortLabel drops a leading "AI" or "AI-Driven" qualifier, the way
// diagram nodes abbreviate pattern names.
func shortLabel(name string) string {
	name = strings.TrimPrefix(name, "AI-Driven ")
	name = strings.TrimPrefix(name, "AI ")
	return name
}
