package catalog

import (
	"regexp"
	"strings"
)

var tableLinkRe = regexp.MustCompile(`\*\*\[(.+?)\]\((.+?)\)\*\*`)

// parseReferenceTable extracts the complete pattern reference table. The
// table starts at the `| Pattern | Maturity | Type | Description |
// Dependencies |` header and ends at the first non-table line. Category
// divider rows (bold text without a link) are skipped.
func (c *Catalog) parseReferenceTable() {
	inTable := false

	for i, line := range c.lines {
		trimmed := strings.TrimSpace(line)

		if !inTable {
			if strings.Contains(trimmed, "| Pattern | Maturity | Type | Description | Dependencies |") {
				inTable = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "|---") || strings.HasPrefix(trimmed, "| ---") {
			continue
		}
		if trimmed == "" || !strings.HasPrefix(trimmed, "|") {
			break
		}

		cells := splitRow(trimmed)
		if len(cells) < 5 {
			continue
		}
		m := tableLinkRe.FindStringSubmatch(cells[0])
		if m == nil {
			continue
		}

		row := TableRow{
			Name:         m[1],
			Anchor:       m[2],
			Maturity:     cells[1],
			Type:         cells[2],
			Description:  cells[3],
			Dependencies: parseDependencies(cells[4]),
			Line:         i + 1,
		}
		c.Table[row.Name] = row
	}
}

// splitRow splits a markdown table row into trimmed cells.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, p := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// parseDependencies reads a dependencies cell: "None" means no
// dependencies; otherwise markdown links or a comma-separated name list.
func parseDependencies(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "none") {
		return nil
	}

	if links := linkRe.FindAllStringSubmatch(cell, -1); len(links) > 0 {
		deps := make([]string, 0, len(links))
		for _, l := range links {
			deps = append(deps, l[1])
		}
		return deps
	}

	var deps []string
	for _, d := range strings.Split(cell, ",") {
		if d = strings.TrimSpace(d); d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}
