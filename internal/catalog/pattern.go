// Package catalog models the pattern catalog document: the README that
// holds pattern sections, the reference table, and the maturity/category
// taxonomy. Parsing goes through goldmark so headings inside fenced code
// blocks are never mistaken for structure.
package catalog

// Pattern is one documented pattern section.
type Pattern struct {
	Name     string
	Line     int
	Category string

	Maturity    string
	Description string

	// Related pattern names extracted from markdown links
	RelatedPatterns []string

	// Body text between the fields and the anti-pattern section
	Implementation string

	// The anti-pattern block, header included
	AntiPattern string
}

// TableRow is one row of the complete pattern reference table.
type TableRow struct {
	Name         string
	Maturity     string
	Type         string
	Description  string
	Dependencies []string
	Anchor       string
	Line         int
}

// Heading is a markdown heading with its source position.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Catalog is a parsed pattern catalog document.
type Catalog struct {
	// Patterns by name, insertion order preserved in Order
	Patterns map[string]*Pattern
	Order    []string

	// Reference table rows by pattern name
	Table map[string]TableRow

	// All document headings
	Headings []Heading

	lines []string
}

// Lines returns the document's source lines.
func (c *Catalog) Lines() []string { return c.lines }

// Anchors returns the set of valid anchor targets derived from headings.
func (c *Catalog) Anchors() map[string]bool {
	anchors := make(map[string]bool, len(c.Headings))
	for _, h := range c.Headings {
		anchors["#"+Anchor(h.Text)] = true
	}
	return anchors
}

// PatternNames returns pattern names in document order.
func (c *Catalog) PatternNames() []string {
	return append([]string(nil), c.Order...)
}
