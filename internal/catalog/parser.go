package catalog

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"patternforge/internal/config"
	"patternforge/internal/logging"
)

// The parser configuration never changes and goldmark parsers are safe to
// share; per-call state lives in the reader.
var (
	mdInstance goldmark.Markdown
	mdOnce     sync.Once
)

func markdown() goldmark.Markdown {
	mdOnce.Do(func() {
		mdInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return mdInstance
}

// Organizational sections that look like pattern headers but are not
// patterns.
var excludedSections = []string{
	"Pattern Organization", "Pattern Dependencies & Implementation Order",
	"Complete Pattern Reference", "Pattern Maturity Levels", "Task Sizing Framework",
	"Pattern Selection Decision Framework", "Decision Tree", "Context-Based Pattern Selection",
	"Project Type Recommendations", "Team Size Considerations", "Technology Stack Considerations",
	"Code Quality Prerequisites", "Documentation Standards", "Feature Request",
	"Contributing", "Getting Started", "License", "Success Metrics",
	"CLI Requirements", "Input Validation", "Long Method Smell", "Large Class Smell",
	"Foundation Anti-Patterns", "Development Anti-Patterns", "Operations Anti-Patterns",
	"Common AI Development Anti-Patterns", "Foundation Metrics", "Development Metrics",
	"Operations Metrics", "Phase 1:", "Phase 2:", "Phase 3:", "Pattern Contribution Guidelines",
	"Security & Compliance Patterns", "Deployment Automation Patterns", "Monitoring & Maintenance Patterns",
}

var (
	fieldRe = regexp.MustCompile(`\*\*([A-Za-z ]+)\*\*:\s*(.*)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Parse parses a catalog document.
func Parse(content string, cfg config.CatalogConfig) (*Catalog, error) {
	source := []byte(content)
	lines := strings.Split(content, "\n")

	cat := &Catalog{
		Patterns: make(map[string]*Pattern),
		Table:    make(map[string]TableRow),
		lines:    lines,
	}

	// Heading extraction via the AST keeps fenced code blocks out of the
	// structure.
	lineIndex := buildLineIndex(source)
	doc := markdown().Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := h.Lines().At(0)
		cat.Headings = append(cat.Headings, Heading{
			Level: h.Level,
			Text:  headingText(h, source),
			Line:  lineIndex.lineFor(seg.Start),
		})
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	cat.parsePatterns(cfg)
	cat.parseReferenceTable()

	logging.L(logging.CategoryCatalog).Debugw("catalog parsed",
		"patterns", len(cat.Patterns), "table_rows", len(cat.Table), "headings", len(cat.Headings))
	return cat, nil
}

// headingText reassembles the heading's inline text.
func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.CodeSpan, *ast.Emphasis, *ast.Link:
			b.Write(c.Text(source))
		default:
			b.Write(c.Text(source))
		}
	}
	return strings.TrimSpace(b.String())
}

func isExcludedSection(text string) bool {
	for _, excluded := range excludedSections {
		if strings.Contains(text, excluded) {
			return true
		}
	}
	return false
}

// categoryName maps a heading to a catalog category, or "" when it is not
// a category header.
func categoryName(text string, cfg config.CatalogConfig) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(text), " Patterns")
	for _, cat := range cfg.Categories {
		if trimmed == cat {
			return cat
		}
	}
	return ""
}

func (c *Catalog) parsePatterns(cfg config.CatalogConfig) {
	currentCategory := ""

	for i, h := range c.Headings {
		if name := categoryName(h.Text, cfg); name != "" {
			currentCategory = name
			continue
		}
		if h.Level != 2 && h.Level != 3 {
			continue
		}
		if isExcludedSection(h.Text) || h.Text == "" {
			continue
		}
		// Level-4 headings are pattern-internal structure
		// (anti-pattern blocks), handled inside parsePatternBody.

		endLine := len(c.lines)
		for _, next := range c.Headings[i+1:] {
			if next.Level <= h.Level {
				endLine = next.Line - 1
				break
			}
		}

		p := c.parsePatternBody(h, endLine)
		p.Category = currentCategory
		if _, dup := c.Patterns[p.Name]; !dup {
			c.Patterns[p.Name] = p
			c.Order = append(c.Order, p.Name)
		}
	}
}

// parsePatternBody extracts the field lines, implementation body, and
// anti-pattern block from the section between the header and endLine.
func (c *Catalog) parsePatternBody(h Heading, endLine int) *Pattern {
	p := &Pattern{Name: h.Text, Line: h.Line}

	var impl, anti []string
	inAnti := false

	for i := h.Line; i < endLine && i < len(c.lines); i++ {
		line := c.lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#### Anti-pattern") || strings.HasPrefix(trimmed, "**Anti-pattern") {
			inAnti = true
			anti = append(anti, line)
			continue
		}
		if inAnti {
			anti = append(anti, line)
			continue
		}

		if m := fieldRe.FindStringSubmatch(trimmed); m != nil && strings.HasPrefix(trimmed, "**") {
			value := strings.TrimSpace(m[2])
			switch m[1] {
			case "Maturity":
				p.Maturity = value
				continue
			case "Description":
				p.Description = value
				continue
			case "Related Patterns":
				for _, link := range linkRe.FindAllStringSubmatch(value, -1) {
					p.RelatedPatterns = append(p.RelatedPatterns, link[1])
				}
				continue
			}
		}

		impl = append(impl, line)
	}

	p.Implementation = strings.TrimSpace(strings.Join(impl, "\n"))
	p.AntiPattern = strings.TrimSpace(strings.Join(anti, "\n"))
	return p
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func buildLineIndex(source []byte) lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

func (li lineIndex) lineFor(offset int) int {
	// First line start greater than offset; the line is the one before it.
	idx := sort.SearchInts(li.starts, offset+1)
	return idx
}
