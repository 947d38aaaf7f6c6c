package validate

import (
	"fmt"
	"sort"
	"strings"

	"patternforge/internal/catalog"
)

// DependencyGraph is the pattern dependency relation taken from the
// reference table.
type DependencyGraph struct {
	edges map[string][]string
	known map[string]bool
}

// NewDependencyGraph builds the graph from a parsed catalog.
func NewDependencyGraph(cat *catalog.Catalog) *DependencyGraph {
	g := &DependencyGraph{
		edges: make(map[string][]string),
		known: make(map[string]bool),
	}
	for name, row := range cat.Table {
		g.known[name] = true
		g.edges[name] = append([]string(nil), row.Dependencies...)
	}
	return g
}

// Cycles returns all dependency cycles, each as the sequence of pattern
// names forming the loop.
func (g *DependencyGraph) Cycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		if onStack[node] {
			for i, p := range path {
				if p == node {
					cycle := append(append([]string(nil), path[i:]...), node)
					cycles = append(cycles, cycle)
					return
				}
			}
			return
		}
		if visited[node] {
			return
		}
		visited[node] = true
		onStack[node] = true
		for _, dep := range g.edges[node] {
			if g.known[dep] {
				dfs(dep, append(path, node))
			}
		}
		onStack[node] = false
	}

	nodes := g.sortedNodes()
	for _, node := range nodes {
		if !visited[node] {
			dfs(node, nil)
		}
	}
	return cycles
}

// UnknownDependencies returns dependencies that do not resolve to a known
// pattern, with a nearest-name suggestion when one is close enough.
func (g *DependencyGraph) UnknownDependencies() []Finding {
	var findings []Finding
	for _, node := range g.sortedNodes() {
		for _, dep := range g.edges[node] {
			if g.known[dep] {
				continue
			}
			msg := fmt.Sprintf("pattern %q depends on unknown pattern %q", node, dep)
			if suggestion := g.closestName(dep); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			findings = append(findings, Finding{
				Check:    "dependencies",
				Severity: SeverityError,
				Message:  msg,
			})
		}
	}
	return findings
}

// Depth returns the dependency depth of each pattern: 0 for patterns with
// no dependencies, 1 + max(dep depths) otherwise. Patterns on a cycle get
// depth -1.
func (g *DependencyGraph) Depth() map[string]int {
	depths := make(map[string]int)

	var calc func(node string, seen map[string]bool) int
	calc = func(node string, seen map[string]bool) int {
		if d, ok := depths[node]; ok {
			return d
		}
		if seen[node] {
			return -1
		}
		seen[node] = true
		defer delete(seen, node)

		maxDepth := 0
		for _, dep := range g.edges[node] {
			if !g.known[dep] {
				continue
			}
			d := calc(dep, seen)
			if d < 0 {
				depths[node] = -1
				return -1
			}
			if d+1 > maxDepth {
				maxDepth = d + 1
			}
		}
		depths[node] = maxDepth
		return maxDepth
	}

	for _, node := range g.sortedNodes() {
		calc(node, make(map[string]bool))
	}
	return depths
}

// CheckDependencies runs all dependency validations.
func CheckDependencies(cat *catalog.Catalog, file string) []Finding {
	g := NewDependencyGraph(cat)
	findings := g.UnknownDependencies()
	for i := range findings {
		findings[i].File = file
	}

	for _, cycle := range g.Cycles() {
		findings = append(findings, Finding{
			Check:    "dependencies",
			Severity: SeverityError,
			File:     file,
			Message:  fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " -> ")),
		})
	}
	return findings
}

func (g *DependencyGraph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.edges))
	for node := range g.edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// closestName finds the known pattern name most similar to target, or ""
// when nothing is close (edit distance above a third of the length).
func (g *DependencyGraph) closestName(target string) string {
	best, bestDist := "", len(target)/3+1
	for name := range g.known {
		if d := editDistance(strings.ToLower(target), strings.ToLower(name)); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
