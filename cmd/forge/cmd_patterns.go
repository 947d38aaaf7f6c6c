package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"patternforge/internal/catalog"
	"patternforge/internal/tui"
)

var (
	patternsUpdateBadge bool
	patternsPlain       bool
)

// patternsCmd inspects the pattern catalog.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect the pattern catalog",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog patterns",
	RunE:  runPatternsList,
}

var patternsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Render one pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternsShow,
}

var patternsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count patterns and optionally update the README badge",
	RunE:  runPatternsCount,
}

var patternsNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "Check pattern names against the naming conventions",
	RunE:  runPatternsNames,
}

func init() {
	patternsCountCmd.Flags().BoolVar(&patternsUpdateBadge, "update", false, "Rewrite the README badge count")
	patternsShowCmd.Flags().BoolVar(&patternsPlain, "plain", false, "Print raw markdown without styling")

	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsShowCmd)
	patternsCmd.AddCommand(patternsCountCmd)
	patternsCmd.AddCommand(patternsNamesCmd)
}

// loadCatalog reads and parses the configured catalog document.
func loadCatalog() (*catalog.Catalog, string, error) {
	path := filepath.Join(workspace, cfg.Catalog.ReadmePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := catalog.Parse(string(data), cfg.Catalog)
	if err != nil {
		return nil, "", err
	}
	return cat, string(data), nil
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}
	for _, name := range cat.Order {
		p := cat.Patterns[name]
		fmt.Printf("%-38s %-12s %s\n", p.Name, p.Maturity, p.Category)
	}
	fmt.Printf("\n%d patterns\n", len(cat.Order))
	return nil
}

func runPatternsShow(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}
	p, ok := cat.Patterns[args[0]]
	if !ok {
		return fmt.Errorf("pattern %q not found", args[0])
	}

	md := tui.PatternMarkdown(*p)
	if patternsPlain {
		fmt.Print(md)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := renderer.Render(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runPatternsCount(cmd *cobra.Command, args []string) error {
	cat, content, err := loadCatalog()
	if err != nil {
		return err
	}

	count := len(cat.Order)
	fmt.Printf("%d patterns\n", count)

	badge := catalog.BadgeCount(content)
	if badge >= 0 && badge != count {
		fmt.Printf("badge says %d\n", badge)
	}

	if !patternsUpdateBadge {
		return nil
	}
	updated, changed := catalog.UpdateBadge(content, count)
	if !changed {
		fmt.Println("badge already current")
		return nil
	}
	path := filepath.Join(workspace, cfg.Catalog.ReadmePath)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("failed to update badge: %w", err)
	}
	fmt.Printf("badge updated to %d\n", count)
	return nil
}

func runPatternsNames(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalog()
	if err != nil {
		return err
	}

	var issues []catalog.NameIssue
	for _, name := range cat.Order {
		p := cat.Patterns[name]
		issues = append(issues, catalog.ValidatePatternName(p.Name, p.Line)...)
	}

	if len(issues) == 0 {
		fmt.Println("all pattern names conform")
		return nil
	}
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	return fmt.Errorf("%d naming issue(s)", len(issues))
}
