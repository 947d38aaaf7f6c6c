package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"patternforge/internal/validate"
)

var (
	checkCompliance bool
	checkLinks      bool
	checkDeps       bool
	checkDiagram    bool
	checkExternal   bool
	validateWatch   bool
)

// validateCmd runs the documentation validators over the catalog.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pattern catalog document",
	Long: `Runs the catalog validators: pattern compliance, internal and relative
links, the dependency graph, and the overview diagram.

Without check flags, everything but live external link checking runs.
External checking is opt-in via --external or the config file.

  forge validate --watch    re-run on markdown changes`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&checkCompliance, "compliance", false, "Pattern structure and naming")
	validateCmd.Flags().BoolVar(&checkLinks, "links", false, "Internal and relative links")
	validateCmd.Flags().BoolVar(&checkDeps, "deps", false, "Dependency graph cycles and unknowns")
	validateCmd.Flags().BoolVar(&checkDiagram, "diagram", false, "Overview diagram coverage")
	validateCmd.Flags().BoolVar(&checkExternal, "external", false, "Live external link checking")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-run on markdown changes")
}

func selectedChecks() validate.Checks {
	checks := validate.Checks{
		Compliance:   checkCompliance,
		Links:        checkLinks,
		External:     checkExternal,
		Dependencies: checkDeps,
		Diagram:      checkDiagram,
	}
	if !checkCompliance && !checkLinks && !checkDeps && !checkDiagram {
		checks = validate.AllChecks()
		checks.External = checkExternal
	}
	return checks
}

func runValidate(cmd *cobra.Command, args []string) error {
	runner := validate.NewRunner(workspace, cfg)
	checks := selectedChecks()

	runOnce := func() (*validate.Report, error) {
		report, err := runner.Run(cmd.Context(), checks)
		if err != nil {
			return nil, err
		}
		fmt.Print(report.Render())
		return report, nil
	}

	report, err := runOnce()
	if err != nil {
		return err
	}

	if !validateWatch {
		if !report.OK() {
			return fmt.Errorf("validation failed with %d error(s)", len(report.Errors()))
		}
		return nil
	}

	debounce, err := time.ParseDuration(cfg.Validation.WatchDebounce)
	if err != nil {
		debounce = 500 * time.Millisecond
	}
	watcher, err := validate.NewWatcher(workspace, debounce, func(path string) {
		fmt.Printf("\n--- %s changed ---\n", path)
		_, _ = runOnce()
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Println("\nwatching for markdown changes (ctrl+c to stop)")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}
