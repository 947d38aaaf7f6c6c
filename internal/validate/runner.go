package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"patternforge/internal/catalog"
	"patternforge/internal/config"
	"patternforge/internal/logging"
)

// Checks selects which validators a run executes.
type Checks struct {
	Compliance   bool
	Links        bool
	External     bool
	Dependencies bool
	Diagram      bool
}

// AllChecks enables every validator except live external link checking,
// which stays opt-in (config or flag).
func AllChecks() Checks {
	return Checks{Compliance: true, Links: true, Dependencies: true, Diagram: true}
}

// Runner executes documentation validation for a workspace.
type Runner struct {
	workspace string
	cfg       *config.Config
	external  *ExternalChecker
}

// NewRunner creates a validation runner.
func NewRunner(workspace string, cfg *config.Config) *Runner {
	return &Runner{
		workspace: workspace,
		cfg:       cfg,
		external:  NewExternalChecker(cfg.Validation),
	}
}

// Run parses the catalog document and executes the selected checks.
func (r *Runner) Run(ctx context.Context, checks Checks) (*Report, error) {
	file := r.cfg.Catalog.ReadmePath
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workspace, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}

	cat, err := catalog.Parse(string(data), r.cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	report := &Report{}

	if checks.Compliance {
		report.Add(CheckCompliance(cat, r.cfg, file)...)
	}
	if checks.Links {
		report.Add(CheckInternalLinks(cat, file)...)
		report.Add(CheckRelativeLinks(cat.Lines(), r.workspace, file)...)
	}
	if checks.External || r.cfg.Validation.CheckExternal {
		report.Add(r.external.Check(ctx, cat.Lines(), file)...)
	}
	if checks.Dependencies {
		report.Add(CheckDependencies(cat, file)...)
	}
	if checks.Diagram {
		report.Add(CheckDiagram(cat, file)...)
	}

	logging.L(logging.CategoryValidate).Infow("validation run complete",
		"findings", len(report.Findings), "errors", len(report.Errors()))
	return report, nil
}
