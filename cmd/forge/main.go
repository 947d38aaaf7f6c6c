package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"patternforge/internal/config"
	"patternforge/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded once in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "patternforge - AI development pattern catalog toolkit",
	Long: `patternforge maintains a catalog of AI development patterns and the
working memory around it: context compaction, session resume, knowledge
capture, catalog validation, and a locked-down Docker sandbox for AI tools.

State lives under .forge/ in the workspace.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}
		workspace = ws
		cfg = config.LoadOrDefault(workspace)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config at %s: %w", config.ConfigPath(workspace), err)
		}

		return logging.Initialize(workspace, logging.Options{
			Directory: cfg.Logging.Directory,
			Level:     cfg.Logging.Level,
			Debug:     verbose || cfg.Logging.DebugMode,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// resolveWorkspace makes the --workspace flag absolute, defaulting to cwd.
func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		ws = cwd
	}
	abs, err := filepath.Abs(ws)
	if err != nil {
		return "", fmt.Errorf("invalid workspace path %q: %w", ws, err)
	}
	return abs, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(decisionCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sandboxCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
