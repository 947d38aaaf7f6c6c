package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"patternforge/internal/config"
	"patternforge/internal/logging"
	"patternforge/internal/memory"
)

// initCmd scaffolds the .forge/ directory and memory files.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize patternforge in the current workspace",
	Long: `Creates the .forge/ directory structure, writes a default config,
and seeds the working-memory files (TODO list, decision log, notes).

Run this once per workspace. Existing files are never overwritten.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	log := logging.L(logging.CategoryMemory)

	dirs := []string{
		filepath.Join(workspace, ".forge"),
		filepath.Join(workspace, ".forge", "logs"),
		filepath.Join(workspace, ".forge", "sessions"),
		filepath.Join(workspace, ".forge", "context"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	cfgPath := config.ConfigPath(workspace)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfgPath)
	}

	mem := memory.New(workspace, cfg.Memory)
	seeds := []struct {
		path   string
		header string
	}{
		{mem.TodoPath(), "# TODO\n\n"},
		{mem.DecisionsPath(), "# Decisions\n\n"},
		{mem.NotesPath(), "# Notes\n\n"},
	}
	for _, seed := range seeds {
		if _, err := os.Stat(seed.path); err == nil {
			continue
		}
		if err := os.WriteFile(seed.path, []byte(seed.header), 0644); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.path, err)
		}
		fmt.Printf("wrote %s\n", seed.path)
	}

	log.Infow("workspace initialized", "workspace", workspace)
	fmt.Println("workspace initialized")
	return nil
}
