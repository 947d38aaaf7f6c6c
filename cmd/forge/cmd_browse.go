package main

import (
	"github.com/spf13/cobra"

	"patternforge/internal/tui"
)

// browseCmd launches the interactive catalog browser.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the pattern catalog interactively",
	Long: `Opens a terminal browser over the catalog: filter the pattern list,
press enter to read a pattern rendered as markdown, q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog()
		if err != nil {
			return err
		}
		return tui.Run(cat)
	},
}
