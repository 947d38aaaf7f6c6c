package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"patternforge/internal/compact"
)

var (
	compactStatus    bool
	compactSummarize bool
)

// compactCmd reports context utilization or writes a compact snapshot.
var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Check context utilization or write a compact snapshot",
	Long: `Tracks the memory files (TODO list, decision log, notes) against the
configured token budget.

  forge compact --status      token usage per file and the compaction verdict
  forge compact --summarize   write a snapshot keeping open work, recent
                              decisions, and note topics

Without flags, --status is assumed.`,
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().BoolVar(&compactStatus, "status", false, "Show token utilization")
	compactCmd.Flags().BoolVar(&compactSummarize, "summarize", false, "Write a compact snapshot")
}

func runCompact(cmd *cobra.Command, args []string) error {
	c := compact.New(workspace, cfg.Memory)

	if compactSummarize {
		sum, err := c.Summarize()
		if err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", sum.Path)
		fmt.Printf("tokens:   %d -> %d (%.1fx)\n", sum.OriginalTokens, sum.CompactedTokens, sum.Ratio)
		fmt.Printf("kept:     %d open todo(s), %d decision(s), %d note topic(s)\n",
			sum.OpenTodos, sum.Decisions, sum.NoteHeadings)
		return nil
	}

	st, err := c.Status()
	if err != nil {
		return err
	}
	for _, f := range st.Files {
		fmt.Printf("%-16s %6d tokens  %5d lines\n", f.Name, f.Tokens, f.Lines)
	}
	fmt.Printf("\ntotal: %d / %d tokens (%.1f%%)\n", st.TotalTokens, st.Budget, st.Utilization*100)
	if st.ShouldCompact {
		fmt.Printf("over the %.0f%% threshold: run `forge compact --summarize`\n", st.Threshold*100)
	} else {
		fmt.Println("within budget")
	}
	return nil
}
