package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"patternforge/internal/knowledge"
)

var (
	knowledgeTopic   string
	knowledgePattern string
	knowledgeTags    []string
	knowledgeLimit   int

	pruneOlderThan time.Duration
	pruneMaxAccess int
)

// knowledgeCmd manages the captured-knowledge database.
var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Capture and search project knowledge",
	Long: `A local SQLite store for knowledge captured during sessions: gotchas,
conventions, decisions worth keeping beyond the decision log. Searches
track access so rarely-used entries can be pruned.`,
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a knowledge entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeAdd,
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search knowledge entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeSearch,
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent knowledge entries",
	RunE:  runKnowledgeList,
}

var knowledgePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old, rarely accessed entries",
	RunE:  runKnowledgePrune,
}

func init() {
	knowledgeAddCmd.Flags().StringVar(&knowledgeTopic, "topic", "", "Entry topic (required)")
	knowledgeAddCmd.Flags().StringVar(&knowledgePattern, "pattern", "", "Related pattern name")
	knowledgeAddCmd.Flags().StringSliceVar(&knowledgeTags, "tags", nil, "Comma-separated tags")
	knowledgeAddCmd.MarkFlagRequired("topic")

	knowledgeSearchCmd.Flags().IntVar(&knowledgeLimit, "limit", 20, "Maximum results")
	knowledgeListCmd.Flags().IntVar(&knowledgeLimit, "limit", 20, "Maximum results")

	knowledgePruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 90*24*time.Hour, "Minimum age")
	knowledgePruneCmd.Flags().IntVar(&pruneMaxAccess, "max-access", 0, "Prune entries accessed at most this many times")

	knowledgeCmd.AddCommand(knowledgeAddCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd)
	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgePruneCmd)
}

func openKnowledge() (*knowledge.Store, error) {
	return knowledge.Open(knowledge.DefaultPath(workspace))
}

func runKnowledgeAdd(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Add(knowledgeTopic, strings.Join(args, " "), knowledgePattern, knowledgeTags)
	if err != nil {
		return err
	}
	fmt.Printf("entry %d added\n", id)
	return nil
}

func runKnowledgeSearch(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(strings.Join(args, " "), knowledgeLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no matches")
		return nil
	}
	printEntries(entries)
	return nil
}

func runKnowledgeList(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(knowledgeLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no entries")
		return nil
	}
	printEntries(entries)
	return nil
}

func runKnowledgePrune(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(knowledge.PruneConfig{
		OlderThan:      pruneOlderThan,
		MaxAccessCount: pruneMaxAccess,
	})
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d entries\n", removed)
	return nil
}

func printEntries(entries []knowledge.Entry) {
	for _, e := range entries {
		line := fmt.Sprintf("[%d] %s", e.ID, e.Topic)
		if e.Pattern != "" {
			line += "  (" + e.Pattern + ")"
		}
		fmt.Println(line)
		fmt.Printf("    %s\n", e.Content)
		if len(e.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(e.Tags, ", "))
		}
	}
}
