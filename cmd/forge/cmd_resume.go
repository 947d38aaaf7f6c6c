package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"patternforge/internal/memory"
	"patternforge/internal/session"
)

var (
	resumeQuick bool
	resumeFull  bool
	resumeTodos bool

	sessionSummary string
)

// resumeCmd reassembles context from the last session.
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Pick up where the last session left off",
	Long: `Assembles a resume report from the session history and memory files.

  forge resume --quick    last session and open-work count (default)
  forge resume --full     adds open todos, recent decisions, note topics,
                          and context snapshots
  forge resume --todos    only the open todo list`,
	RunE: runResume,
}

// sessionsCmd lists and records work sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded work sessions",
	RunE:  runSessionsList,
}

var sessionsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Record the current session",
	Long:  `Saves a session marker with a summary and the open todo count.`,
	RunE:  runSessionsSave,
}

func init() {
	resumeCmd.Flags().BoolVar(&resumeQuick, "quick", false, "Short report")
	resumeCmd.Flags().BoolVar(&resumeFull, "full", false, "Full report")
	resumeCmd.Flags().BoolVar(&resumeTodos, "todos", false, "Only open todos")
	resumeCmd.MarkFlagsMutuallyExclusive("quick", "full", "todos")

	sessionsSaveCmd.Flags().StringVar(&sessionSummary, "summary", "", "One-line session summary")
	sessionsCmd.AddCommand(sessionsSaveCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	mode := session.ResumeQuick
	switch {
	case resumeFull:
		mode = session.ResumeFull
	case resumeTodos:
		mode = session.ResumeTodos
	}

	report, err := session.Resume(workspace, cfg, mode)
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store := session.NewStore(workspace)
	sessions, err := store.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}
	for _, s := range sessions {
		line := fmt.Sprintf("%s  %s", s.ID[:8], s.Started.Format("2006-01-02 15:04"))
		if s.Summary != "" {
			line += "  " + s.Summary
		}
		fmt.Println(line)
	}
	return nil
}

func runSessionsSave(cmd *cobra.Command, args []string) error {
	open, err := memory.New(workspace, cfg.Memory).OpenTodos()
	if err != nil {
		return err
	}

	sess := &session.Session{
		Summary:   sessionSummary,
		Ended:     time.Now(),
		OpenTodos: len(open),
	}
	if err := session.NewStore(workspace).Save(sess); err != nil {
		return err
	}
	fmt.Printf("session recorded: %s\n", sess.ID[:8])
	return nil
}
