package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"patternforge/internal/compact"
	"patternforge/internal/config"
	"patternforge/internal/memory"
)

// ResumeMode selects how much context a resume report includes.
type ResumeMode int

const (
	// ResumeQuick shows the last session and open-work count.
	ResumeQuick ResumeMode = iota
	// ResumeFull adds recent decisions, note topics, and snapshots.
	ResumeFull
	// ResumeTodos shows only the open todo list.
	ResumeTodos
)

// Resume assembles the session-resume report for a workspace.
func Resume(workspace string, cfg *config.Config, mode ResumeMode) (string, error) {
	files := memory.New(workspace, cfg.Memory)
	store := NewStore(workspace)

	open, err := files.OpenTodos()
	if err != nil {
		return "", err
	}

	var b strings.Builder

	if mode == ResumeTodos {
		if len(open) == 0 {
			b.WriteString("No open todo items.\n")
			return b.String(), nil
		}
		fmt.Fprintf(&b, "Open todos (%d):\n", len(open))
		for i, td := range open {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, td.Text)
		}
		return b.String(), nil
	}

	latest, err := store.Latest()
	if err != nil {
		return "", err
	}

	if latest == nil {
		b.WriteString("No previous sessions recorded.\n")
	} else {
		fmt.Fprintf(&b, "Last session: %s (started %s)\n",
			latest.ID[:8], latest.Started.Format("2006-01-02 15:04"))
		if latest.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", latest.Summary)
		}
	}
	fmt.Fprintf(&b, "Open todos: %d\n", len(open))

	if mode == ResumeQuick {
		return b.String(), nil
	}

	// Full report
	for i, td := range open {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, td.Text)
	}

	recent, err := files.RecentDecisions(cfg.Memory.RecentDecisions)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\nRecent decisions (%d):\n", len(recent))
	for _, d := range recent {
		fmt.Fprintf(&b, "  [%s] %s\n", d.Time.Format("2006-01-02 15:04"), d.Text)
	}

	headings, err := files.NoteHeadings()
	if err != nil {
		return "", err
	}
	if len(headings) > 0 {
		b.WriteString("\nNote topics:\n")
		for _, h := range headings {
			fmt.Fprintf(&b, "  - %s\n", h)
		}
	}

	snaps, err := compact.New(workspace, cfg.Memory).Snapshots()
	if err != nil {
		return "", err
	}
	if len(snaps) > 0 {
		counter := compact.NewTokenCounter(cfg.Memory.CharsPerToken)
		b.WriteString("\nContext snapshots:\n")
		for _, snap := range snaps {
			tokens, err := counter.CountFile(snap)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  - %s (%d tokens)\n", filepath.Base(snap), tokens)
		}
	}

	return b.String(), nil
}
