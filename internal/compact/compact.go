// Package compact implements context compaction over the memory files.
// Status reports token utilization against the configured context budget;
// Summarize writes a compact snapshot that preserves open work, recent
// decisions, and note structure while dropping completed detail.
package compact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"patternforge/internal/config"
	"patternforge/internal/logging"
	"patternforge/internal/memory"
)

// FileStatus describes one memory file's contribution to the context.
type FileStatus struct {
	Name   string
	Path   string
	Lines  int
	Bytes  int
	Tokens int
}

// Status is the result of a compaction status check.
type Status struct {
	Files         []FileStatus
	TotalTokens   int
	Budget        int
	Threshold     float64
	Utilization   float64
	ShouldCompact bool
}

// Summary describes a written compact snapshot.
type Summary struct {
	Path            string
	OriginalTokens  int
	CompactedTokens int
	Ratio           float64
	OpenTodos       int
	Decisions       int
	NoteHeadings    int
}

// Compactor runs compaction over a workspace's memory files.
type Compactor struct {
	workspace string
	cfg       config.MemoryConfig
	files     *memory.Files
	counter   *TokenCounter
}

// New creates a Compactor for the workspace.
func New(workspace string, cfg config.MemoryConfig) *Compactor {
	return &Compactor{
		workspace: workspace,
		cfg:       cfg,
		files:     memory.New(workspace, cfg),
		counter:   NewTokenCounter(cfg.CharsPerToken),
	}
}

// Status computes token usage across the memory files and the compaction
// verdict against the configured threshold.
func (c *Compactor) Status() (*Status, error) {
	st := &Status{
		Budget:    c.cfg.MaxTokens,
		Threshold: c.cfg.CompactThreshold,
	}

	for _, path := range c.files.Paths() {
		fs := FileStatus{Name: filepath.Base(path), Path: path}
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", fs.Name, err)
		}
		if err == nil {
			content := string(data)
			fs.Bytes = len(data)
			fs.Lines = strings.Count(content, "\n")
			fs.Tokens = c.counter.CountString(content)
		}
		st.Files = append(st.Files, fs)
		st.TotalTokens += fs.Tokens
	}

	if st.Budget > 0 {
		st.Utilization = float64(st.TotalTokens) / float64(st.Budget)
	}
	st.ShouldCompact = st.Utilization >= st.Threshold

	logging.L(logging.CategoryCompact).Debugw("status computed",
		"tokens", st.TotalTokens, "budget", st.Budget, "utilization", st.Utilization)
	return st, nil
}

// Summarize writes a compact snapshot to .forge/context/ and returns its
// summary. The snapshot is deterministic extraction: open todos, the last N
// decisions, and note headings. Completed todos and old decisions are the
// detail being compacted away.
func (c *Compactor) Summarize() (*Summary, error) {
	st, err := c.Status()
	if err != nil {
		return nil, err
	}

	open, err := c.files.OpenTodos()
	if err != nil {
		return nil, err
	}
	recent, err := c.files.RecentDecisions(c.cfg.RecentDecisions)
	if err != nil {
		return nil, err
	}
	headings, err := c.files.NoteHeadings()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	now := time.Now()
	fmt.Fprintf(&b, "# Context Snapshot — %s\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Workspace: %s\n\n", c.workspace)

	b.WriteString("## Open Work\n\n")
	if len(open) == 0 {
		b.WriteString("No open todo items.\n")
	}
	for _, td := range open {
		fmt.Fprintf(&b, "- [ ] %s\n", td.Text)
	}

	fmt.Fprintf(&b, "\n## Recent Decisions (last %d)\n\n", len(recent))
	if len(recent) == 0 {
		b.WriteString("No decisions logged.\n")
	}
	for _, d := range recent {
		fmt.Fprintf(&b, "- [%s] %s\n", d.Time.Format("2006-01-02 15:04"), d.Text)
	}

	b.WriteString("\n## Note Topics\n\n")
	if len(headings) == 0 {
		b.WriteString("No notes recorded.\n")
	}
	for _, h := range headings {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	dir := filepath.Join(c.workspace, ".forge", "context")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create context directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("compact-%s.md", now.Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	sum := &Summary{
		Path:            path,
		OriginalTokens:  st.TotalTokens,
		CompactedTokens: c.counter.CountString(b.String()),
		OpenTodos:       len(open),
		Decisions:       len(recent),
		NoteHeadings:    len(headings),
	}
	if sum.CompactedTokens > 0 {
		sum.Ratio = float64(sum.OriginalTokens) / float64(sum.CompactedTokens)
	}

	logging.L(logging.CategoryCompact).Infow("snapshot written",
		"path", path, "original", sum.OriginalTokens, "compacted", sum.CompactedTokens)
	return sum, nil
}

// Snapshots lists existing compact snapshots, newest last.
func (c *Compactor) Snapshots() ([]string, error) {
	dir := filepath.Join(c.workspace, ".forge", "context")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read context directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "compact-") && strings.HasSuffix(e.Name(), ".md") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
