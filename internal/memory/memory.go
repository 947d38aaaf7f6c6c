// Package memory manages the flat session-continuity files: TODO.md,
// DECISIONS.log, and NOTES.md. These are plain markdown conventions, not a
// database: unchecked work lives in `- [ ]` items, decisions are
// timestamped log lines, notes are `##` sections.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"patternforge/internal/config"
	"patternforge/internal/logging"
)

const decisionTimeLayout = "2006-01-02 15:04"

// Files provides access to the memory files of a workspace.
type Files struct {
	workspace string
	cfg       config.MemoryConfig
}

// New returns a Files rooted at the given workspace.
func New(workspace string, cfg config.MemoryConfig) *Files {
	return &Files{workspace: workspace, cfg: cfg}
}

// TodoPath returns the absolute path of the todo file.
func (f *Files) TodoPath() string { return filepath.Join(f.workspace, f.cfg.TodoFile) }

// DecisionsPath returns the absolute path of the decisions log.
func (f *Files) DecisionsPath() string { return filepath.Join(f.workspace, f.cfg.DecisionsFile) }

// NotesPath returns the absolute path of the notes file.
func (f *Files) NotesPath() string { return filepath.Join(f.workspace, f.cfg.NotesFile) }

// Paths returns all memory file paths.
func (f *Files) Paths() []string {
	return []string{f.TodoPath(), f.DecisionsPath(), f.NotesPath()}
}

// Todo is a single checklist item from TODO.md.
type Todo struct {
	Text string
	Line int
	Done bool
}

// Todos parses all checklist items. A missing file yields no items and no
// error; lines that are not checkbox items are skipped.
func (f *Files) Todos() ([]Todo, error) {
	data, err := os.ReadFile(f.TodoPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.cfg.TodoFile, err)
	}

	var todos []Todo
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- [ ] "):
			todos = append(todos, Todo{Text: strings.TrimPrefix(trimmed, "- [ ] "), Line: i + 1})
		case strings.HasPrefix(trimmed, "- [x] "), strings.HasPrefix(trimmed, "- [X] "):
			todos = append(todos, Todo{Text: trimmed[6:], Line: i + 1, Done: true})
		}
	}
	return todos, nil
}

// OpenTodos returns only unchecked items.
func (f *Files) OpenTodos() ([]Todo, error) {
	todos, err := f.Todos()
	if err != nil {
		return nil, err
	}
	open := todos[:0:0]
	for _, td := range todos {
		if !td.Done {
			open = append(open, td)
		}
	}
	return open, nil
}

// AddTodo appends an unchecked item, creating the file with a header when
// it does not exist yet.
func (f *Files) AddTodo(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("todo text must not be empty")
	}
	if err := f.ensureFile(f.TodoPath(), "# TODO\n\n"); err != nil {
		return err
	}
	if err := appendLine(f.TodoPath(), "- [ ] "+text); err != nil {
		return err
	}
	logging.L(logging.CategoryMemory).Debugw("todo added", "text", text)
	return nil
}

// CompleteTodo marks the n-th open item (1-based) as done by rewriting its
// checkbox in place.
func (f *Files) CompleteTodo(n int) error {
	open, err := f.OpenTodos()
	if err != nil {
		return err
	}
	if n < 1 || n > len(open) {
		return fmt.Errorf("todo %d out of range: %d open item(s)", n, len(open))
	}
	target := open[n-1]

	data, err := os.ReadFile(f.TodoPath())
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.cfg.TodoFile, err)
	}
	lines := strings.Split(string(data), "\n")
	line := lines[target.Line-1]
	lines[target.Line-1] = strings.Replace(line, "- [ ] ", "- [x] ", 1)

	if err := os.WriteFile(f.TodoPath(), []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.cfg.TodoFile, err)
	}
	logging.L(logging.CategoryMemory).Infow("todo completed", "text", target.Text)
	return nil
}

// Decision is one timestamped line from DECISIONS.log.
type Decision struct {
	Time time.Time
	Text string
	Line int
}

// LogDecision appends a timestamped decision entry.
func (f *Files) LogDecision(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("decision text must not be empty")
	}
	entry := fmt.Sprintf("[%s] %s", time.Now().Format(decisionTimeLayout), text)
	if err := appendLine(f.DecisionsPath(), entry); err != nil {
		return err
	}
	logging.L(logging.CategoryMemory).Infow("decision logged", "text", text)
	return nil
}

// Decisions parses the decisions log. Lines without a leading timestamp are
// attached to no entry and skipped.
func (f *Files) Decisions() ([]Decision, error) {
	data, err := os.ReadFile(f.DecisionsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.cfg.DecisionsFile, err)
	}

	var decisions []Decision
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "[") {
			continue
		}
		end := strings.Index(trimmed, "]")
		if end < 0 {
			continue
		}
		ts, err := time.ParseInLocation(decisionTimeLayout, trimmed[1:end], time.Local)
		if err != nil {
			continue
		}
		decisions = append(decisions, Decision{
			Time: ts,
			Text: strings.TrimSpace(trimmed[end+1:]),
			Line: i + 1,
		})
	}
	return decisions, nil
}

// RecentDecisions returns the last n decisions in log order.
func (f *Files) RecentDecisions(n int) ([]Decision, error) {
	decisions, err := f.Decisions()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n >= len(decisions) {
		return decisions, nil
	}
	return decisions[len(decisions)-n:], nil
}

// AddNote appends a timestamped `##` section to NOTES.md.
func (f *Files) AddNote(heading, body string) error {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return fmt.Errorf("note heading must not be empty")
	}
	if err := f.ensureFile(f.NotesPath(), "# Notes\n"); err != nil {
		return err
	}
	section := fmt.Sprintf("\n## %s (%s)\n", heading, time.Now().Format("2006-01-02"))
	if body = strings.TrimSpace(body); body != "" {
		section += "\n" + body + "\n"
	}
	return appendRaw(f.NotesPath(), section)
}

// NoteHeadings returns all `##` headings from NOTES.md.
func (f *Files) NoteHeadings() ([]string, error) {
	data, err := os.ReadFile(f.NotesPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.cfg.NotesFile, err)
	}

	var headings []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			headings = append(headings, strings.TrimPrefix(trimmed, "## "))
		}
	}
	return headings, nil
}

func (f *Files) ensureFile(path, header string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(header), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	return nil
}

func appendLine(path, line string) error {
	return appendRaw(path, line+"\n")
}

func appendRaw(path, content string) error {
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer fh.Close()
	if _, err := fh.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to %s: %w", filepath.Base(path), err)
	}
	return nil
}
