package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"patternforge/internal/config"
)

func newTestFiles(t *testing.T) *Files {
	t.Helper()
	return New(t.TempDir(), config.DefaultConfig().Memory)
}

func TestTodos_MissingFileIsEmpty(t *testing.T) {
	f := newTestFiles(t)
	todos, err := f.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("expected no todos, got %d", len(todos))
	}
}

func TestAddTodo_CreatesFileWithHeader(t *testing.T) {
	f := newTestFiles(t)
	if err := f.AddTodo("write sandbox compose template"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	data, err := os.ReadFile(f.TodoPath())
	if err != nil {
		t.Fatalf("todo file not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "# TODO") {
		t.Error("expected generated file to start with # TODO header")
	}
	if !strings.Contains(string(data), "- [ ] write sandbox compose template") {
		t.Error("expected unchecked item in file")
	}
}

func TestTodos_ParsesCheckedAndUnchecked(t *testing.T) {
	f := newTestFiles(t)
	content := "# TODO\n\n- [ ] first\n- [x] second\nnot a todo\n  - [ ] indented\n- [X] capital\n"
	if err := os.WriteFile(f.TodoPath(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	todos, err := f.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 4 {
		t.Fatalf("expected 4 todos, got %d", len(todos))
	}

	open, err := f.OpenTodos()
	if err != nil {
		t.Fatalf("OpenTodos failed: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open todos, got %d", len(open))
	}
	if open[0].Text != "first" || open[1].Text != "indented" {
		t.Errorf("unexpected open todos: %+v", open)
	}
}

func TestCompleteTodo(t *testing.T) {
	f := newTestFiles(t)
	for _, text := range []string{"alpha", "beta", "gamma"} {
		if err := f.AddTodo(text); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.CompleteTodo(2); err != nil {
		t.Fatalf("CompleteTodo failed: %v", err)
	}

	open, err := f.OpenTodos()
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open todos after completion, got %d", len(open))
	}
	if open[0].Text != "alpha" || open[1].Text != "gamma" {
		t.Errorf("wrong item completed: %+v", open)
	}

	// Out of range indexes are errors, not silent no-ops.
	if err := f.CompleteTodo(5); err == nil {
		t.Error("expected error for out-of-range todo index")
	}
	if err := f.CompleteTodo(0); err == nil {
		t.Error("expected error for zero todo index")
	}
}

func TestLogDecision_RoundTrip(t *testing.T) {
	f := newTestFiles(t)
	if err := f.LogDecision("use goldmark for catalog parsing"); err != nil {
		t.Fatalf("LogDecision failed: %v", err)
	}
	if err := f.LogDecision("sqlite for knowledge capture"); err != nil {
		t.Fatal(err)
	}

	decisions, err := f.Decisions()
	if err != nil {
		t.Fatalf("Decisions failed: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	if decisions[0].Text != "use goldmark for catalog parsing" {
		t.Errorf("unexpected decision text: %q", decisions[0].Text)
	}
	if decisions[0].Time.IsZero() {
		t.Error("expected parsed timestamp")
	}
}

func TestDecisions_SkipsMalformedLines(t *testing.T) {
	f := newTestFiles(t)
	content := "[2026-08-29 10:00] good entry\nno timestamp here\n[broken entry\n[2026-08-30 09:15] another\n"
	if err := os.WriteFile(f.DecisionsPath(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	decisions, err := f.Decisions()
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 parseable decisions, got %d", len(decisions))
	}
}

func TestRecentDecisions(t *testing.T) {
	f := newTestFiles(t)
	var b strings.Builder
	b.WriteString("[2026-08-28 09:00] one\n")
	b.WriteString("[2026-08-29 09:00] two\n")
	b.WriteString("[2026-08-30 09:00] three\n")
	if err := os.WriteFile(f.DecisionsPath(), []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	recent, err := f.RecentDecisions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent decisions, got %d", len(recent))
	}
	if recent[0].Text != "two" || recent[1].Text != "three" {
		t.Errorf("unexpected recent decisions: %+v", recent)
	}
}

func TestNotes(t *testing.T) {
	f := newTestFiles(t)
	if err := f.AddNote("Sandbox networking", "Containers run with --network none."); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if err := f.AddNote("Compaction heuristics", ""); err != nil {
		t.Fatal(err)
	}

	headings, err := f.NoteHeadings()
	if err != nil {
		t.Fatalf("NoteHeadings failed: %v", err)
	}
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	if !strings.HasPrefix(headings[0], "Sandbox networking") {
		t.Errorf("unexpected heading: %q", headings[0])
	}
}

func TestPaths(t *testing.T) {
	ws := t.TempDir()
	f := New(ws, config.DefaultConfig().Memory)
	for _, p := range f.Paths() {
		if filepath.Dir(p) != ws {
			t.Errorf("expected %s under workspace", p)
		}
	}
}
