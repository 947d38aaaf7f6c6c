package validate

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcher_FiresOnMarkdownChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	ws := t.TempDir()
	var fired atomic.Int32

	w, err := NewWatcher(ws, 10*time.Millisecond, func(path string) {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(ws, "README.md"), []byte("# hi"), 0644); err != nil {
		t.Fatal(err)
	}
	// Non-markdown files are ignored.
	if err := os.WriteFile(filepath.Join(ws, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher did not fire within 2s")
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), 0, func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_SettleCoalescesBurst(t *testing.T) {
	w := &Watcher{
		debounceDur: 50 * time.Millisecond,
		pending:     make(map[string]time.Time),
	}
	now := time.Now()

	// A save burst: several rapid events on the same path. Only the last
	// one counts, and nothing fires until the burst settles.
	w.pending["a.md"] = now.Add(-10 * time.Millisecond)
	if got := w.settled(now); len(got) != 0 {
		t.Errorf("unsettled path should not fire, got %v", got)
	}

	w.pending["a.md"] = now.Add(-60 * time.Millisecond)
	w.pending["b.md"] = now
	got := w.settled(now)
	if len(got) != 1 || got[0] != "a.md" {
		t.Fatalf("expected only the settled path, got %v", got)
	}

	// A settled path fires exactly once.
	if got := w.settled(now); len(got) != 0 {
		t.Errorf("settled path should be cleared after firing, got %v", got)
	}
}

func TestWatcher_LastWriteInBurstFires(t *testing.T) {
	defer goleak.VerifyNone(t)

	ws := t.TempDir()
	var got atomic.Value

	w, err := NewWatcher(ws, 20*time.Millisecond, func(path string) {
		data, err := os.ReadFile(path)
		if err == nil {
			got.Store(string(data))
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	// Rapid saves; validation must see the final content.
	path := filepath.Join(ws, "README.md")
	for i, content := range []string{"# draft", "# still drafting", "# final"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if i < 2 {
			time.Sleep(2 * time.Millisecond)
		}
	}

	deadline := time.After(2 * time.Second)
	for {
		if v, ok := got.Load().(string); ok && v == "# final" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("watcher never saw the final write, got %v", got.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop()
}
