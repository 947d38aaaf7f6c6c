package validate

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"patternforge/internal/logging"
)

// Watcher re-runs validation when markdown files in the workspace change.
// Events are recorded and processed once a save burst has settled, so the
// last write in a burst is always the one validated.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	workspace   string
	debounceDur time.Duration
	pending     map[string]time.Time
	onChange    func(path string)
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a watcher for the workspace root. onChange fires once
// per settled markdown change.
func NewWatcher(workspace string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:     fw,
		workspace:   workspace,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		onChange:    onChange,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Idempotent.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.workspace); err != nil {
		return err
	}
	w.running = true
	go w.loop()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	log := logging.L(logging.CategoryWatch)

	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("watch error", "error", err)
		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				log.Debugw("markdown changed", "path", filepath.Base(path))
				w.onChange(path)
			}
		}
	}
}

// tickInterval keeps the settle check responsive for short debounce windows.
func (w *Watcher) tickInterval() time.Duration {
	interval := 100 * time.Millisecond
	if w.debounceDur < interval {
		interval = w.debounceDur
	}
	return interval
}

// handleEvent records a markdown change for later processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".md") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled returns paths whose last event is older than the debounce window
// and removes them from the pending set.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	return paths
}
