// Package session provides session continuity: YAML session records under
// .forge/sessions/ plus the resume report assembled from memory files and
// compact snapshots.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"patternforge/internal/logging"
)

// Session is one recorded working session.
type Session struct {
	ID        string    `yaml:"id"`
	Workspace string    `yaml:"workspace"`
	Started   time.Time `yaml:"started"`
	Ended     time.Time `yaml:"ended,omitempty"`
	Summary   string    `yaml:"summary,omitempty"`
	OpenTodos int       `yaml:"open_todos"`
}

// Store persists session records for a workspace.
type Store struct {
	workspace string
}

// NewStore returns a session store rooted at the workspace.
func NewStore(workspace string) *Store {
	return &Store{workspace: workspace}
}

// Dir returns the sessions directory.
func (s *Store) Dir() string {
	return filepath.Join(s.workspace, ".forge", "sessions")
}

// Save writes the session record, assigning an ID and start time when
// missing.
func (s *Store) Save(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Started.IsZero() {
		sess.Started = time.Now()
	}
	if sess.Workspace == "" {
		sess.Workspace = s.workspace
	}

	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	path := filepath.Join(s.Dir(), sess.ID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	logging.L(logging.CategorySession).Infow("session saved", "id", sess.ID)
	return nil
}

// Load reads one session by ID.
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(), id+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	return &sess, nil
}

// List returns all sessions ordered by start time, oldest first. Records
// that fail to parse are skipped.
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.Dir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []Session
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		sess, err := s.Load(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			logging.L(logging.CategorySession).Warnw("skipping unreadable session", "file", e.Name(), "error", err)
			continue
		}
		sessions = append(sessions, *sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Started.Before(sessions[j].Started)
	})
	return sessions, nil
}

// Latest returns the most recently started session, or nil when none exist.
func (s *Store) Latest() (*Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	latest := sessions[len(sessions)-1]
	return &latest, nil
}
