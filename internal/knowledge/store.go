// Package knowledge implements persistent knowledge capture backed by
// SQLite. Entries are insights worth keeping across sessions: a topic, the
// content, the pattern it relates to, and free-form tags. Reads track
// access so pruning can distinguish live knowledge from dead weight.
package knowledge

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"patternforge/internal/logging"
)

// Entry is one captured knowledge record.
type Entry struct {
	ID          int64
	Topic       string
	Content     string
	Pattern     string
	Tags        []string
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount int
}

// Store is the SQLite-backed knowledge store.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// DefaultPath returns the knowledge database path for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".forge", "knowledge.db")
}

// Open initializes the knowledge database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.L(logging.CategoryKnowledge).Debugw("failed to set busy_timeout", "error", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.L(logging.CategoryKnowledge).Debugw("failed to set journal_mode", "error", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			topic        TEXT NOT NULL,
			content      TEXT NOT NULL,
			pattern      TEXT NOT NULL DEFAULT '',
			tags         TEXT NOT NULL DEFAULT '',
			created_at   INTEGER NOT NULL,
			accessed_at  INTEGER NOT NULL,
			access_count INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_entries_topic ON entries(topic);
		CREATE INDEX IF NOT EXISTS idx_entries_pattern ON entries(pattern);
		CREATE INDEX IF NOT EXISTS idx_entries_accessed ON entries(accessed_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Add captures a new entry and returns its ID.
func (s *Store) Add(topic, content, pattern string, tags []string) (int64, error) {
	topic = strings.TrimSpace(topic)
	content = strings.TrimSpace(content)
	if topic == "" || content == "" {
		return 0, fmt.Errorf("topic and content must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	res, err := s.db.Exec(
		`INSERT INTO entries(topic, content, pattern, tags, created_at, accessed_at) VALUES(?, ?, ?, ?, ?, ?)`,
		topic, content, pattern, strings.Join(tags, ","), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get entry id: %w", err)
	}

	logging.L(logging.CategoryKnowledge).Infow("entry captured", "id", id, "topic", topic)
	return id, nil
}

// Search finds entries whose topic, content, tags, or pattern match the
// query (case-insensitive substring). Matches have their access tracking
// updated, mirroring cold-storage usage accounting.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.Query(`
		SELECT id, topic, content, pattern, tags, created_at, accessed_at, access_count
		FROM entries
		WHERE lower(topic) LIKE ? OR lower(content) LIKE ? OR lower(tags) LIKE ? OR lower(pattern) LIKE ?
		ORDER BY created_at DESC
		LIMIT ?`,
		like, like, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = fmt.Sprint(e.ID)
		}
		// Access tracking: bump count and timestamp on read.
		_, err = s.db.Exec(fmt.Sprintf(
			`UPDATE entries SET access_count = access_count + 1, accessed_at = ? WHERE id IN (%s)`,
			strings.Join(ids, ","),
		), time.Now().Unix())
		if err != nil {
			logging.L(logging.CategoryKnowledge).Warnw("access tracking failed", "error", err)
		}
	}

	return entries, nil
}

// List returns the newest entries without touching access tracking.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, topic, content, pattern, tags, created_at, accessed_at, access_count
		FROM entries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// PruneConfig controls Prune.
type PruneConfig struct {
	// Remove entries not accessed within this window...
	OlderThan time.Duration
	// ...but only when accessed at most this many times.
	MaxAccessCount int
}

// Prune deletes stale, rarely-accessed entries and returns how many were
// removed.
func (s *Store) Prune(cfg PruneConfig) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-cfg.OlderThan).Unix()
	res, err := s.db.Exec(
		`DELETE FROM entries WHERE accessed_at < ? AND access_count <= ?`,
		cutoff, cfg.MaxAccessCount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune entries: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		logging.L(logging.CategoryKnowledge).Infow("entries pruned", "count", n)
	}
	return n, nil
}

// Count returns the total number of entries.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var tags string
		var created, accessed int64
		if err := rows.Scan(&e.ID, &e.Topic, &e.Content, &e.Pattern, &tags, &created, &accessed, &e.AccessCount); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		e.CreatedAt = time.Unix(created, 0)
		e.AccessedAt = time.Unix(accessed, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
