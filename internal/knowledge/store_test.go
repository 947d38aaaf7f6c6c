package knowledge

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "knowledge.db"))
	require.NoError(t, err, "Open failed")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("anchor derivation", "GitHub drops ampersands entirely when slugging headers", "AI Context Persistence", []string{"markdown", "anchors"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "anchor derivation", e.Topic)
	assert.Equal(t, []string{"markdown", "anchors"}, e.Tags)
	assert.Zero(t, e.AccessCount, "List should not bump access count")
}

func TestAdd_RejectsEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("", "content", "", nil)
	assert.Error(t, err, "empty topic")

	_, err = s.Add("topic", "   ", "", nil)
	assert.Error(t, err, "blank content")
}

func TestSearch_TracksAccess(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("sandbox networking", "containers must run with network none", "AI Security Sandbox", []string{"docker"})
	require.NoError(t, err)
	_, err = s.Add("unrelated", "nothing to see", "", nil)
	require.NoError(t, err)

	hits, err := s.Search("NETWORK", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sandbox networking", hits[0].Topic)

	// Search by tag matches too.
	hits, err = s.Search("docker", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	entries, err := s.List(10)
	require.NoError(t, err)
	for _, e := range entries {
		if e.Topic == "sandbox networking" {
			assert.Equal(t, 2, e.AccessCount, "two searches should bump access_count twice")
		}
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("stale", "old and unread", "", nil)
	require.NoError(t, err)
	_, err = s.Add("fresh", "recently captured", "", nil)
	require.NoError(t, err)

	// Age the stale entry directly.
	old := time.Now().Add(-120 * 24 * time.Hour).Unix()
	_, err = s.db.Exec(`UPDATE entries SET accessed_at = ? WHERE topic = 'stale'`, old)
	require.NoError(t, err)

	n, err := s.Prune(PruneConfig{OlderThan: 90 * 24 * time.Hour, MaxAccessCount: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpen_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Add("persists", "across opens", "", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err, "reopen failed")
	defer s2.Close()

	count, err := s2.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "entry should persist across opens")
}
