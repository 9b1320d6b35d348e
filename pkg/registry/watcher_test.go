package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForRuleset(t *testing.T, reg *InMemory, id string, want bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rs, err := reg.Get(context.Background(), id)
		require.NoError(t, err)
		if (rs != nil) == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("ruleset %q: presence did not become %v", id, want)
}

func TestWatcherLoadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "items.json"),
		[]byte(`{"id":"items-tree","version":"1.0.0"}`), 0644))

	reg := NewInMemory()
	w, err := NewWatcher(dir, reg)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	rs, err := reg.Get(context.Background(), "items-tree")
	require.NoError(t, err)
	require.NotNil(t, rs)
	assert.Equal(t, "1.0.0", rs.Version)
}

func TestWatcherPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()

	reg := NewInMemory()
	w, err := NewWatcher(dir, reg)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "new.json"),
		[]byte(`{"id":"new-tree"}`), 0644))

	waitForRuleset(t, reg, "new-tree", true)
}

func TestWatcherRemovesDeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"items-tree"}`), 0644))

	reg := NewInMemory()
	w, err := NewWatcher(dir, reg)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.Remove(path))
	waitForRuleset(t, reg, "items-tree", false)
}

func TestWatcherIgnoresInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{not json`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noid.json"), []byte(`{"version":"1"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0644))

	reg := NewInMemory()
	w, err := NewWatcher(dir, reg)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	assert.Empty(t, reg.List())
}
