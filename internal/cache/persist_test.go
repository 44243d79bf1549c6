package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnagent/core/internal/exec"
)

type statOKExecutor struct{}

func (statOKExecutor) Execute(ctx context.Context, cmd string, timeoutSecs int) (exec.Result, error) {
	return exec.Result{ExitCode: 0, Output: "1700000000 42"}, nil
}
func (statOKExecutor) ExecuteBackground(cmd string) error { return nil }

func TestSaveAndLoadJSON_RoundTripsEntriesAndStats(t *testing.T) {
	dir := t.TempDir()

	c := New(statOKExecutor{})
	c.Store(context.Background(), "key1", []string{"main.go"}, "CRITICAL|node-build: failed")
	c.Hits = 3
	c.Misses = 1

	require.NoError(t, c.SaveJSON(dir))

	c2 := New(statOKExecutor{})
	require.NoError(t, c2.LoadJSON(dir))

	assert.Equal(t, 3, c2.Hits)
	assert.Equal(t, 1, c2.Misses)

	result, ok := c2.Lookup(context.Background(), "key1")
	assert.True(t, ok)
	assert.Equal(t, "CRITICAL|node-build: failed", result)
}

func TestLoadJSON_MissingFileIsNotAnError(t *testing.T) {
	c := New(statOKExecutor{})
	err := c.LoadJSON(t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Hits)
}

func TestLoadJSON_PurgesEntriesAlreadyPastTTLAtLoadTime(t *testing.T) {
	dir := t.TempDir()

	c := New(statOKExecutor{})
	c.TTL = time.Hour
	c.Store(context.Background(), "stale", []string{"old.go"}, "INFO|ok")
	c.entries["stale"].StoredAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, c.SaveJSON(dir))

	c2 := New(statOKExecutor{})
	c2.TTL = time.Hour
	require.NoError(t, c2.LoadJSON(dir))

	_, ok := c2.Lookup(context.Background(), "stale")
	assert.False(t, ok, "an entry already past TTL at save time must not survive a reload")
}

func TestSaveJSON_WritesUnderTheGivenDirectory(t *testing.T) {
	dir := t.TempDir()
	c := New(statOKExecutor{})
	require.NoError(t, c.SaveJSON(dir))

	_, err := os.Stat(filepath.Join(dir, "validation-cache.json"))
	require.NoError(t, err)
}
