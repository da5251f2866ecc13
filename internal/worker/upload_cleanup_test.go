package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
)

func TestUploadCleanupRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.xlsx")
	fresh := filepath.Join(dir, "fresh.xlsx")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	w := NewUploadCleanupWorker(dir, time.Hour, time.Minute, metrics.NewNop(), logger.Nop())
	removed, err := w.cleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

func TestUploadCleanupMissingDir(t *testing.T) {
	w := NewUploadCleanupWorker(filepath.Join(t.TempDir(), "missing"), time.Hour, time.Minute, metrics.NewNop(), logger.Nop())
	removed, err := w.cleanup()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestUploadCleanupZeroIntervalDoesNotStart(t *testing.T) {
	w := NewUploadCleanupWorker(t.TempDir(), time.Hour, 0, metrics.NewNop(), logger.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return when the interval is not positive")
	}
}
