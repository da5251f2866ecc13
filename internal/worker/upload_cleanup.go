package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
)

// UploadCleanupWorker deletes spreadsheet uploads that request handling
// failed to remove, e.g. after a crash mid-import.
type UploadCleanupWorker struct {
	dir             string
	maxAge          time.Duration
	cleanupInterval time.Duration
	metrics         *metrics.Metrics
	logger          *logger.Logger
	now             func() time.Time
}

func NewUploadCleanupWorker(dir string, maxAge, cleanupInterval time.Duration, m *metrics.Metrics, log *logger.Logger) *UploadCleanupWorker {
	return &UploadCleanupWorker{
		dir:             dir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		metrics:         m,
		logger:          log,
		now:             time.Now,
	}
}

// Start sweeps on every tick until ctx is done. A non-positive interval
// disables the sweeper.
func (w *UploadCleanupWorker) Start(ctx context.Context) {
	if w.cleanupInterval <= 0 {
		w.logger.Warn("upload cleanup disabled", "interval", w.cleanupInterval.String())
		return
	}
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.cleanup(); err != nil {
				w.logger.Error(err, "upload cleanup failed", "dir", w.dir)
			}
		}
	}
}

// cleanup removes regular files older than maxAge and returns how many it
// removed.
func (w *UploadCleanupWorker) cleanup() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read upload dir: %w", err)
	}

	cutoff := w.now().Add(-w.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove stale upload", "path", path, "error", err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		w.metrics.UploadsSwept.Add(float64(removed))
		w.logger.Info("removed stale uploads", "count", removed, "cutoff", cutoff)
	}
	return removed, nil
}
