package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"voicetrade/internal/logger"
)

// Sweeper periodically removes stale files from the upload directory. The
// pipeline deletes its own temp files; the sweeper catches files orphaned by
// crashes or kills.
type Sweeper struct {
	cron      *cron.Cron
	dir       string
	interval  time.Duration
	retention time.Duration
}

// NewSweeper creates a new Sweeper over the given directory. interval is how
// often it runs, retention how old a file must be before it is removed.
func NewSweeper(dir string, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		cron:      cron.New(),
		dir:       dir,
		interval:  interval,
		retention: retention,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if err := s.Sweep(ctx); err != nil {
			logger.Warn(ctx, "upload sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule upload sweep: %w", err)
	}

	s.cron.Start()
	logger.Info(context.Background(), "upload sweeper started",
		"dir", s.dir, "interval", s.interval.String(), "retention", s.retention.String())
	return nil
}

// Stop stops the scheduler. Running jobs finish.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep removes regular files older than the retention window. Individual
// delete failures are logged and skipped; only listing the directory is a
// hard error.
func (s *Sweeper) Sweep(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn(ctx, "failed to remove stale upload", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info(ctx, "removed stale uploads", "count", removed)
	}
	return nil
}
