package feed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long the feed file must stay quiet before a reload.
const DefaultSettle = 250 * time.Millisecond

// Watcher calls onChange after the feed file is written, replaced or removed.
// Bursts of events within the settle interval collapse into one call.
type Watcher struct {
	path     string
	settle   time.Duration
	onChange func(ctx context.Context)
	logger   *zap.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, settle time.Duration, onChange func(ctx context.Context), logger *zap.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: filepath.Clean(path), settle: settle, onChange: onChange, logger: logger}
}

// Run watches until ctx is done. The parent directory is watched so that
// editors replacing the file atomically keep triggering reloads.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create feed watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.logger.Info("watching content feed", zap.String("path", w.path))

	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.logger.Debug("feed file changed", zap.String("op", ev.Op.String()))
				timer.Reset(w.settle)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("feed watcher error", zap.Error(err))
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}
