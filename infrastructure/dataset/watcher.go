package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
)

// DefaultDebounce coalesces the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the dataset when its file changes on disk.
type Watcher struct {
	path     string
	reloader ports.TreeReloader
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches the directory containing path so atomic saves
// (write to temp file, rename over) are seen too.
func NewWatcher(path string, reloader ports.TreeReloader, logger *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset watcher needs a file path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch dataset directory: %w", err)
	}

	return &Watcher{
		path:     path,
		reloader: reloader,
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// WithDebounce overrides the debounce window.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Dataset watcher started", zap.String("path", w.path))
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		<-w.done
		w.logger.Info("Dataset watcher stopped")
	})
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.Start()
	<-ctx.Done()
	w.Stop()
	return nil
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	var debounceTimer *time.Timer
	base := filepath.Base(w.path)

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.handleChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleChange() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	w.logger.Info("Dataset file changed, reloading", zap.String("path", w.path))
	// Reload logs its own failure and keeps the previous snapshot.
	_, _ = w.reloader.Reload(context.Background())
}
