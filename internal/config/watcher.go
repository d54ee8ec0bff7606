package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file whenever it is written.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onReload func(*Config)
	logger   *slog.Logger
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for the config file at path. onReload is
// called with every successfully parsed config; invalid edits are logged
// and ignored so the previous config stays in effect.
func NewWatcher(path string, onReload func(*Config), logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		path = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		filePath: path,
		onReload: onReload,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file; editors replace files on save
	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		return err
	}

	filename := filepath.Base(w.filePath)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-ctx.Done():
			_ = w.Stop()
			return nil

		case <-w.done:
			return nil
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.filePath)
	if err != nil {
		w.logger.Warn("ignoring invalid config", "file", w.filePath, "error", err)
		return
	}
	w.logger.Info("config reloaded", "file", w.filePath)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	default:
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}
