package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads a configuration file when it changes on disk and hands
// the result to a callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Config)
	onError  func(error)
	logger   *logrus.Entry

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	reloadMu sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the window in which repeated writes are collapsed.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(logger *logrus.Entry) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorHandler receives load errors; the watcher keeps running.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher watches path's directory (editors often replace files rather
// than write them in place) and calls onReload with each successfully loaded
// configuration.
func NewWatcher(path string, onReload func(*Config), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     abs,
		debounce: 100 * time.Millisecond,
		onReload: onReload,
		logger:   logrus.NewEntry(logrus.StandardLogger()).WithField("component", "config-watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching for config changes. It blocks until the context is
// cancelled or the underlying watcher fails.
func (w *Watcher) Start(ctx context.Context) {
	defer w.watcher.Close()
	defer w.stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// handleChange schedules a reload once the file has been quiet for the
// debounce window. Every event restarts the window, so the last write of a
// burst is the one loaded.
func (w *Watcher) handleChange() {
	if w.debounce <= 0 {
		w.reload()
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.reload)
		return
	}
	w.timer.Reset(w.debounce)
	w.logger.Debugf("Debounced: %s", filepath.Base(w.path))
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	cfg, err := LoadWithOverrides(w.path)
	if err != nil {
		w.logger.WithError(err).Warn("Failed to reload configuration")
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.logger.Infof("Config changed: %s", filepath.Base(w.path))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
