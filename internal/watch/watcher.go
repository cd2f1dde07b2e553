// Package watch reports changes to a folder, or to one file inside it.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts such as a file manager copying many
// files at once.
const DefaultDebounce = 150 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Dir is the directory to watch.
	Dir string
	// File restricts events to one base name inside Dir. Empty means any.
	File string
	// Debounce is the quiet period before OnChange runs.
	Debounce time.Duration
	// OnChange runs on the watcher goroutine after a quiet period.
	OnChange func()
	Logger   *slog.Logger
}

// Watcher watches a directory for changes and invokes a callback.
type Watcher struct {
	opts    Options
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Watcher. It does not start watching until Start.
func New(opts Options) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		opts:    opts,
		logger:  opts.Logger,
		watcher: fw,
	}, nil
}

// WatchFile watches a single file by watching its parent directory, which
// survives editors that replace the file on save.
func WatchFile(path string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	return New(Options{
		Dir:      filepath.Dir(path),
		File:     filepath.Base(path),
		OnChange: onChange,
		Logger:   logger,
	})
}

// Start begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.opts.Dir); err != nil {
		return err
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.watchLoop(ctx)

	w.logger.Debug("watcher started", "dir", w.opts.Dir, "file", w.opts.File)
	return nil
}

// Stop stops watching and waits for the loop to exit. The callback will
// not run after Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("watcher stopped", "dir", w.opts.Dir)
	return w.watcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.logger.Debug("change detected", "dir", w.opts.Dir, "file", w.opts.File)
			if w.opts.OnChange != nil {
				w.opts.OnChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "dir", w.opts.Dir, "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.opts.File != "" && filepath.Base(event.Name) != w.opts.File {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
