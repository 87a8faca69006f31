// Package watch re-runs a build whenever a file changes.
//
// The directory holding the file is watched rather than the file itself, so
// editors that save by writing a temporary file and renaming it over the
// original are picked up as well. Bursts of events are coalesced: the build
// runs once the file has been quiet for the debounce duration.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must be quiet before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch events and failed builds.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
}

// New creates a watcher for path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Run calls build after every change of the file until ctx is done. Builds
// run on the calling goroutine, one at a time; a failed build is logged and
// watching continues. Run returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, build func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching for changes", "file", w.path)

	target := filepath.Base(w.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				w.logger.Warn("watched file was removed", "file", w.path)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			w.logger.Info("file changed, rebuilding", "file", w.path)
			if err := build(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("rebuild failed", "err", err)
			}
		}
	}
}
