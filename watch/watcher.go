// Package watch reruns generation when a Glade document changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// Callback runs one regeneration. Watching continues after an error;
// reporting it to the user is the callback's job.
type Callback func(ctx context.Context) error

// Watcher watches one document and runs a callback after changes settle.
type Watcher struct {
	path           string
	base           string
	watcher        *fsnotify.Watcher
	callback       Callback
	mu             sync.Mutex // guards debounceTimer
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	runMu          sync.Mutex // callbacks never overlap
	log            *zap.SugaredLogger
}

// New watches the directory holding path. Editors often save by writing a
// new file and renaming it over the old one, which a watch on the file
// itself would lose.
func New(path string, debounce time.Duration, callback Callback) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.MarkIO(errors.Wrap(err, "failed to create fsnotify watcher"))
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.MarkIO(errors.Wrapf(err, "failed to watch %s", dir))
	}

	return &Watcher{
		path:           path,
		base:           filepath.Base(path),
		watcher:        watcher,
		callback:       callback,
		debouncePeriod: debounce,
		log:            logger.ComponentLogger("watch").With(logger.FieldDocument, path),
	}, nil
}

// Run blocks until ctx is done, then waits for a running callback to
// finish and releases the watch.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.log.Infow("Watching for changes", "debounce_ms", w.debouncePeriod.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.stop()
				return nil
			}
			if filepath.Base(event.Name) != w.base {
				continue
			}
			// Only regenerate on Write or Create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debugw("Document changed", "op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.stop()
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid file changes and triggers the callback
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		w.runMu.Lock()
		defer w.runMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.callback(ctx); err != nil {
			w.log.Debugw("Regeneration failed",
				logger.FieldError, err,
				logger.FieldErrorKind, errors.Kind(err))
		}
	})
}

// stop cancels a pending run and waits for an active one.
func (w *Watcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	w.runMu.Lock()
	w.runMu.Unlock()
}
