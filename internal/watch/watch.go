// Package watch triggers a callback when any of a fixed set of files changes.
//
// Parent directories are watched, not the files, so a file replaced by a
// rename is still seen.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/internal/util"
	"github.com/teranos/bindgen/logger"
)

// ChangeFunc is called after a debounced burst of changes. It receives the
// files that changed during the burst, sorted.
type ChangeFunc func(changed []string)

// Watcher watches files for changes and calls a ChangeFunc after they settle
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{} // absolute, cleaned paths
	onChange ChangeFunc
	debounce time.Duration

	mu            sync.Mutex
	debounceTimer *time.Timer
	pending       map[string]struct{}
}

// New creates a watcher for paths. A zero debounce fires once per event.
func New(paths []string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}, len(paths)),
		onChange: onChange,
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return w, nil
}

// Run processes file system events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// Close stops watching. Run returns once its event channels drain.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Renames into place arrive as Create
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	name := filepath.Clean(event.Name)
	if !filepath.IsAbs(name) {
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
	}
	if _, ok := w.files[name]; !ok {
		return
	}

	logger.Debugw("watcher detected change",
		logger.FieldFile, name,
		logger.FieldOperation, event.Op.String())
	w.schedule(name)
}

// schedule debounces rapid file changes and triggers onChange
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = struct{}{}

	// Cancel existing timer if any
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	changed := util.SortedSet(w.pending)
	w.pending = make(map[string]struct{})
	w.debounceTimer = nil
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	w.onChange(changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}
