package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dejo1307/symfonymcp/internal/logger"
)

// Watcher evicts cached override documents when their files change.
type Watcher struct {
	watcher *fsnotify.Watcher
	cache   *Cache
	log     *zap.SugaredLogger

	mu    sync.Mutex
	dirs  map[string]bool
	files map[string]bool
}

// NewWatcher creates a watcher bound to cache. Start must be called to
// process events.
func NewWatcher(cache *Cache) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	return &Watcher{
		watcher: fw,
		cache:   cache,
		log:     logger.ComponentLogger("watcher"),
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
	}, nil
}

// Watch tracks an override file. Its directory is watched so the file can be
// created, replaced or removed. A missing directory is not an error; the
// cache still detects changes through the file's size and mtime.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = true
	if w.dirs[dir] {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		w.log.Debugw("override directory missing, not watching", logger.FieldPath, dir)
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	w.dirs[dir] = true
	w.log.Debugw("watching override directory", logger.FieldPath, dir)
	return nil
}

// Start processes events until ctx is done or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	tracked := w.files[path]
	w.mu.Unlock()
	if !tracked {
		return
	}

	w.log.Infow("override changed", logger.FieldFile, path, "op", event.Op.String())
	w.cache.Invalidate(path)
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
