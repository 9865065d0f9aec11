// Package watcher reports changes to the input files so the cache can be re-checked.
package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements input file watching using fsnotify.
// It watches the parent directories so replaced files keep being observed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	files     map[unique.Handle[string]]struct{}
	events    chan ports.WatchEvent
}

// NewWatcher creates a new input file watcher. No OS resources are held until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		files:  make(map[unique.Handle[string]]struct{}),
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching the directories holding files.
func (w *Watcher) Start(ctx context.Context, files ...string) error {
	if w.fsWatcher != nil {
		return zerr.New("watcher already started")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	w.fsWatcher = fsWatcher

	dirs := make(map[unique.Handle[string]]struct{}, len(files))

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve watched file"), "path", file)
		}
		w.files[unique.Make(abs)] = struct{}{}
		dirs[unique.Make(filepath.Dir(abs))] = struct{}{}
	}

	for dir := range dirs {
		if err := w.fsWatcher.Add(dir.Value()); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir.Value())
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of input file events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, relevant := w.convertEvent(event)
			if !relevant {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher: file system error: " + err.Error())
			}
		}
	}
}

// convertEvent maps an fsnotify event on a watched file to a ports.WatchEvent.
func (w *Watcher) convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	path := filepath.Clean(event.Name)
	if _, ok := w.files[unique.Make(path)]; !ok {
		return ports.WatchEvent{}, false
	}

	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: path, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: path, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: path, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: path, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
