// Package watcher turns filesystem writes into save events.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thomas-vilte/commitintent/internal/filter"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
)

// Watcher watches directory trees and reports every write to a regular file as
// a SaveEvent. Ignored directories (.git, node_modules, ...) are never added.
type Watcher struct {
	fs *fsnotify.Watcher

	mu       sync.RWMutex
	handlers map[uint64]func(models.SaveEvent)
	nextID   uint64
	dirs     int
}

func New(roots ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		handlers: make(map[uint64]func(models.SaveEvent)),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Subscribe registers handler for every save event. Handlers run on the Run
// goroutine and must not block.
func (w *Watcher) Subscribe(handler func(models.SaveEvent)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = handler
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// DirCount returns how many directories are being watched.
func (w *Watcher) DirCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirs
}

// Run delivers events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "file watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if ev.Has(fsnotify.Create) && !filter.IsIgnoredDir(filepath.Base(ev.Name)) {
			if err := w.addRecursive(ev.Name); err != nil {
				logger.Warn(ctx, "could not watch new directory", "path", ev.Name, "error", err)
			}
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	evt := models.SaveEvent{Path: ev.Name, Timestamp: time.Now()}

	w.mu.RLock()
	handlers := make([]func(models.SaveEvent), 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}

func (w *Watcher) addRecursive(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", root, err)
	}

	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return fmt.Errorf("error walking %s: %w", path, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && filter.IsIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("error watching %s: %w", path, err)
		}
		w.mu.Lock()
		w.dirs++
		w.mu.Unlock()
		return nil
	})
}
