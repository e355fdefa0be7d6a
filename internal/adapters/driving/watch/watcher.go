// Package watch keeps a directory in sync with the vector indexes.
// New and modified files are ingested; removed files are deleted.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// ErrClosed is returned when watching with a closed Watcher.
var ErrClosed = errors.New("watcher closed")

// ChangeType is the kind of file change.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is a single file change under the watched root.
type Change struct {
	Type ChangeType
	Path string
}

// Watcher emits changes for regular, non-hidden files directly under root.
type Watcher struct {
	root string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a watcher for root. No I/O happens until Watch.
func New(root string) *Watcher {
	return &Watcher{root: root}
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Watch starts watching and returns a channel of changes.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.watcher = fw

	changes := make(chan Change)
	go w.loop(ctx, fw, changes)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, changes chan<- Change) {
	defer close(changes)
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.root, err)
		}
	}
}

// handleFsEvent converts an fsnotify event to a change, or nil to skip it.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if isHidden(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if event.Has(fsnotify.Create) {
			return &Change{Type: ChangeCreated, Path: event.Name}
		}
		return &Change{Type: ChangeUpdated, Path: event.Name}
	}
	return nil
}

// Existing lists the regular, non-hidden files currently under root.
func (w *Watcher) Existing() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || isHidden(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(w.root, e.Name()))
	}
	return paths, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
