// Package watcher reports debounced batches of file changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Norgate-AV/apc/internal/logging"
)

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// FileFilter determines if a changed file is reported
type FileFilter func(path string) bool

// ChangeHandler handles a batch of file change events
type ChangeHandler func(events []ChangeEvent) error

// Watcher watches directories and hands debounced changes to its handlers
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// New creates a watcher grouping changes that occur within delay of each other
func New(delay time.Duration, logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &Watcher{
		watcher:   fw,
		debouncer: NewDebouncer(delay),
		logger:    logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter. Every filter must accept a path.
func (w *Watcher) AddFilter(filter FileFilter) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler adds a change handler
func (w *Watcher) AddHandler(handler ChangeHandler) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.handlers = append(w.handlers, handler)
}

// AddPath watches a directory, or the directory holding a file
func (w *Watcher) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	if slices.Contains(w.watcher.WatchList(), filepath.Clean(path)) {
		return nil
	}

	if err := w.watcher.Add(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w.logger.Debug("watching", "path", path)

	return nil
}

// Paths returns the watched directories
func (w *Watcher) Paths() []string {
	paths := w.watcher.WatchList()
	slices.Sort(paths)

	return paths
}

// Start processes events until ctx is done
func (w *Watcher) Start(ctx context.Context) {
	go w.debouncer.start(ctx)
	go w.processEvents(ctx)
	go w.watchLoop(ctx)
}

// Stop stops the watcher and releases its resources
func (w *Watcher) Stop() error {
	w.debouncer.stop()
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(err, "file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	w.mutex.RLock()
	filters := w.filters
	w.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var modTime time.Time
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventTypeCreated
	case event.Op.Has(fsnotify.Write):
		eventType = EventTypeModified
	case event.Op.Has(fsnotify.Remove):
		eventType = EventTypeDeleted
	case event.Op.Has(fsnotify.Rename):
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}

	w.debouncer.Add(ChangeEvent{Type: eventType, Path: event.Name, ModTime: modTime})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-w.debouncer.output:
			w.mutex.RLock()
			handlers := w.handlers
			w.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					w.logger.Error(err, "change handler failed")
				}
			}
		}
	}
}

// ExtFilter accepts paths with one of the given extensions, e.g. ".js"
func ExtFilter(exts ...string) FileFilter {
	return func(path string) bool {
		return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
	}
}

// NoHiddenFilter rejects dot files, including in-progress output writes
func NoHiddenFilter(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// ExcludeDirs rejects paths inside any of dirs
func ExcludeDirs(dirs ...string) FileFilter {
	cleaned := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d != "" {
			cleaned = append(cleaned, filepath.Clean(d)+string(filepath.Separator))
		}
	}

	return func(path string) bool {
		for _, d := range cleaned {
			if strings.HasPrefix(filepath.Clean(path), d) {
				return false
			}
		}

		return true
	}
}

// AnyFilter accepts a path accepted by any of filters
func AnyFilter(filters ...FileFilter) FileFilter {
	return func(path string) bool {
		for _, f := range filters {
			if f(path) {
				return true
			}
		}

		return false
	}
}

// PathFilter accepts exactly the given files
func PathFilter(paths ...string) FileFilter {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}

	return func(path string) bool {
		return slices.Contains(cleaned, filepath.Clean(path))
	}
}
