package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Filter decides which directories are watched and which files count.
type Filter interface {
	Allows(path string) bool
	Excludes(dirName string) bool
}

// Watcher monitors a directory tree for new importable files and emits one
// event per burst once the tree has been quiet for the debounce period.
type Watcher struct {
	watcher       *fsnotify.Watcher
	filter        Filter
	debounce      time.Duration
	root          string
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	pending       []string
	running       bool
	stopChan      chan struct{}
	eventChan     chan<- FileEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher(filter Filter, debounce time.Duration, eventChan chan<- FileEvent) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:   watcher,
		filter:    filter,
		debounce:  debounce,
		eventChan: eventChan,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start watches root and every non-excluded directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.root = root
	slog.Info("Starting file watcher", "path", root)

	if err := w.addTree(root); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully", "directories", len(w.watcher.WatchList()))
	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// addTree adds dir and its subdirectories, skipping excluded ones.
// fsnotify is not recursive and only works on the real file system.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Watcher.addTree: could not walk path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.filter.Excludes(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			slog.Warn("Watcher.addTree: could not watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only process file creation events; moves into the tree arrive as Create too
	if !event.Has(fsnotify.Create) {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if !w.filter.Excludes(info.Name()) {
			slog.Debug("Watcher: new directory, watching it", "path", event.Name)
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Watcher: failed to watch new directory", "path", event.Name, "error", err)
			}
			// Files copied in together with the directory produce no events of their own.
			w.schedule(event.Name)
		}
		return
	}

	if !w.filter.Allows(event.Name) {
		return
	}

	slog.Debug("Detected new supported file", "file", event.Name)
	w.schedule(event.Name)
}

// schedule starts or resets the debounce timer.
func (w *Watcher) schedule(path string) {
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	w.pending = append(w.pending, path)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.emitDebounceEvent)
}

// emitDebounceEvent emits a file event after debounce period
func (w *Watcher) emitDebounceEvent() {
	w.debounceMutex.Lock()
	paths := w.pending
	w.pending = nil
	w.debounceMutex.Unlock()

	event := FileEvent{
		Root:      w.root,
		Paths:     paths,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Info("Emitted file event after debounce", "path", event.Root, "files", len(paths))
	default:
		slog.Debug("Import pass already queued, coalescing file event", "path", event.Root, "files", len(paths))
	}
}
