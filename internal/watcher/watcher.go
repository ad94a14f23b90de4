// Package watcher reports debounced changes to source files under a project
// root.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/logging"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	Create EventOp = iota
	Write
	Remove
	Rename
)

// String returns the string representation of EventOp.
func (op EventOp) String() string {
	switch op {
	case Create:
		return "Create"
	case Write:
		return "Write"
	case Remove:
		return "Remove"
	case Rename:
		return "Rename"
	default:
		return "Unknown"
	}
}

// Event represents a file system change event.
type Event struct {
	Path string
	Op   EventOp
	Time time.Time
}

// DefaultDebounce is the quiet period used when WatcherConfig.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// WatcherConfig holds configuration for the file system watcher.
type WatcherConfig struct {
	// Root is the directory watched recursively.
	Root string
	// Skip reports whether a file or directory name is excluded. Every
	// path element below Root is checked.
	Skip func(name string) bool
	// Match reports whether a file is of interest. Nil matches every file.
	Match func(name string) bool
	// Debounce is the quiet period per path before an event is emitted.
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// Watcher watches a directory tree for changes and emits debounced events.
type Watcher struct {
	cfg    WatcherConfig
	log    logrus.FieldLogger
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a new file system watcher with the given configuration.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = root
	if cfg.Skip == nil {
		cfg.Skip = func(string) bool { return false }
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{cfg: cfg, log: logger}, nil
}

// Start begins watching the root and returns a channel of debounced events.
// The channel is closed when the context is cancelled.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan Event, 100)
	go w.eventLoop(ctx, fsw, out)
	return out, nil
}

// Close shuts down the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// ignored reports whether any element of path below the root is skipped.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.cfg.Root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.cfg.Skip(part) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	type pending struct {
		event Event
		timer *time.Timer
	}
	pendingEvents := make(map[string]*pending)
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := make(chan struct{})

	// Timers still in flight must finish before out is closed.
	defer func() {
		close(done)
		mu.Lock()
		for _, p := range pendingEvents {
			if p.timer.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
		close(out)
	}()

	fire := func(name string) func() {
		return func() {
			defer wg.Done()
			mu.Lock()
			p := pendingEvents[name]
			delete(pendingEvents, name)
			mu.Unlock()
			if p == nil {
				return
			}
			select {
			case out <- p.event:
			case <-done:
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case fsEvent, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.ignored(fsEvent.Name) {
				continue
			}

			op, valid := convertOp(fsEvent.Op)
			if !valid {
				continue
			}

			// New directories are watched too; their own events are not emitted.
			if op == Create {
				if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(fsEvent.Name)
					continue
				}
			}
			if w.cfg.Match != nil && !w.cfg.Match(filepath.Base(fsEvent.Name)) {
				continue
			}

			evt := Event{Path: fsEvent.Name, Op: op, Time: time.Now()}

			mu.Lock()
			if p, exists := pendingEvents[fsEvent.Name]; exists {
				p.event = evt
				if p.timer.Stop() {
					p.timer.Reset(w.cfg.Debounce)
				} else {
					wg.Add(1)
					p.timer = time.AfterFunc(w.cfg.Debounce, fire(fsEvent.Name))
				}
			} else {
				wg.Add(1)
				pendingEvents[fsEvent.Name] = &pending{
					event: evt,
					timer: time.AfterFunc(w.cfg.Debounce, fire(fsEvent.Name)),
				}
			}
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}

func convertOp(op fsnotify.Op) (EventOp, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Create, true
	case op.Has(fsnotify.Write):
		return Write, true
	case op.Has(fsnotify.Remove):
		return Remove, true
	case op.Has(fsnotify.Rename):
		return Rename, true
	default:
		return 0, false
	}
}
