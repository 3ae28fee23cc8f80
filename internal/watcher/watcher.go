package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/inspect"
	"github.com/zheng/documember/internal/summary"
)

// Watcher watches for source changes and re-runs the audit
type Watcher struct {
	target    string
	cfg       summary.Config
	logger    *log.Logger
	fsWatcher *fsnotify.Watcher

	// Debouncing
	debounceDelay time.Duration
	pendingFiles  map[string]struct{}
	pendingMu     sync.Mutex
	debounceTimer *time.Timer

	// Callbacks
	onAuditStart func()
	onAuditDone  func(root *summary.Node, stats *coverage.Stats, duration time.Duration)
	onError      func(error)

	// Control
	done chan struct{}
}

// WatcherOption configures the watcher
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnAuditStart sets the callback for when an audit starts
func WithOnAuditStart(fn func()) WatcherOption {
	return func(w *Watcher) {
		w.onAuditStart = fn
	}
}

// WithOnAuditDone sets the callback for when an audit completes
func WithOnAuditDone(fn func(root *summary.Node, stats *coverage.Stats, duration time.Duration)) WatcherOption {
	return func(w *Watcher) {
		w.onAuditDone = fn
	}
}

// WithOnError sets the callback for errors
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a new Watcher
func New(target string, cfg summary.Config, logger *log.Logger, opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		target:        target,
		cfg:           cfg,
		logger:        logger,
		fsWatcher:     fsWatcher,
		debounceDelay: 500 * time.Millisecond, // Default debounce
		pendingFiles:  make(map[string]struct{}),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	// Add all directories to watch
	if err := w.addDirs(); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directories to watch: %w", err)
	}

	return w, nil
}

// addDirs recursively adds all directories to the watcher
func (w *Watcher) addDirs() error {
	return filepath.Walk(w.target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and common non-source directories
		name := info.Name()
		if info.IsDir() {
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" || name == "testdata" {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}

		return nil
	})
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.eventLoop()
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// eventLoop handles file system events
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only care about Go files
	if !strings.HasSuffix(event.Name, ".go") {
		return
	}

	// Test files never contribute documentation
	if strings.HasSuffix(event.Name, "_test.go") {
		return
	}

	// Only care about write/create/remove events
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// Handle new directories
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.fsWatcher.Add(event.Name)
		}
	}

	// Add to pending files and reset debounce timer
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pendingFiles[event.Name] = struct{}{}

	// Reset debounce timer
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerAudit)
}

// triggerAudit runs the audit after debounce
func (w *Watcher) triggerAudit() {
	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pendingFiles))
	for f := range w.pendingFiles {
		files = append(files, f)
	}
	w.pendingFiles = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(files) == 0 {
		return
	}
	w.logger.Debug("changes detected", "files", len(files))

	if w.onAuditStart != nil {
		w.onAuditStart()
	}

	startTime := time.Now()

	root, stats, err := w.runAudit()
	if err != nil {
		if w.onError != nil {
			w.onError(fmt.Errorf("audit failed: %w", err))
		}
		return
	}

	duration := time.Since(startTime)

	if w.onAuditDone != nil {
		w.onAuditDone(root, stats, duration)
	}
}

// runAudit re-inspects the target and recomputes coverage
func (w *Watcher) runAudit() (*summary.Node, *coverage.Stats, error) {
	mod, err := inspect.Resolve(w.target, w.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to inspect %s: %w", w.target, err)
	}

	root := summary.Build(mod, w.cfg)
	stats := coverage.Compute(w.target, root)
	return root, stats, nil
}
