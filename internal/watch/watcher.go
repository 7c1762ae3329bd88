package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"docsite/internal/contextutil"
)

// DefaultDebounce is the quiet period that ends a burst of events.
const DefaultDebounce = 200 * time.Millisecond

// RebuildFunc is called once per burst of changes.
type RebuildFunc func(ctx context.Context) error

// Watcher watches every directory below a content root and calls a rebuild
// function after changes settle.
type Watcher struct {
	root     string
	skipDirs []string
	debounce time.Duration
	rebuild  RebuildFunc
	watcher  *fsnotify.Watcher
}

// New creates a Watcher for root. Directories named in skipDirs are not
// watched, matching what a build reads.
func New(root string, skipDirs []string, debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		skipDirs: skipDirs,
		debounce: debounce,
		rebuild:  rebuild,
		watcher:  fw,
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree adds dir and every watchable directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(name string) bool {
	return slices.Contains(w.skipDirs, name)
}

// WatchList returns the watched directories.
func (w *Watcher) WatchList() []string {
	return w.watcher.WatchList()
}

// Run processes events until ctx is cancelled. Rebuild errors are logged and
// never stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	pending := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchCreated(ctx, event.Name)
			}
			logger.DebugContext(ctx, "content changed", "path", event.Name, "op", event.Op.String())
			pending++
			timer.Reset(w.debounce)

		case <-timer.C:
			logger.InfoContext(ctx, "rebuilding", "changes", pending)
			pending = 0
			if err := w.rebuild(ctx); err != nil {
				logger.ErrorContext(ctx, "rebuild failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", "error", err)
		}
	}
}

// relevant drops chmod-only events and events below skipped directories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, dir := range parts[:len(parts)-1] {
		if w.skipDir(dir) {
			return false
		}
	}
	return true
}

// watchCreated starts watching a newly created directory tree.
func (w *Watcher) watchCreated(ctx context.Context, path string) {
	if w.skipDir(filepath.Base(path)) {
		return
	}
	if err := w.addTree(path); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to watch new directory", "path", path, "error", err)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
