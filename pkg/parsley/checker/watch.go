package checker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits for changes to settle before
// re-checking.
const Debounce = 100 * time.Millisecond

// Watcher re-checks files as they change on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	opts     Options
	include  []string
	exclude  []string
	onResult func(Result)
	debounce time.Duration

	mu       sync.Mutex
	explicit map[string]bool // files named directly, checked whatever their name
	pending  map[string]bool
}

// NewWatcher creates a watcher that reports each re-check to onResult.
// include and exclude select files inside watched directories, as in
// Expand.
func NewWatcher(opts Options, include, exclude []string, onResult func(Result)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsWatcher,
		opts:     opts,
		include:  include,
		exclude:  exclude,
		onResult: onResult,
		debounce: Debounce,
		explicit: make(map[string]bool),
		pending:  make(map[string]bool),
	}, nil
}

// Add watches files and directories. A file is watched through its
// directory.
func (w *Watcher) Add(paths ...string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.mu.Lock()
			w.explicit[filepath.Clean(path)] = true
			w.mu.Unlock()
			if err := w.watcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			w.opts.log().Tagf("WATCH", "watching %s", path)
			continue
		}
		if err := w.watchDirRecursive(path); err != nil {
			return err
		}
		w.opts.log().Tagf("WATCH", "watching %s", path)
	}
	return nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if path != root && (strings.HasPrefix(info.Name(), ".") || matchAny(w.exclude, info.Name())) {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// wants reports whether a changed path should be re-checked.
func (w *Watcher) wants(path string) bool {
	path = filepath.Clean(path)
	w.mu.Lock()
	explicit := w.explicit[path]
	w.mu.Unlock()
	if explicit {
		return true
	}
	name := filepath.Base(path)
	return matchAny(w.include, name) && !matchAny(w.exclude, name)
}

// Run processes file system events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchDirRecursive(event.Name); err != nil {
						w.opts.log().Errorf("failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !w.wants(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[filepath.Clean(event.Name)] = true
			w.mu.Unlock()
			timer.Reset(w.debounce)

		case <-timer.C:
			w.flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.log().Errorf("watcher error: %v", err)
		}
	}
}

// flush re-checks every pending file, in name order.
func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()
	sort.Strings(paths)

	for _, path := range paths {
		res, err := CheckFile(path, w.opts)
		if err != nil {
			// Saved-then-removed files are not an error.
			w.opts.log().Debugf("skipping %s: %v", path, err)
			continue
		}
		w.opts.log().Tagf("WATCH", "changed %s", path)
		if w.onResult != nil {
			w.onResult(res)
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
