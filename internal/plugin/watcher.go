package plugin

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettleDelay is how long the watcher waits after the first event for a
// plugin directory before trying to load it, so a manifest and its script
// both land before the load.
const watchSettleDelay = 250 * time.Millisecond

// Watcher hot-loads plugins dropped into the plugins directory while the
// process is running. Already-loaded plugins are left alone; only new
// directories are picked up.
type Watcher struct {
	manager *Manager
	root    string
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	loaded  map[string]bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewWatcher creates a watcher for the given plugins root. Call Start to
// begin watching.
func NewWatcher(m *Manager, root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		manager: m,
		root:    root,
		fsw:     fsw,
		pending: make(map[string]*time.Timer),
		loaded:  make(map[string]bool),
		done:    make(chan struct{}),
	}, nil
}

// Start runs the event loop in a new goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(w.pluginDir(event.Name))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.manager.log().Warn("plugin watcher error", "err", err)
		}
	}
}

// pluginDir maps an event path to the plugin directory it belongs to. An
// event directly under the root is the directory itself; anything deeper is
// attributed to its top-level directory.
func (w *Watcher) pluginDir(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		rel = rel[:i]
	}
	return filepath.Join(w.root, rel)
}

// schedule arms (or re-arms) the settle timer for a plugin directory.
// Directories already loaded through this watcher are ignored; the manifest
// name need not match the directory name, so the watcher keys on the
// directory path itself.
func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loaded[dir] {
		return
	}
	if timer, ok := w.pending[dir]; ok {
		timer.Reset(watchSettleDelay)
		return
	}
	w.pending[dir] = time.AfterFunc(watchSettleDelay, func() {
		w.mu.Lock()
		delete(w.pending, dir)
		w.mu.Unlock()
		w.tryLoad(dir)
	})
}

func (w *Watcher) tryLoad(dir string) {
	select {
	case <-w.done:
		return
	default:
	}

	if _, err := w.manager.Load(dir); err != nil {
		if errors.Is(err, ErrAlreadyLoaded) {
			w.markLoaded(dir)
			return
		}
		// The directory may still be filling up; the next write re-arms
		// the timer.
		w.manager.log().Debug("hot load attempt failed", "dir", dir, "err", err)
		return
	}
	w.markLoaded(dir)
	w.manager.log().Info("plugin hot loaded", "dir", dir)
}

func (w *Watcher) markLoaded(dir string) {
	w.mu.Lock()
	w.loaded[dir] = true
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.doneOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	for dir, timer := range w.pending {
		timer.Stop()
		delete(w.pending, dir)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
