// Package watch turns files dropped into an inbox folder into conversions.
// It is the headless counterpart of dragging a file onto the window.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mdocx/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
// Editors and copy tools often create a file and then write it in several
// chunks.
const DefaultSettle = 250 * time.Millisecond

// Drop is a file that appeared in a watched directory and matched the
// pattern.
type Drop struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
}

// Watcher monitors directories for new files using fsnotify.
type Watcher struct {
	directories []string
	pattern     glob.Glob
	settle      time.Duration

	dropChan chan Drop
	stopChan chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	pending map[string]*time.Timer
	running bool
	// sends counts emits blocked on dropChan; Stop waits for them before
	// closing it.
	sends sync.WaitGroup
}

// New creates a watcher reporting files whose base name matches pattern,
// for example "*.{md,markdown}".
func New(pattern string) (*Watcher, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		pattern:   g,
		settle:    DefaultSettle,
		dropChan:  make(chan Drop, 16),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// SetSettle changes the quiet period. Must be called before Start.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Matches reports whether a file name would be picked up.
func (w *Watcher) Matches(path string) bool {
	name := filepath.Base(path)
	if name == "" || name[0] == '.' {
		return false
	}
	return w.pattern.Match(name)
}

// AddDirectory adds a directory to watch.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("watching inbox")
	return nil
}

// Drops returns the channel of settled, matching files. It is closed by Stop.
func (w *Watcher) Drops() <-chan Drop {
	return w.dropChan
}

// Start begins processing fsnotify events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mutex.Unlock()

	go w.loop()
	log.Debug("inbox watcher started")
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(event.Name) {
				log.Debugf("ignoring %s", event.Name)
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.emit(path) })
}

// emit reports path once it has settled. The send blocks until the consumer
// takes the drop or the watcher stops, so a slow consumer never loses files.
func (w *Watcher) emit(path string) {
	w.mutex.Lock()
	delete(w.pending, path)
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.sends.Add(1)
	w.mutex.Unlock()
	defer w.sends.Done()

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", path), log.F("error", err)).Error("error stating file")
		}
		return
	}
	if info.IsDir() {
		return
	}

	select {
	case w.dropChan <- Drop{Path: path, Info: info, Timestamp: time.Now()}:
	case <-w.stopChan:
		log.LogWithFields(log.F("file", path)).Debug("watcher stopped before drop was taken")
	}
}

// Stop halts watching and closes the Drops channel once no emit is pending.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("error closing fsnotify watcher")
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mutex.Unlock()

	w.sends.Wait()
	close(w.dropChan)
	log.Debug("inbox watcher stopped")
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, len(w.directories))
	copy(out, w.directories)
	return out
}
