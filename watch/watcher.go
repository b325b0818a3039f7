// Package watch is a thin, explicitly out-of-scope collaborator: grug's
// compiler and interpreter never import it. It exists for a host that wants
// to recompile mods as their .grug files change on disk, debouncing bursts
// of writes from an editor or a build tool into a single reload.
package watch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ModWatcher watches a mods directory tree for .grug file changes and
// invokes onChange, debounced, with the set of paths that changed.
type ModWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	root      string
	onChange  func([]string) error
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a ModWatcher rooted at modsDirPath. Pass nil for logger to
// use zap.NewNop().
func New(modsDirPath string, onChange func([]string) error, logger *zap.Logger) (*ModWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	mw := &ModWatcher{
		watcher:  fsw,
		root:     modsDirPath,
		onChange: onChange,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
	mw.debouncer = newDebouncer(100*time.Millisecond, func(files []string) {
		if err := mw.onChange(files); err != nil {
			mw.logger.Error("handling mod change", zap.Error(err))
		}
	})

	return mw, nil
}

// Start begins watching every directory under root, including root itself,
// and returns once the initial directory set is registered.
func (mw *ModWatcher) Start() error {
	dirs, err := findDirectories(mw.root)
	if err != nil {
		return fmt.Errorf("walking mods directory: %w", err)
	}

	for _, dir := range dirs {
		if err := mw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		mw.logger.Info("watching directory", zap.String("dir", dir))
	}

	mw.wg.Add(1)
	go mw.watch()
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (mw *ModWatcher) Stop() error {
	select {
	case <-mw.stopChan:
		return nil
	default:
		close(mw.stopChan)
	}
	mw.wg.Wait()
	mw.debouncer.stop()
	return mw.watcher.Close()
}

func (mw *ModWatcher) watch() {
	defer mw.wg.Done()
	for {
		select {
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".grug") {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				mw.logger.Debug("grug file changed", zap.String("path", event.Name))
				mw.debouncer.add(event.Name)
			}

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.logger.Error("watch error", zap.Error(err))

		case <-mw.stopChan:
			return
		}
	}
}

func findDirectories(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// debouncer collects file paths and flushes them as a batch once duration
// has elapsed since the most recent add.
type debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mu       sync.Mutex
	callback func([]string)
}

func newDebouncer(duration time.Duration, callback func([]string)) *debouncer {
	return &debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		callback: callback,
	}
}

func (d *debouncer) add(file string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.files) == 0 {
		return
	}
	files := make([]string, 0, len(d.files))
	for f := range d.files {
		files = append(files, f)
	}
	d.files = make(map[string]struct{})
	d.callback(files)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
