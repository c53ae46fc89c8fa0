package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher triggers a callback when one of the watched files is written,
// created or renamed over. Directories are watched so editors that replace
// files atomically are still seen.
type FileWatcher struct {
	Paths    []string
	onChange func(string) // called with path that changed
	onError  func(error)

	watcher  *fsnotify.Watcher
	stopOnce sync.Once
	done     chan struct{}
}

// NewFileWatcher creates a watcher for given paths. onError may be nil.
func NewFileWatcher(paths []string, onChange func(string), onError func(error)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			// directory may not exist yet; balance falls back to embedded defaults
			if onError != nil {
				onError(fmt.Errorf("watch %s: %w", d, err))
			}
		}
	}
	return &FileWatcher{
		Paths:    paths,
		onChange: onChange,
		onError:  onError,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start begins dispatching events in a goroutine.
func (w *FileWatcher) Start() {
	watched := make(map[string]bool, len(w.Paths))
	for _, p := range w.Paths {
		watched[filepath.Clean(p)] = true
	}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !watched[filepath.Clean(ev.Name)] {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					if w.onChange != nil {
						w.onChange(ev.Name)
					}
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				if w.onError != nil {
					w.onError(err)
				}
			}
		}
	}()
}

// Stop closes the underlying watcher; the dispatch goroutine exits after it.
func (w *FileWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

// Done is closed once the dispatch goroutine has exited.
func (w *FileWatcher) Done() <-chan struct{} { return w.done }
