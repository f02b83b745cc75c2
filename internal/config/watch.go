package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Reload is a freshly parsed config, or the error that prevented parsing it.
type Reload struct {
	Path   string
	Config KeyfallConfig
	Err    error
}

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan Reload
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches path for changes. The parent directory is watched so
// editors that replace the file on save are still picked up.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Events:  make(chan Reload, 4),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events is closed once the watch goroutine exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Events)

	// Saves arrive as bursts of events; reload once the file has been quiet.
	settle := time.NewTimer(watchDebounce)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle.Reset(watchDebounce)
		case <-settle.C:
			w.send(w.load())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(Reload{Path: w.path, Err: err})
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) load() Reload {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return Reload{Path: w.path, Err: fmt.Errorf("config: failed to read %s: %w", w.path, err)}
	}
	cfg, err := ParseKeyfall(data)
	if err != nil {
		return Reload{Path: w.path, Err: fmt.Errorf("config: %s: %w", w.path, err)}
	}
	return Reload{Path: w.path, Config: cfg}
}

func (w *Watcher) send(r Reload) {
	select {
	case w.Events <- r:
	case <-w.closeCh:
	}
}
