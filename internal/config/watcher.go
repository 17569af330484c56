package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the freshly loaded profile, or the load error.
type ReloadHandler func(Profile, error)

// Watcher reloads a profile file when it changes on disk. Reloads are
// debounced so editors that write in bursts trigger a single reload.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	path    string
	handler ReloadHandler
	delay   time.Duration
	pending *time.Timer
	closed  bool
	done    chan struct{}
}

// WatchFile starts watching path and calls handler after each settled
// change. The initial load is the caller's responsibility.
func WatchFile(path string, handler ReloadHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    path,
		handler: handler,
		delay:   100 * time.Millisecond,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.handler(nil, err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		w.handler(LoadFile(w.path))
	})
}

// Close stops the watcher. No handler call is made after Close returns
// unless one is already in flight.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}
