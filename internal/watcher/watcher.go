// file: internal/watcher/watcher.go
// version: 3.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/jdfalk/asset-store/internal/logger"
)

// DefaultDebounce is the default debounce period.
const DefaultDebounce = 500 * time.Millisecond

// Callback is invoked after the debounce period with the watched file path.
type Callback func(path string)

// Watcher monitors one file for changes and invokes a callback once events
// settle. The parent directory is watched so editors that save by rename
// are still noticed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	callback  Callback
	log       zerolog.Logger
	stop      chan struct{}
	stopped   chan struct{}
	mu        sync.Mutex
	timer     *time.Timer
	running   bool
}

// New creates a Watcher. Pass 0 for debounce to use DefaultDebounce.
func New(callback Callback, debounce time.Duration, log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		debounce: debounce,
		callback: callback,
		log:      log.With().Str("component", "watcher").Logger(),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// NewNop is New with a discarded logger.
func NewNop(callback Callback, debounce time.Duration) *Watcher {
	return New(callback, debounce, logger.Nop())
}

// Start begins watching path. It is safe to call only once.
func (w *Watcher) Start(path string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, abs, err := open(path)
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.mu.Lock()
	w.fsWatcher = fsw
	w.path = abs
	w.mu.Unlock()

	go w.eventLoop()
	w.log.Info().Str("path", abs).Msg("watching file")
	return nil
}

func open(path string) (*fsnotify.Watcher, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("watcher: resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, "", err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, "", fmt.Errorf("watcher: cannot watch %s: %w", filepath.Dir(abs), err)
	}
	return fsw, abs, nil
}

// Stop gracefully shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running || w.fsWatcher == nil {
		w.running = false
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	w.fsWatcher.Close()
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
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
			w.log.Error().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	relevant := event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) != 0
	if !relevant {
		return
	}
	w.schedule()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()

		w.log.Info().Str("path", w.path).Msg("file changed, triggering reload")
		if w.callback != nil {
			w.callback(w.path)
		}
	})
}
