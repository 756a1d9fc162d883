package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file events.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher calls a reload function when a file changes.
// It watches the parent directory so editors that save by renaming are
// noticed too.
type Watcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onReload  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher creates a watcher for filePath. onReload runs once per burst
// of changes after debounce; its errors and watcher errors go to onError.
// The parent directory must exist.
func NewWatcher(filePath string, debounce time.Duration, onReload func() error, onError func(error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if err := w.Add(filepath.Dir(filePath)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		watcher:   w,
		filePath:  filePath,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// WatchSettings reloads settings from path on change and hands them to
// apply. Invalid files are reported to onError and the old settings stay.
func WatchSettings(path string, apply func(*Settings), onError func(error)) (*Watcher, error) {
	return NewWatcher(path, DefaultWatchDebounce, func() error {
		s, err := Load(path)
		if err != nil {
			return err
		}
		apply(s)
		return nil
	}, onError)
}

// Start begins watching in a goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

// Stop stops watching and waits for the goroutine to exit.
// A watcher that was never started is closed directly.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Watcher) loop() {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	absPath, _ := filepath.Abs(w.filePath)
	baseName := filepath.Base(w.filePath)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			if w.onReload != nil {
				if err := w.onReload(); err != nil && w.onError != nil {
					w.onError(err)
				}
			}
			timer = nil
			fire = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}
