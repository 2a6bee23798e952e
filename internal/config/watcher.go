package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/narrowstack/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes and delivers each
// successfully parsed configuration on Changes. Parse and read failures
// are delivered on Errors and the previous configuration stays in effect.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.Logger

	changes chan *Config
	errors  chan error
	reload  chan struct{}

	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher starts watching the configuration file at path. The file's
// directory is watched so that editors replacing the file by rename are
// noticed.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsw:      fsw,
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		changes:  make(chan *Config, 1),
		errors:   make(chan error, 1),
		reload:   make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config")

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Changes returns the channel of reloaded configurations.
func (w *Watcher) Changes() <-chan *Config { return w.changes }

// Errors returns the channel of reload errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Reload asks the watcher to reread the file now, without waiting for a
// change. The result is delivered like any other reload.
func (w *Watcher) Reload() error {
	select {
	case <-w.closeCh:
		return ErrWatcherClosed
	default:
	}
	select {
	case w.reload <- struct{}{}:
	default:
		// A reload is already pending.
	}
	return nil
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.changes)
		close(w.errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(nil, err)

		case <-fire:
			fire = nil
			w.load()

		case <-w.reload:
			w.load()
		}
	}
}

func (w *Watcher) load() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("reload failed: %v", err)
		w.send(nil, err)
		return
	}
	w.logger.Info("reloaded %s", w.path)
	w.send(cfg, nil)
}

// send delivers a result, replacing an undelivered one so a slow reader
// always sees the latest state.
func (w *Watcher) send(cfg *Config, err error) {
	if err != nil {
		select {
		case <-w.errors:
		default:
		}
		select {
		case w.errors <- err:
		case <-w.closeCh:
		}
		return
	}

	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- cfg:
	case <-w.closeCh:
	}
}
