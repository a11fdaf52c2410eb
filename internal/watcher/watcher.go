// Package watcher reports changes to a single file, coalescing bursts of
// filesystem events into one notification.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the file must stay quiet before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a file watch.
type Options struct {
	Debounce time.Duration // DefaultDebounce when zero
	Logger   zerolog.Logger
}

// WatchFile reports changes to path until ctx is cancelled. The parent
// directory is watched so editors that replace the file on save are seen.
// Notifications are coalesced: a slow consumer sees at most one pending
// signal. The channel is closed when the watch ends.
func WatchFile(ctx context.Context, path string, opts Options) (<-chan struct{}, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger.With().Str("component", "watcher").Str("path", path).Logger()

	dir := filepath.Dir(path)
	file := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watch directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		done    bool
		changes = make(chan struct{}, 1)
	)
	notify := func() {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	d := newDebouncer(opts.Debounce, notify)

	go func() {
		defer func() {
			mu.Lock()
			done = true
			close(changes)
			mu.Unlock()
		}()
		defer func() { _ = w.Close() }()
		defer d.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Base(ev.Name), file) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					log.Debug().Str("op", ev.Op.String()).Msg("file change detected")
					d.Trigger()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				// We may have missed events; reload once to resync.
				log.Warn().Err(err).Msg("watch error")
				d.Trigger()
			}
		}
	}()

	log.Debug().Msg("watch started")
	return changes, nil
}

// debouncer runs fn once after a quiet period following the last Trigger.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
