package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before reloading.
const DefaultDebounce = 100 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	onError  func(err error)
}

// WatchOption is a functional option for Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets the quiet period before a reload. Values <= 0 reload on every event.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// WithOnError sets a callback receiving reload and watcher errors, in addition to the log.
func WithOnError(fn func(err error)) WatchOption {
	return func(o *watchOptions) {
		o.onError = fn
	}
}

// Watch reloads path whenever it changes and hands every config that loads cleanly to fn.
// The parent directory is watched so editors that save by renaming over the file are seen.
// A file that fails to load is logged and skipped; the previous config stays in effect.
// fn runs on the watching goroutine and must not touch scene state directly.
//
// Parameters:
//   - ctx: stops the watch when cancelled
//   - path: the config file
//   - fn: receives each reloaded config
//   - options: variadic WatchOption functions
//
// Returns:
//   - error: an error if the watcher could not start, otherwise ctx.Err() on return
func Watch(ctx context.Context, path string, fn func(Config), options ...WatchOption) error {
	o := watchOptions{debounce: DefaultDebounce}
	for _, opt := range options {
		opt(&o)
	}
	report := func(err error) {
		log.Printf("[Config] %v", err)
		if o.onError != nil {
			o.onError(err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	reload := make(chan struct{}, 1)
	signal := func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	}
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return ctx.Err()
			}
			if filepath.Clean(event.Name) != abs || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}
			if o.debounce <= 0 {
				signal()
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(o.debounce, signal)
			} else {
				timer.Reset(o.debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return ctx.Err()
			}
			report(fmt.Errorf("watch %s: %w", path, err))

		case <-reload:
			c, err := Load(path)
			if err != nil {
				report(fmt.Errorf("reload %s: %w", path, err))
				continue
			}
			log.Printf("[Config] reloaded %s", path)
			fn(c)
		}
	}
}
