package gen

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

const debouncePeriod = 500 * time.Millisecond

// watch calls fn after changes to any of paths settle, until ctx is done.
// Directories are watched rather than files so editors that save by renaming a
// temporary file over the original are still seen.
func watch(ctx context.Context, logger *slog.Logger, paths []string, fn func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer fw.Close()

	d, err := newDebouncer(paths, debouncePeriod, fn)
	if err != nil {
		return err
	}
	defer d.stop()
	for _, dir := range d.dirs() {
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if d.handle(event) {
				logger.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

// debouncer coalesces bursts of events on a set of files into one call of fn.
// Calls of fn never overlap.
type debouncer struct {
	files  map[string]bool
	period time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	running sync.Mutex
}

func newDebouncer(paths []string, period time.Duration, fn func()) (*debouncer, error) {
	d := &debouncer{files: make(map[string]bool, len(paths)), period: period, fn: fn}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		d.files[abs] = true
	}
	return d, nil
}

func (d *debouncer) dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range d.files {
		if dir := filepath.Dir(f); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// handle schedules fn if event touches a watched file, and reports whether it did.
func (d *debouncer) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || !d.files[abs] {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.period, d.fire)
	return true
}

func (d *debouncer) fire() {
	d.running.Lock()
	defer d.running.Unlock()
	d.fn()
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
