// Package watch reports file changes with fsnotify, coalescing bursts of
// events into a single notification per file.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the default coalescing window for bursts of writes.
const DefaultDelay = 150 * time.Millisecond

// Files watches the given files and calls fn with the cleaned path of each
// file that was written, created or replaced. Bursts of events for the same
// file within delay are coalesced. Files blocks until ctx is done and
// returns nil, or returns the error that prevented watching.
//
// Parent directories are watched rather than the files themselves so that
// editors that save by renaming a temporary file are still observed.
func Files(ctx context.Context, paths []string, delay time.Duration, logger *log.Logger, fn func(path string)) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	wanted := make(map[string]*Debouncer, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		wanted[abs] = NewDebouncer(delay)
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
		logger.Debug("watching directory", "dir", dir)
	}

	// Pending callbacks hold this lock so that none fires after Files returns.
	var mu sync.Mutex
	done := false
	defer func() {
		for _, d := range wanted {
			d.Cancel()
		}
		mu.Lock()
		done = true
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			d, ok := wanted[name]
			if !ok || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file event", "path", name, "op", ev.Op.String())
			d.Trigger(func() {
				mu.Lock()
				defer mu.Unlock()
				if !done {
					fn(name)
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
