// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of write events (editors, atomic renames).
const DefaultWatchDebounce = 250 * time.Millisecond

// =============================================================================
// FILE WATCHER
// =============================================================================

// Watcher calls OnChange whenever a watched key of a FileStore is rewritten
// outside this process, e.g. a hand-edited provider list.
//
// The directory is watched rather than the file because atomic renames
// replace the inode.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	onChange func(key string)
	logger   *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	muted   map[string]time.Time
	closeMu sync.Once
	done    chan struct{}
}

// NewWatcher creates a watcher for the given keys in store.
func NewWatcher(store *FileStore, keys []string, onChange func(key string), logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	names := make(map[string]bool, len(keys))
	for _, k := range keys {
		names[k] = true
	}

	return &Watcher{
		watcher:  fw,
		dir:      store.Dir,
		names:    names,
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		muted:    make(map[string]time.Time),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Mute suppresses change notifications for key for the next window. The
// process calls this before writing the key itself so its own saves are not
// reported back as external edits.
func (w *Watcher) Mute(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.muted[key] = time.Now().Add(w.debounce * 4)
}

// Start begins watching until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeMu.Do(func() {
		close(w.done)
		err = w.watcher.Close()

		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			key := filepath.Base(event.Name)
			if w.names[key] {
				w.schedule(key)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("storage watcher error", "error", err)
		}
	}
}

// schedule fires onChange once the key has been quiet for the debounce window.
func (w *Watcher) schedule(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if until, ok := w.muted[key]; ok {
		if time.Now().Before(until) {
			return
		}
		delete(w.muted, key)
	}

	if t, ok := w.timers[key]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[key] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, key)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.logger.Info("stored collection changed on disk", "key", key)
		w.onChange(key)
	})
}
