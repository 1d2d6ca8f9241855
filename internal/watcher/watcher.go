// Package watcher re-ingests course documents as they appear on disk.
// It watches the docs directory and feeds new or rewritten .txt files to
// the ingest service, so dropping a script file into the folder is enough
// to make the course searchable.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// debounceDelay coalesces the burst of write events an editor produces
// while saving a file.
const debounceDelay = 500 * time.Millisecond

// Watcher watches a docs directory and ingests changed course files.
type Watcher struct {
	ingest driving.IngestService
	dir    string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for the given docs directory.
func New(ingest driving.IngestService, dir string) *Watcher {
	return &Watcher{
		ingest: ingest,
		dir:    dir,
		timers: make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}

	logger.Info("Watching %s for course documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".txt") {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer for one file.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(debounceDelay, func() {
		w.ingestFile(ctx, path)
	})
}

// ingestFile runs one debounced ingestion.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	added, err := w.ingest.IngestFile(ctx, path)
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", filepath.Base(path), err)
		return
	}
	if added {
		logger.Info("Ingested new course from %s", filepath.Base(path))
	}
}
