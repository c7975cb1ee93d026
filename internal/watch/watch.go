// Package watch turns file system activity in a folder into upload batches.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SubmitFunc receives one coalesced batch of file paths.
type SubmitFunc func(ctx context.Context, paths []string)

// Watcher monitors one directory and submits created or modified files
// once the directory has been quiet for the debounce interval.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
}

// New creates a watcher. An empty extension list accepts every file.
func New(extensions []string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Watcher{watcher: w, extensions: exts, debounce: debounce}, nil
}

// Run watches dir until ctx is done or the watcher is closed. submit is called
// from Run's goroutine, so a slow upload delays the next batch instead of
// overlapping it.
func (w *Watcher) Run(ctx context.Context, dir string, submit SubmitFunc) error {
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	pending := newBatch()
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.accepts(event) {
				continue
			}
			pending.add(event.Name)
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watch error on %s: %v", dir, err)
		case <-timer.C:
			if paths := pending.flush(); len(paths) > 0 {
				submit(ctx, paths)
			}
		}
	}
}

// Close stops the underlying watcher; a running Run returns nil.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) accepts(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	// editor swap files and partial downloads
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(base))]
}

// batch collects distinct paths between flushes.
type batch struct {
	paths map[string]struct{}
}

func newBatch() *batch {
	return &batch{paths: make(map[string]struct{})}
}

func (b *batch) add(path string) {
	b.paths[path] = struct{}{}
}

// flush returns the sorted paths that still name regular files and resets the batch.
func (b *batch) flush() []string {
	out := make([]string, 0, len(b.paths))
	for p := range b.paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	b.paths = make(map[string]struct{})
	sort.Strings(out)
	return out
}
