// Package watcher regenerates wiki navigation when pages change on disk.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/wikitree/internal/pathcodec"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// Refresher rewrites the navigation artifacts and returns how many pages it
// touched.
type Refresher func(ctx context.Context) (int, error)

// EventCallback is called for every relevant change. kind is one of
// "created", "changed", "removed" or "renamed"; path is relative to the wiki
// root and slash-separated.
type EventCallback func(kind, path string)

// RefreshCallback is called after each successful regeneration.
type RefreshCallback func(pages int)

// Watcher watches a wiki directory tree.
type Watcher struct {
	root      string
	debounce  time.Duration
	refresh   Refresher
	logger    *slog.Logger
	onEvent   EventCallback
	onRefresh RefreshCallback
}

// New creates a Watcher over root. A zero debounce selects DefaultDebounce.
func New(root string, debounce time.Duration, refresh Refresher, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{root: root, debounce: debounce, refresh: refresh, logger: logger}
}

// OnEvent registers cb for page changes.
func (w *Watcher) OnEvent(cb EventCallback) { w.onEvent = cb }

// OnRefresh registers cb for completed regenerations.
func (w *Watcher) OnRefresh(cb RefreshCallback) { w.onRefresh = cb }

// Run processes file events until ctx is cancelled. Bursts of events, such as
// the directory renames of a renumbering cascade, collapse into a single
// regeneration once the wiki has been quiet for the debounce period.
// Generated artifacts, hidden entries and temporary files are ignored, so
// regeneration does not trigger itself.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watcher: started", slog.String("root", w.root), slog.Duration("debounce", w.debounce))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-fire:
			w.regenerate(ctx)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.relevant(ev.Name)
			if !ok {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(fw, ev.Name); addErr != nil {
						w.logger.Warn("watcher: add new dir failed",
							slog.String("path", rel),
							slog.String("error", addErr.Error()))
					}
				}
			}

			kind := eventKind(ev.Op)
			if kind == "" {
				continue
			}
			w.logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
			if w.onEvent != nil {
				w.onEvent(kind, rel)
			}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	n, err := w.refresh(ctx)
	if err != nil {
		// A half-finished edit often leaves the tree briefly invalid; the next
		// event retries.
		w.logger.Warn("watcher: regenerate failed", slog.String("error", err.Error()))
		return
	}
	w.logger.Info("watcher: navigation updated", slog.Int("pages", n))
	if w.onRefresh != nil {
		w.onRefresh(n)
	}
}

// relevant reports whether an event on abs can change the tree, and returns
// its slash-separated path relative to the root.
func (w *Watcher) relevant(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") {
			return "", false
		}
	}
	base := filepath.Base(abs)
	if filepath.Ext(base) != "" && !pathcodec.IsPageFile(base) {
		return "", false
	}
	return rel, true
}

func eventKind(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "created"
	case op&fsnotify.Write != 0:
		return "changed"
	case op&fsnotify.Remove != 0:
		return "removed"
	case op&fsnotify.Rename != 0:
		return "renamed"
	}
	return ""
}

// addDirsRecursive watches root and every non-hidden directory below it.
func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
