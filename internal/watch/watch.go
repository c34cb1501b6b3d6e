// Package watch re-runs folders whose page-text files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a folder must stay quiet before it is handled.
const DefaultDebounce = 2 * time.Second

// Handler is called once per settled folder.
type Handler func(ctx context.Context, folder string)

// Watcher watches a directory tree and reports folders whose files with the
// given extension were created, written, removed or renamed.
type Watcher struct {
	root     string
	ext      string
	debounce time.Duration
	tick     time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	// folder -> time of its last event
	pending map[string]time.Time
}

// Config configures a Watcher.
type Config struct {
	Root     string
	Ext      string        // e.g. ".xml", compared case-insensitively
	Debounce time.Duration // default: DefaultDebounce
	Logger   *slog.Logger
}

// New creates a Watcher over every directory below cfg.Root.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("watch: root is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		root:     cfg.Root,
		ext:      cfg.Ext,
		debounce: cfg.Debounce,
		tick:     min(100*time.Millisecond, cfg.Debounce),
		logger:   cfg.Logger,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
	}
	if _, err := w.addTree(cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and its subdirectories, returning the folders that
// already hold matching files.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if w.matches(path) {
			found = append(found, filepath.Dir(path))
		}
		return nil
	})
	return found, err
}

func (w *Watcher) matches(path string) bool {
	return w.ext == "" || strings.EqualFold(filepath.Ext(path), w.ext)
}

// Run delivers settled folders to handle until ctx is done. Handlers run on
// the Run goroutine, so a folder is never handled twice concurrently.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	w.logger.Info("watching for changes", "root", w.root, "ext", w.ext, "debounce", w.debounce)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			for _, folder := range w.settled(time.Now()) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				handle(ctx, folder)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			found, err := w.addTree(event.Name)
			if err != nil {
				w.logger.Warn("failed to watch new folder", "folder", event.Name, "error", err)
			}
			for _, f := range found {
				w.pending[f] = time.Now()
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}
	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
	w.pending[filepath.Dir(event.Name)] = time.Now()
}

// settled removes and returns, sorted, the folders quiet for the debounce.
func (w *Watcher) settled(now time.Time) []string {
	var out []string
	for folder, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			out = append(out, folder)
			delete(w.pending, folder)
		}
	}
	sort.Strings(out)
	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
