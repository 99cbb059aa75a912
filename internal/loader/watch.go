package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/hierq/internal/model"
	"github.com/toyz/hierq/internal/utils"
)

// Store holds the current model. Readers always see a complete model; a reload
// swaps it in one step.
type Store struct {
	current atomic.Pointer[Result]
}

// NewStore creates a store holding result
func NewStore(result *Result) *Store {
	s := &Store{}
	s.current.Store(result)
	return s
}

// Current returns the latest loaded model
func (s *Store) Current() *Result {
	return s.current.Load()
}

// Index returns the index of the latest loaded model
func (s *Store) Index() *model.Index {
	return s.current.Load().Index
}

// Replace swaps in a newly loaded model
func (s *Store) Replace(result *Result) {
	s.current.Store(result)
}

// Watcher reloads a Store when model documents change. A reload that fails
// keeps the previous model.
type Watcher struct {
	loader   *Loader
	patterns []string
	store    *Store
	debounce time.Duration
	fsw      *fsnotify.Watcher

	// OnReload is called after every reload attempt
	OnReload func(*Result, error)
}

// NewWatcher watches the directories holding the store's documents and the
// directories named in patterns. Directories created later are not picked up.
func NewWatcher(l *Loader, patterns []string, store *Store, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w := &Watcher{loader: l, patterns: patterns, store: store, debounce: debounce, fsw: fsw}
	for _, dir := range w.directories() {
		if err := fsw.Add(dir); err != nil {
			l.diag.Warn("cannot watch %s: %v", dir, err)
			continue
		}
		l.diag.Debug("watching %s", dir)
	}
	return w, nil
}

func (w *Watcher) directories() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if dir = filepath.Clean(dir); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	if current := w.store.Current(); current != nil {
		for _, file := range current.Files {
			add(filepath.Dir(file))
		}
	}
	for _, pattern := range w.patterns {
		root := strings.TrimSuffix(pattern, "/...")
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			add(root)
		}
	}
	return dirs
}

// Run processes file events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if isModelEvent(event) {
				w.loader.diag.Debug("%s %s", event.Op, event.Name)
				dirty = true
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.loader.diag.Warn("watcher error: %v", err)

		case <-ticker.C:
			if dirty {
				dirty = false
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	w.loader.reader.ClearCache()
	result, err := w.loader.LoadFiles(w.patterns...)
	if err != nil {
		w.loader.diag.Error("reload failed, keeping previous model: %v", err)
	} else {
		w.store.Replace(result)
		w.loader.diag.Info("reloaded %d types", result.Index.Len())
	}
	if w.OnReload != nil {
		w.OnReload(result, err)
	}
}

func isModelEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return utils.IsModelFile(event.Name)
}
