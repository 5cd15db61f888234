package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the config when the file changes on disk. It watches the
// parent directory rather than the file itself, so editors that replace the
// file by rename keep being observed.
type Watcher struct {
	fs     *fsnotify.Watcher
	path   string
	reload func(*Config)

	// Debounce is how long the file must stay quiet before a reload.
	// Set before Run; defaults to 500ms.
	Debounce time.Duration
}

// NewWatcher creates a watcher for the given config path. The reload
// callback receives the freshly loaded config after each settled change.
func NewWatcher(path string, reload func(*Config)) (*Watcher, error) {
	if path == "" {
		path = DefaultPath()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %q: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("config: cannot watch %q: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("config: failed to watch %q: %w", path, err)
	}

	return &Watcher{fs: fs, path: abs, reload: reload, Debounce: defaultDebounce}, nil
}

// Run blocks until ctx is cancelled, reloading the config once writes to it
// have settled for the debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	// Starts stopped; only a matching filesystem event arms it.
	quiet := time.NewTimer(w.Debounce)
	if !quiet.Stop() {
		<-quiet.C
	}
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-quiet.C:
			cfg, err := Load(w.path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "config reload failed: %v\n", err)
				continue
			}
			w.reload(cfg)
			fmt.Fprintf(os.Stderr, "config reloaded from %s\n", w.path)

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !quiet.Stop() {
				select {
				case <-quiet.C:
				default:
				}
			}
			quiet.Reset(w.Debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "config watcher error: %v\n", err)
		}
	}
}
