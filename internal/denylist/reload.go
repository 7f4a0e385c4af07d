package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce waits after the last write before reloading, so editors
// that write in several chunks trigger one reload, not many.
const reloadDebounce = 500 * time.Millisecond

// Reloader watches a denylist YAML file and hot-swaps the pattern set on
// change. The governed call path keeps using the same *Denylist; only its
// substring set is replaced.
type Reloader struct {
	watcher *fsnotify.Watcher
	dl      *Denylist
	path    string
}

// NewReloader creates a file watcher for the given denylist file.
func NewReloader(dl *Denylist, path string) (*Reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}
	return &Reloader{watcher: watcher, dl: dl, path: path}, nil
}

// Run watches for file changes and reloads patterns. Blocks until ctx is
// cancelled. A reload that fails to parse leaves the current patterns in
// place.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			}

		case <-reload:
			next, err := Load(r.path)
			if err != nil {
				continue
			}
			r.dl.Replace(trimDefaults(next.Substrings()))

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// trimDefaults strips the built-in prefix from a loaded substring set so
// Replace does not duplicate the defaults.
func trimDefaults(all []string) []string {
	if len(all) >= len(defaultSubstrings) {
		return all[len(defaultSubstrings):]
	}
	return nil
}
