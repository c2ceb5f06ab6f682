package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vinayprograms/dayjot/internal/day"
)

// watchSettle is how long the watcher waits for a burst of file events to end
// before reporting it.
const watchSettle = 150 * time.Millisecond

// Event reports a settled burst of changes under the store root.
type Event struct {
	// Days lists the valid days whose files were created, written, removed or
	// renamed, in arrival order without duplicates.
	Days []day.ID
	// Rescan is set when something other than a day file changed (a new
	// directory, a stray file, a watcher error) and the whole index should be
	// recomputed.
	Rescan bool
}

// Watch streams store changes until ctx is cancelled. The channel is buffered
// and events are dropped when the consumer falls behind; the next event or a
// rebuild catches up. The channel is closed when ctx is done or the watcher
// fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("journal: ensure root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("journal: create watcher: %w", err)
	}

	dirs, err := collectDirs(s.root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("journal: enumerate directories: %w", err)
	}
	watched := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("journal: watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer watcher.Close()

		var (
			pending Event
			seen    = map[day.ID]bool{}
			dirty   bool
			settle  = time.NewTimer(watchSettle)
		)
		settle.Stop()
		defer settle.Stop()

		mark := func() {
			if !dirty {
				dirty = true
				settle.Reset(watchSettle)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-settle.C:
				select {
				case events <- pending:
				default:
				}
				pending, seen, dirty = Event{}, map[day.ID]bool{}, false

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("journal: watcher: %v", err)
				pending.Rescan = true
				mark()

			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}

				if evt.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						if strings.HasPrefix(info.Name(), ".") {
							continue
						}
						for _, dir := range dirsUnder(evt.Name) {
							if watched[dir] {
								continue
							}
							if err := watcher.Add(dir); err != nil {
								log.Printf("journal: watch %s: %v", dir, err)
								continue
							}
							watched[dir] = true
						}
						pending.Rescan = true
						mark()
						continue
					}
				}

				id, ok := s.dayForPath(evt.Name)
				if !ok {
					pending.Rescan = true
				} else if !seen[id] {
					seen[id] = true
					pending.Days = append(pending.Days, id)
				}
				mark()
			}
		}
	}()

	return events, nil
}

// dayForPath maps an absolute file path under the root back to its day.
func (s *Store) dayForPath(path string) (day.ID, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return day.ID{}, false
	}
	return KeyDay(filepath.ToSlash(rel))
}

// KeyDay parses the final three segments of a store key as year, month and day.
func KeyDay(key string) (day.ID, bool) {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return day.ID{}, false
	}
	n := len(parts)
	return day.FromSegments(parts[n-3], parts[n-2], parts[n-1])
}

// collectDirs returns base and every directory below it, skipping dot
// directories.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() || path == base {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func dirsUnder(base string) []string {
	dirs, err := collectDirs(base)
	if err != nil {
		log.Printf("journal: enumerate %s: %v", base, err)
	}
	return dirs
}
