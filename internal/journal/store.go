// Package journal persists one plain-text buffer per day under
// {root}/{year}/{month}/{day}.
package journal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gap "github.com/muesli/go-app-paths"
	"github.com/peterbourgon/diskv/v3"

	"github.com/vinayprograms/dayjot/internal/day"
)

// DefaultFallbackDays bounds how far back Resolve looks for a day to seed from.
const DefaultFallbackDays = 14

// Store reads and writes day files. Content is stored verbatim, no header.
type Store struct {
	root         string
	d            *diskv.Diskv
	fallbackDays int
}

// Option configures a Store.
type Option func(*Store)

// WithFallbackDays sets how many days before today Resolve checks. Values below
// zero are treated as zero.
func WithFallbackDays(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.fallbackDays = n
	}
}

// DefaultRoot returns the platform per-user data directory for dayjot.
func DefaultRoot() (string, error) {
	return gap.NewScope(gap.User, "dayjot").DataPath("")
}

// Open returns a Store rooted at root. The directory is created lazily on the
// first save.
func Open(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, errors.New("journal: root directory not set")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	s := &Store{root: abs, fallbackDays: DefaultFallbackDays}
	for _, opt := range opts {
		opt(s)
	}

	s.d = diskv.New(diskv.Options{
		BasePath:          abs,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		PathPerm:          0o755,
		FilePerm:          0o644,
	})
	return s, nil
}

// keyToPath maps "2024/3/7" to directory 2024/3 and file 7.
func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	parts := make([]string, 0, len(pk.Path)+1)
	for _, p := range pk.Path {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(append(parts, pk.FileName), "/")
}

// Root returns the absolute store directory.
func (s *Store) Root() string {
	return s.root
}

// FallbackDays returns the configured fallback window.
func (s *Store) FallbackDays() int {
	return s.fallbackDays
}

// PathFor returns the absolute file path of a day.
func (s *Store) PathFor(id day.ID) string {
	return filepath.Join(s.root, id.Path())
}

// Has reports whether the day's file exists.
func (s *Store) Has(id day.ID) bool {
	return s.d.Has(id.Key())
}

// Load returns the full content of a day.
func (s *Store) Load(id day.ID) (string, error) {
	b, err := s.d.Read(id.Key())
	if err != nil {
		return "", wrap("load", id, err)
	}
	return string(b), nil
}

// Save creates the day's parent directories and overwrites the file with text.
// A crash mid-write can leave a truncated file.
func (s *Store) Save(id day.ID, text string) error {
	path := s.PathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrap("save", id, err)
	}
	if err := s.d.WriteString(id.Key(), text); err != nil {
		return probeWrite("save", id, path, err)
	}
	return nil
}

// Keys streams the key of every regular file under the root, valid day or not.
// Dot directories (.git when auto-commit is on) are pruned and unreadable
// directories are skipped. The stream ends when the walk finishes or ctx is done.
func (s *Store) Keys(ctx context.Context) <-chan string {
	keys := make(chan string)
	go func() {
		defer close(keys)
		filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != s.root {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != s.root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				return nil
			}
			select {
			case keys <- filepath.ToSlash(rel):
				return nil
			case <-ctx.Done():
				return filepath.SkipAll
			}
		})
	}()
	return keys
}

// Resolution describes how Resolve produced today's buffer.
type Resolution struct {
	Day  day.ID
	Text string
	// From is the day the text was loaded from; zero when today starts empty.
	From day.ID
	// Seeded is set when the text was copied from an earlier day.
	Seeded bool
	// Persisted is set when today's file exists on disk after Resolve.
	Persisted bool
}

// Resolve loads today's buffer. When today has no file yet, the nearest earlier
// day within the fallback window is copied into today and saved immediately.
// With nothing to copy, today starts empty and is not written until the first
// save. The returned Resolution is usable even when err is non-nil.
func (s *Store) Resolve(today day.ID) (Resolution, error) {
	res := Resolution{Day: today}

	if s.Has(today) {
		res.Persisted = true
		text, err := s.Load(today)
		if err != nil {
			return res, err
		}
		res.Text, res.From = text, today
		return res, nil
	}

	prev, ok := s.LatestBefore(today)
	if !ok {
		return res, nil
	}

	text, err := s.Load(prev)
	if err != nil {
		return res, err
	}
	res.Text, res.From, res.Seeded = text, prev, true

	if err := s.Save(today, text); err != nil {
		return res, err
	}
	res.Persisted = true
	return res, nil
}

// LatestBefore walks back from id one day at a time, at most FallbackDays
// steps, and returns the first day that has a file.
func (s *Store) LatestBefore(id day.ID) (day.ID, bool) {
	cur := id
	for i := 0; i < s.fallbackDays; i++ {
		cur = cur.Prev()
		if s.Has(cur) {
			return cur, true
		}
	}
	return day.ID{}, false
}
