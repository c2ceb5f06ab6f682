package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vinayprograms/dayjot/internal/day"
)

// Kind classifies store failures.
type Kind int

const (
	// IOFailure covers disk full, transient OS errors and anything unclassified.
	IOFailure Kind = iota
	// NotFound means the day has no file yet. Expected, not a fault.
	NotFound
	// PermissionDenied means the OS refused access to the file or its directory.
	PermissionDenied
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	default:
		return "i/o failure"
	}
}

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrNotFound         = errors.New("journal: day not found")
	ErrPermissionDenied = errors.New("journal: permission denied")
	ErrIOFailure        = errors.New("journal: i/o failure")
)

// Error is returned by every Store operation that touches the disk.
type Error struct {
	Op   string
	Day  day.ID
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Day, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) and friends match by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrPermissionDenied:
		return e.Kind == PermissionDenied
	case ErrIOFailure:
		return e.Kind == IOFailure
	}
	return false
}

// KindOf returns the Kind of err, IOFailure for foreign errors.
func KindOf(err error) Kind {
	var je *Error
	if errors.As(err, &je) {
		return je.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	}
	return IOFailure
}

func wrap(op string, id day.ID, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Day: id, Kind: classify(err), Err: err}
}

// probeWrite classifies a write failure that reached us as a flattened string.
// diskv formats its errors with %s, so the OS error chain is gone by the time
// Write returns; probing the target tells us what the OS actually refused.
func probeWrite(op string, id day.ID, path string, err error) error {
	kind := classify(err)
	if kind == IOFailure && writeDenied(path) {
		kind = PermissionDenied
	}
	return &Error{Op: op, Day: id, Kind: kind, Err: err}
}

func writeDenied(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err == nil {
		f.Close()
		return false
	}
	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".probe-*")
	if err != nil {
		return errors.Is(err, fs.ErrPermission)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return false
}
