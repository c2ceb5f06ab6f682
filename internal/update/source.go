package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoSource means no release location is configured.
var ErrNoSource = errors.New("update: no release source configured")

// Release is a published version.
type Release struct {
	Version string
}

// Source is where releases come from.
type Source interface {
	// Latest returns the newest published release.
	Latest(ctx context.Context) (Release, error)
	// Fetch writes the release binary to w.
	Fetch(ctx context.Context, r Release, w io.Writer) error
}

// DirSource reads releases from a directory holding a VERSION file and the
// dayjot binary, the layout a release job copies to a shared drive.
type DirSource struct {
	Dir string
}

// BinaryName is the executable name looked up in a release directory.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "dayjot.exe"
	}
	return "dayjot"
}

func (d DirSource) Latest(ctx context.Context) (Release, error) {
	if d.Dir == "" {
		return Release{}, ErrNoSource
	}
	b, err := os.ReadFile(filepath.Join(d.Dir, "VERSION"))
	if err != nil {
		return Release{}, fmt.Errorf("update: read version: %w", err)
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return Release{}, errors.New("update: empty VERSION file")
	}
	return Release{Version: v}, nil
}

func (d DirSource) Fetch(ctx context.Context, r Release, w io.Writer) error {
	f, err := os.Open(filepath.Join(d.Dir, BinaryName()))
	if err != nil {
		return fmt.Errorf("update: open release binary: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("update: copy release binary: %w", err)
	}
	return ctx.Err()
}
