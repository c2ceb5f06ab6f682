package update

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrNotReady is returned by Apply before a release has been downloaded.
var ErrNotReady = errors.New("update: no downloaded release to apply")

// Service runs the check/download worker and applies its result.
type Service struct {
	cell    *Cell
	src     Source
	current string
	exe     string
	staged  string
	applied bool
}

// Option configures a Service.
type Option func(*Service)

// WithExecutable overrides the path of the binary that Apply replaces.
func WithExecutable(path string) Option {
	return func(s *Service) { s.exe = path }
}

// NewService returns a service for the running version. src may be nil, in
// which case the worker settles on Unavailable.
func NewService(current string, src Source, opts ...Option) *Service {
	s := &Service{cell: NewCell(), src: src, current: current}
	for _, opt := range opts {
		opt(s)
	}
	if s.exe == "" {
		if exe, err := os.Executable(); err == nil {
			s.exe = exe
		}
	}
	return s
}

// Cell exposes the status cell.
func (s *Service) Cell() *Cell { return s.cell }

// State returns the worker state without blocking.
func (s *Service) State() State { return s.cell.State() }

// Start runs the worker in its own goroutine.
func (s *Service) Start(ctx context.Context) {
	go func() {
		if err := s.Run(ctx); err != nil && !errors.Is(err, ErrNoSource) {
			log.Printf("update: %v", err)
		}
	}()
}

// Run checks for a newer release and stages it. Every outcome is published to
// the cell; the returned error is for logging only.
func (s *Service) Run(ctx context.Context) error {
	s.cell.Set(Status{State: Checking})

	fail := func(err error) error {
		s.cell.Set(Status{State: Unavailable, Err: err})
		return err
	}

	if s.src == nil {
		return fail(ErrNoSource)
	}
	rel, err := s.src.Latest(ctx)
	if err != nil {
		return fail(err)
	}

	newer, err := Newer(rel.Version, s.current)
	if err != nil {
		return fail(err)
	}
	if !newer {
		s.cell.Set(Status{State: Unavailable, Version: rel.Version})
		return nil
	}
	s.cell.Set(Status{State: UpdateAvailable, Version: rel.Version})

	if s.exe == "" {
		return fail(errors.New("update: running executable unknown"))
	}
	s.cell.Set(Status{State: Downloading, Version: rel.Version})

	staged, err := s.stage(ctx, rel)
	if err != nil {
		return fail(err)
	}
	s.staged = staged
	s.cell.Set(Status{State: Downloaded, Version: rel.Version})
	return nil
}

// stage downloads rel into a temporary file beside the executable so the
// final rename stays on one filesystem.
func (s *Service) stage(ctx context.Context, rel Release) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(s.exe), ".dayjot-update-*")
	if err != nil {
		return "", fmt.Errorf("update: stage: %w", err)
	}
	name := f.Name()

	if err := s.src.Fetch(ctx, rel, f); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("update: stage: %w", err)
	}
	if err := os.Chmod(name, 0o755); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("update: stage: %w", err)
	}
	return name, nil
}

// Apply swaps the downloaded binary in place of the running one. It only does
// anything in the Downloaded state. The caller relaunches with Relaunch once
// it has shut down.
func (s *Service) Apply() error {
	if s.cell.State() != Downloaded || s.staged == "" {
		return ErrNotReady
	}
	if err := os.Rename(s.staged, s.exe); err != nil {
		return fmt.Errorf("update: replace executable: %w", err)
	}
	s.applied = true
	return nil
}

// Applied reports whether Apply replaced the executable.
func (s *Service) Applied() bool { return s.applied }

// Relaunch runs the replaced executable with args on the current terminal
// and returns its exit error.
func (s *Service) Relaunch(args []string) error {
	cmd := exec.Command(s.exe, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Newer reports whether version a is greater than b. A leading "v" is
// optional on both.
func Newer(a, b string) (bool, error) {
	va, vb := canonical(a), canonical(b)
	if !semver.IsValid(va) {
		return false, fmt.Errorf("update: invalid version %q", a)
	}
	if !semver.IsValid(vb) {
		return false, fmt.Errorf("update: invalid version %q", b)
	}
	return semver.Compare(va, vb) > 0, nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
