// Package git commits saved journal days to a git repository.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FindRepoRoot finds the root of the git repository containing the given path
func FindRepoRoot(path string) (string, error) {
	// Walk up the directory tree looking for .git
	current := path
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		gitDir := filepath.Join(current, ".git")
		if _, err := os.Stat(gitDir); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			return "", os.ErrNotExist
		}
		current = parent
	}
}

// Committer records day files in the repository that holds the journal.
type Committer struct {
	root string
	repo *git.Repository
	push bool
}

// Open returns a Committer for the repository containing dir. When dir is not
// inside a repository one is initialized at dir.
func Open(dir string, push bool) (*Committer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	root, err := FindRepoRoot(dir)
	var repo *git.Repository
	if err != nil {
		root = dir
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("git init %s: %w", dir, err)
		}
	} else {
		repo, err = git.PlainOpen(root)
		if err != nil {
			return nil, fmt.Errorf("git open %s: %w", root, err)
		}
	}

	return &Committer{root: root, repo: repo, push: push}, nil
}

// Root returns the repository root.
func (c *Committer) Root() string { return c.root }

// CommitFile stages filePath and commits it with message. It does nothing when
// the file has no changes. If push is enabled and remotes exist, it pushes too.
func (c *Committer) CommitFile(filePath, message string) error {
	w, err := c.repo.Worktree()
	if err != nil {
		return err
	}

	relPath, err := filepath.Rel(c.root, filePath)
	if err != nil {
		return err
	}
	relPath = filepath.ToSlash(relPath)

	if _, err := w.Add(relPath); err != nil {
		return err
	}

	status, err := w.Status()
	if err != nil {
		return err
	}
	switch status.File(relPath).Staging {
	case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
	default:
		return nil
	}

	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "dayjot",
			Email: "dayjot@local",
			When:  time.Now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return nil
	}
	if err != nil {
		return err
	}

	if !c.push {
		return nil
	}

	// Check for remotes
	remotes, err := c.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return nil
	}

	err = c.repo.Push(&git.PushOptions{})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return err
	}
	return nil
}
