// Package update checks a release directory for a newer dayjot, stages it
// next to the running executable and swaps it in on request.
package update

import (
	"context"
	"sync"
)

// State is the progress of the update worker.
type State int

const (
	Checking State = iota
	Unavailable
	UpdateAvailable
	Downloading
	Downloaded
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Unavailable:
		return "unavailable"
	case UpdateAvailable:
		return "update-available"
	case Downloading:
		return "downloading"
	case Downloaded:
		return "downloaded"
	}
	return "unknown"
}

// Status is a consistent snapshot of a Cell.
type Status struct {
	State State
	// Version is the release the worker found, empty until then.
	Version string
	// Err is why the worker settled on Unavailable, if it failed.
	Err error
}

// Cell publishes the worker's status. The worker writes, everyone else reads;
// reads never wait on the worker.
type Cell struct {
	mu     sync.Mutex
	cond   *sync.Cond
	status Status
}

// NewCell returns a Cell in the Checking state.
func NewCell() *Cell {
	c := &Cell{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// State returns the current state.
func (c *Cell) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.State
}

// Snapshot returns the full current status.
func (c *Cell) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Set replaces the status and wakes every waiter.
func (c *Cell) Set(st Status) {
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Wait blocks until done accepts the state or ctx ends. It is meant for the
// CLI and tests; the editor only ever calls State.
func (c *Cell) Wait(ctx context.Context, done func(State) bool) (State, error) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for !done(c.status.State) {
		if err := ctx.Err(); err != nil {
			return c.status.State, err
		}
		c.cond.Wait()
	}
	return c.status.State, nil
}

// Settled reports whether the worker has nothing left to do.
func Settled(s State) bool {
	return s == Unavailable || s == Downloaded
}
