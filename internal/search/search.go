// Package search reads many days at once: it lists task lines and finds text
// across the journal.
package search

import (
	"context"
	"strings"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/index"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/parallel"
	"github.com/vinayprograms/dayjot/internal/task"
)

// Range limits a search to From..To inclusive. A zero bound is open.
type Range struct {
	From day.ID
	To   day.ID
}

// Contains reports whether id is within r.
func (r Range) Contains(id day.ID) bool {
	if !r.From.IsZero() && id.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && r.To.Before(id) {
		return false
	}
	return true
}

// TaskHit is a task line on a day.
type TaskHit struct {
	Day day.ID
	task.Item
}

// Hit is a line containing the search pattern.
type Hit struct {
	Day day.ID
	// Line is 1-based.
	Line int
	Text string
}

// Days returns the days on disk within r, oldest first.
func Days(ctx context.Context, store *journal.Store, r Range) []day.ID {
	return parallel.Collect(ctx, index.Rebuild(ctx, store).Sorted(), func(id day.ID) (day.ID, bool) {
		return id, r.Contains(id)
	})
}

// Tasks scans every day within r and returns its task lines, oldest day first.
// With markers given, only tasks with one of those markers are kept. Days that
// fail to load are skipped and their errors joined into err.
func Tasks(ctx context.Context, store *journal.Store, r Range, markers ...task.Marker) ([]TaskHit, error) {
	perDay, err := parallel.ProcessWithErrors(ctx, Days(ctx, store, r), func(_ context.Context, id day.ID) ([]TaskHit, error) {
		text, err := store.Load(id)
		if err != nil {
			return nil, err
		}
		items := task.Scan(text)
		if len(markers) > 0 {
			items = task.Filter(items, markers...)
		}
		hits := make([]TaskHit, 0, len(items))
		for _, it := range items {
			hits = append(hits, TaskHit{Day: id, Item: it})
		}
		return hits, nil
	})
	return flatten(perDay), err
}

// Text returns the lines containing pattern, case-insensitively, oldest day
// first. An empty pattern matches nothing.
func Text(ctx context.Context, store *journal.Store, r Range, pattern string) ([]Hit, error) {
	if pattern == "" {
		return nil, nil
	}
	needle := strings.ToLower(pattern)

	perDay, err := parallel.ProcessWithErrors(ctx, Days(ctx, store, r), func(_ context.Context, id day.ID) ([]Hit, error) {
		text, err := store.Load(id)
		if err != nil {
			return nil, err
		}
		var hits []Hit
		for i, line := range strings.Split(text, "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				hits = append(hits, Hit{Day: id, Line: i + 1, Text: strings.TrimRight(line, "\r")})
			}
		}
		return hits, nil
	})
	return flatten(perDay), err
}

func flatten[T any](groups [][]T) []T {
	var out []T
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
