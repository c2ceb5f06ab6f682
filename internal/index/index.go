// Package index reconstructs the set of journal days from the files on disk.
package index

import (
	"context"
	"sort"
	"time"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
)

// Source lists store keys, slash separated and relative to the store root.
type Source interface {
	Keys(ctx context.Context) <-chan string
}

// Set is an unordered set of days known to exist on disk.
type Set struct {
	days    map[day.ID]struct{}
	skipped int
}

// Rebuild lists every file of src and keeps the ones whose last three path
// segments form a real date. Anything else is skipped silently.
func Rebuild(ctx context.Context, src Source) Set {
	s := Set{days: make(map[day.ID]struct{})}
	for key := range src.Keys(ctx) {
		id, ok := journal.KeyDay(key)
		if !ok {
			s.skipped++
			continue
		}
		s.days[id] = struct{}{}
	}
	return s
}

// Of builds a Set from ids.
func Of(ids ...day.ID) Set {
	s := Set{days: make(map[day.ID]struct{}, len(ids))}
	for _, id := range ids {
		s.days[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id day.ID) bool {
	_, ok := s.days[id]
	return ok
}

// Len returns the number of days.
func (s Set) Len() int { return len(s.days) }

// Skipped returns how many files Rebuild ignored.
func (s Set) Skipped() int { return s.skipped }

// Sorted returns the days in ascending order.
func (s Set) Sorted() []day.ID {
	out := make([]day.ID, 0, len(s.days))
	for id := range s.days {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Month is one month of a Year with its days in ascending order.
type Month struct {
	Month time.Month
	Days  []day.ID
}

// Label is the three letter English abbreviation of the month.
func (m Month) Label() string {
	return MonthLabel(m.Month)
}

// Year groups the days of one year by month.
type Year struct {
	Year   int
	Months []Month
}

// Group arranges the set by year and month, everything ascending.
func Group(s Set) []Year {
	var years []Year
	for _, id := range s.Sorted() {
		if len(years) == 0 || years[len(years)-1].Year != id.Year {
			years = append(years, Year{Year: id.Year})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != id.Month {
			y.Months = append(y.Months, Month{Month: id.Month})
		}
		m := &y.Months[len(y.Months)-1]
		m.Days = append(m.Days, id)
	}
	return years
}

var monthLabels = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns "Jan" through "Dec". Out of range months yield "".
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthLabels[m-1]
}
