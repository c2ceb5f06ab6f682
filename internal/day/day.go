// Package day identifies journal buffers by calendar date.
package day

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ID is one calendar day in the local calendar. The zero value is not a valid day.
type ID struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the ID for year/month/day. ok is false when the combination is not
// a real calendar date (month 13, February 30, ...).
func New(year int, month time.Month, dayOfMonth int) (ID, bool) {
	if month < time.January || month > time.December || dayOfMonth < 1 {
		return ID{}, false
	}
	t := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.Local)
	if t.Year() != year || t.Month() != month || t.Day() != dayOfMonth {
		return ID{}, false
	}
	return ID{Year: year, Month: month, Day: dayOfMonth}, true
}

// FromTime returns the local calendar date of t.
func FromTime(t time.Time) ID {
	t = t.In(time.Local)
	return ID{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the ID for the current local date.
func Today() ID {
	return FromTime(time.Now())
}

// Yesterday returns the ID for the day before today.
func Yesterday() ID {
	return Today().Prev()
}

// Time returns local midnight of the day.
func (id ID) Time() time.Time {
	return time.Date(id.Year, id.Month, id.Day, 0, 0, 0, 0, time.Local)
}

// Prev returns the day before id.
func (id ID) Prev() ID {
	return id.AddDays(-1)
}

// Next returns the day after id.
func (id ID) Next() ID {
	return id.AddDays(1)
}

// AddDays moves id by n calendar days.
func (id ID) AddDays(n int) ID {
	return FromTime(id.Time().AddDate(0, 0, n))
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Compare returns -1, 0 or +1 depending on whether id is before, equal to or
// after other.
func (id ID) Compare(other ID) int {
	switch {
	case id.Year != other.Year:
		return cmpInt(id.Year, other.Year)
	case id.Month != other.Month:
		return cmpInt(int(id.Month), int(other.Month))
	default:
		return cmpInt(id.Day, other.Day)
	}
}

// Before reports whether id is strictly before other.
func (id ID) Before(other ID) bool {
	return id.Compare(other) < 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Segments returns the year, month and day as unpadded decimal strings.
func (id ID) Segments() []string {
	return []string{
		strconv.Itoa(id.Year),
		strconv.Itoa(int(id.Month)),
		strconv.Itoa(id.Day),
	}
}

// Path returns the relative storage path year/month/day using the OS separator,
// e.g. 2024/3/7.
func (id ID) Path() string {
	return filepath.Join(id.Segments()...)
}

// Key returns the storage key, which is Path joined with forward slashes on
// every platform.
func (id ID) Key() string {
	return strings.Join(id.Segments(), "/")
}

// String formats the id as an ISO date.
func (id ID) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", id.Year, int(id.Month), id.Day)
}

// FromSegments builds an ID from year, month and day path segments. It is the
// inverse of Segments and accepts padded numbers too.
func FromSegments(year, month, dayOfMonth string) (ID, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ID{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ID{}, false
	}
	d, err := strconv.Atoi(dayOfMonth)
	if err != nil {
		return ID{}, false
	}
	return New(y, time.Month(m), d)
}

// Parse reads a day reference as typed on the command line relative to today:
// "today", "yesterday", "-N" (N days ago) or an ISO date.
func Parse(s string, today ID) (ID, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.Prev(), nil
	}

	if strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return ID{}, fmt.Errorf("invalid relative day %q", s)
		}
		return today.AddDays(-n), nil
	}

	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return ID{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, yesterday or -N)", s)
	}
	return FromTime(t), nil
}
