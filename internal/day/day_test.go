package day

import (
	"path/filepath"
	"testing"
	"time"
)

func mustNew(t *testing.T, y int, m time.Month, d int) ID {
	t.Helper()
	id, ok := New(y, m, d)
	if !ok {
		t.Fatalf("Expected New(%d, %d, %d) to be valid", y, m, d)
	}
	return id
}

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		ok    bool
	}{
		{"regular date", 2024, time.March, 7, true},
		{"leap day", 2024, time.February, 29, true},
		{"non leap year", 2023, time.February, 29, false},
		{"month 13", 2024, 13, 2, false},
		{"month zero", 2024, 0, 2, false},
		{"day zero", 2024, time.March, 0, false},
		{"april 31", 2024, time.April, 31, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := New(tt.year, tt.month, tt.day)
			if ok != tt.ok {
				t.Errorf("Expected New(%d, %d, %d) ok %v, got %v", tt.year, tt.month, tt.day, tt.ok, ok)
			}
		})
	}
}

func TestPathUsesUnpaddedSegments(t *testing.T) {
	id := mustNew(t, 2024, time.March, 7)

	if got, want := id.Path(), filepath.Join("2024", "3", "7"); got != want {
		t.Errorf("Expected Path() %q, got %q", want, got)
	}
	if got, want := id.Key(), "2024/3/7"; got != want {
		t.Errorf("Expected Key() %q, got %q", want, got)
	}
	if got, want := id.String(), "2024-03-07"; got != want {
		t.Errorf("Expected String() %q, got %q", want, got)
	}
}

func TestPrevCrossesBoundaries(t *testing.T) {
	tests := []struct {
		from ID
		want ID
	}{
		{ID{2024, time.March, 1}, ID{2024, time.February, 29}},
		{ID{2024, time.January, 1}, ID{2023, time.December, 31}},
		{ID{2023, time.March, 1}, ID{2023, time.February, 28}},
		{ID{2024, time.March, 31}, ID{2024, time.March, 30}},
	}

	for _, tt := range tests {
		if got := tt.from.Prev(); got != tt.want {
			t.Errorf("Expected %s.Prev() %s, got %s", tt.from, tt.want, got)
		}
		if got := tt.want.Next(); got != tt.from {
			t.Errorf("Expected %s.Next() %s, got %s", tt.want, tt.from, got)
		}
	}
}

func TestYesterdayIsTodayPrev(t *testing.T) {
	today := Today()
	yesterday := Yesterday()
	// Guard against running across midnight.
	if Today() != today {
		t.Skip("date changed during test")
	}
	if yesterday != today.Prev() {
		t.Errorf("Expected Yesterday() %s, got %s", today.Prev(), yesterday)
	}
}

func TestCompare(t *testing.T) {
	a := mustNew(t, 2024, time.March, 7)
	b := mustNew(t, 2024, time.March, 8)
	c := mustNew(t, 2025, time.January, 1)

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Expected Compare to order days within a month")
	}
	if !b.Before(c) {
		t.Errorf("Expected %s.Before(%s) true, got false", b, c)
	}
	if a != mustNew(t, 2024, time.March, 7) {
		t.Errorf("Expected equal dates to compare ==")
	}
}

func TestFromSegments(t *testing.T) {
	tests := []struct {
		y, m, d string
		ok      bool
	}{
		{"2024", "3", "7", true},
		{"2024", "03", "07", true},
		{"2024", "13", "2", false},
		{"2024", "3", "abc", false},
		{"x", "3", "7", false},
		{"2024", "2", "30", false},
	}

	for _, tt := range tests {
		_, ok := FromSegments(tt.y, tt.m, tt.d)
		if ok != tt.ok {
			t.Errorf("Expected FromSegments(%q, %q, %q) ok %v, got %v", tt.y, tt.m, tt.d, tt.ok, ok)
		}
	}
}

func TestParse(t *testing.T) {
	today := ID{2024, time.March, 7}

	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"today", today, false},
		{"", today, false},
		{"Yesterday", ID{2024, time.March, 6}, false},
		{"-7", ID{2024, time.February, 29}, false},
		{"2023-12-31", ID{2023, time.December, 31}, false},
		{"2023-13-01", ID{}, true},
		{"-x", ID{}, true},
		{"soon", ID{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in, today)
		if (err != nil) != tt.wantErr {
			t.Errorf("Expected Parse(%q) error %v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Expected Parse(%q) %s, got %s", tt.in, tt.want, got)
		}
	}
}
