package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
)

type keyList []string

func (k keyList) Keys(ctx context.Context) <-chan string {
	ch := make(chan string, len(k))
	for _, key := range k {
		ch <- key
	}
	close(ch)
	return ch
}

func TestRebuildFiltersInvalidPaths(t *testing.T) {
	set := Rebuild(context.Background(), keyList{"2024/3/7", "2024/13/2", "2024/3/abc"})

	if set.Len() != 1 {
		t.Fatalf("Expected Len() 1, got %d", set.Len())
	}
	want := day.ID{Year: 2024, Month: time.March, Day: 7}
	if !set.Has(want) {
		t.Errorf("Expected Has(%s) true, got false", want)
	}
	if set.Skipped() != 2 {
		t.Errorf("Expected Skipped() 2, got %d", set.Skipped())
	}
}

func TestRebuildFromStore(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"2024/3/7", "2024/13/2", "2024/3/abc", "2023/2/29", "readme"} {
		path := filepath.Join(root, filepath.FromSlash(p))
		os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := journal.Open(root)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	set := Rebuild(context.Background(), store)
	got := set.Sorted()
	if len(got) != 1 || got[0] != (day.ID{Year: 2024, Month: time.March, Day: 7}) {
		t.Errorf("Expected Sorted() [2024-03-07], got %v", got)
	}
}

func TestRebuildIsRecomputed(t *testing.T) {
	first := Rebuild(context.Background(), keyList{"2024/3/7"})
	second := Rebuild(context.Background(), keyList{"2024/3/8"})

	if first.Has(day.ID{Year: 2024, Month: time.March, Day: 8}) {
		t.Error("Expected the first set unchanged by a second rebuild")
	}
	if second.Has(day.ID{Year: 2024, Month: time.March, Day: 7}) {
		t.Error("Expected the second set to drop a day that is gone")
	}
}

func TestGroup(t *testing.T) {
	set := Of(
		day.ID{Year: 2024, Month: time.March, Day: 9},
		day.ID{Year: 2023, Month: time.December, Day: 31},
		day.ID{Year: 2024, Month: time.March, Day: 7},
		day.ID{Year: 2024, Month: time.January, Day: 2},
	)

	years := Group(set)
	if len(years) != 2 {
		t.Fatalf("Expected 2 years from Group(), got %d", len(years))
	}
	if years[0].Year != 2023 || years[1].Year != 2024 {
		t.Errorf("Expected years 2023, 2024, got %d, %d", years[0].Year, years[1].Year)
	}

	months := years[1].Months
	if len(months) != 2 || months[0].Label() != "Jan" || months[1].Label() != "Mar" {
		t.Fatalf("Expected 2024 months Jan, Mar, got %+v", months)
	}
	if days := months[1].Days; len(days) != 2 || days[0].Day != 7 || days[1].Day != 9 {
		t.Errorf("Expected Mar days 7, 9, got %v", days)
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		m    time.Month
		want string
	}{
		{time.January, "Jan"},
		{time.November, "Nov"},
		{time.December, "Dec"},
		{0, ""},
		{13, ""},
	}
	for _, tt := range tests {
		if got := MonthLabel(tt.m); got != tt.want {
			t.Errorf("Expected MonthLabel(%d) %q, got %q", tt.m, tt.want, got)
		}
	}
}
