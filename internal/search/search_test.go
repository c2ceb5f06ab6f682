package search

import (
	"context"
	"testing"
	"time"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/task"
)

func seed(t *testing.T, days map[day.ID]string) *journal.Store {
	t.Helper()
	s, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	for id, text := range days {
		if err := s.Save(id, text); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}
	return s
}

var (
	mar5 = day.ID{Year: 2024, Month: time.March, Day: 5}
	mar6 = day.ID{Year: 2024, Month: time.March, Day: 6}
	mar7 = day.ID{Year: 2024, Month: time.March, Day: 7}
)

func TestTasksAcrossDays(t *testing.T) {
	s := seed(t, map[day.ID]string{
		mar7: "[ ] write report\nnotes\n[/] call bob\n",
		mar5: "[x] old idea\n[ ] buy milk\n",
		mar6: "nothing here\n",
	})

	hits, err := Tasks(context.Background(), s, Range{})
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}

	want := []struct {
		day  day.ID
		line int
		m    task.Marker
		text string
	}{
		{mar5, 1, task.Cancelled, "old idea"},
		{mar5, 2, task.Open, "buy milk"},
		{mar7, 1, task.Open, "write report"},
		{mar7, 3, task.Completed, "call bob"},
	}
	if len(hits) != len(want) {
		t.Fatalf("Expected %d hits from Tasks(), got %d: %+v", len(want), len(hits), hits)
	}
	for i, w := range want {
		h := hits[i]
		if h.Day != w.day || h.Line != w.line || h.Marker != w.m || h.Text != w.text {
			t.Errorf("Expected hits[%d] %s:%d %v %q, got %s:%d %v %q",
				i, w.day, w.line, w.m, w.text, h.Day, h.Line, h.Marker, h.Text)
		}
	}
}

func TestTasksFilterAndRange(t *testing.T) {
	s := seed(t, map[day.ID]string{
		mar5: "[ ] early\n",
		mar6: "[ ] middle\n[/] done\n",
		mar7: "[ ] late\n",
	})

	hits, err := Tasks(context.Background(), s, Range{From: mar6, To: mar6}, task.Open)
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Text != "middle" {
		t.Errorf("Expected Tasks() only the open task of %s, got %+v", mar6, hits)
	}
}

func TestText(t *testing.T) {
	s := seed(t, map[day.ID]string{
		mar5: "Met Alice\r\nlunch\r\n",
		mar7: "alice again\nbob\n",
	})

	hits, err := Text(context.Background(), s, Range{}, "ALICE")
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits from Text(), got %d: %+v", len(hits), hits)
	}
	if hits[0].Day != mar5 || hits[0].Text != "Met Alice" {
		t.Errorf("Expected hits[0] %s \"Met Alice\", got %+v", mar5, hits[0])
	}
	if hits[1].Day != mar7 || hits[1].Line != 1 {
		t.Errorf("Expected hits[1] %s line 1, got %+v", mar7, hits[1])
	}

	if hits, _ := Text(context.Background(), s, Range{}, ""); hits != nil {
		t.Errorf("Expected Text(\"\") nil, got %v", hits)
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		id   day.ID
		want bool
	}{
		{"open", Range{}, mar5, true},
		{"before from", Range{From: mar6}, mar5, false},
		{"on from", Range{From: mar6}, mar6, true},
		{"after to", Range{To: mar6}, mar7, false},
		{"on to", Range{To: mar6}, mar6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.id); got != tt.want {
				t.Errorf("Expected Contains(%s) %v, got %v", tt.id, tt.want, got)
			}
		})
	}
}

func TestDays(t *testing.T) {
	s := seed(t, map[day.ID]string{mar5: "a", mar7: "b"})
	got := Days(context.Background(), s, Range{})
	if len(got) != 2 || got[0] != mar5 || got[1] != mar7 {
		t.Errorf("Expected Days() [%s %s], got %v", mar5, mar7, got)
	}
}
