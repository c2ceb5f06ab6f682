package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
)

type commitLog struct {
	paths    []string
	messages []string
}

func (c *commitLog) CommitFile(path, message string) error {
	c.paths = append(c.paths, path)
	c.messages = append(c.messages, message)
	return nil
}

var today = day.ID{Year: 2024, Month: time.March, Day: 7}

func setupTestMCP(t *testing.T) (*MCPServer, *journal.Store, *commitLog) {
	t.Helper()

	store, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	commits := &commitLog{}
	server := NewMCPServer(store, commits, "test")
	server.now = func() time.Time {
		return time.Date(2024, time.March, 7, 9, 30, 0, 0, time.Local)
	}
	return server, store, commits
}

func TestListDays(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today.AddDays(-2), "a")
	store.Save(today, "b")

	_, result, err := server.listDays(context.Background(), nil, ListDaysArgs{})
	if err != nil {
		t.Fatalf("listDays failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 days, got %d", result.Count)
	}
	if result.Days[0].Date != "2024-03-05" || result.Days[1].Date != "2024-03-07" {
		t.Errorf("unexpected order: %+v", result.Days)
	}

	_, result, err = server.listDays(context.Background(), nil, ListDaysArgs{From: "yesterday"})
	if err != nil {
		t.Fatalf("listDays failed: %v", err)
	}
	if result.Count != 1 || result.Days[0].Date != "2024-03-07" {
		t.Errorf("expected only today from yesterday on, got %+v", result.Days)
	}

	if _, _, err := server.listDays(context.Background(), nil, ListDaysArgs{To: "soon"}); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestGetDay(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today, "# Thursday\n")

	_, result, err := server.getDay(context.Background(), nil, GetDayArgs{})
	if err != nil {
		t.Fatalf("getDay failed: %v", err)
	}
	if !result.Exists || result.Content != "# Thursday\n" || result.Date != "2024-03-07" {
		t.Errorf("unexpected result: %+v", result)
	}

	_, result, err = server.getDay(context.Background(), nil, GetDayArgs{Date: "-1"})
	if err != nil {
		t.Fatalf("getDay failed: %v", err)
	}
	if result.Exists || result.Content != "" {
		t.Errorf("expected empty missing day, got %+v", result)
	}
}

func TestAppendToday_Seeds(t *testing.T) {
	server, store, commits := setupTestMCP(t)
	store.Save(today.AddDays(-3), "[ ] carried\n")

	_, result, err := server.appendToday(context.Background(), nil, AppendTodayArgs{Content: "new line"})
	if err != nil {
		t.Fatalf("appendToday failed: %v", err)
	}
	if result.SeededFrom != "2024-03-04" {
		t.Errorf("expected seeded from 2024-03-04, got %q", result.SeededFrom)
	}

	got, _ := store.Load(today)
	if got != "[ ] carried\nnew line\n" {
		t.Errorf("Unexpected today content: %q", got)
	}
	if len(commits.paths) != 1 || commits.paths[0] != store.PathFor(today) {
		t.Errorf("expected one commit of today, got %v", commits.paths)
	}
}

func TestAppendToday_AsTasks(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today, "notes")

	_, _, err := server.appendToday(context.Background(), nil, AppendTodayArgs{Content: "one\n[/] two\n", Task: true})
	if err != nil {
		t.Fatalf("appendToday failed: %v", err)
	}
	got, _ := store.Load(today)
	if got != "notes\n[ ] one\n[/] two\n" {
		t.Errorf("Unexpected today content: %q", got)
	}

	if _, _, err := server.appendToday(context.Background(), nil, AppendTodayArgs{Content: "  "}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestCycleTask(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today, "header\n[ ] buy milk\n")

	_, result, err := server.cycleTask(context.Background(), nil, CycleTaskArgs{Line: 2})
	if err != nil {
		t.Fatalf("cycleTask failed: %v", err)
	}
	if result.Text != "[/] buy milk" || result.Status != "completed" {
		t.Errorf("unexpected result: %+v", result)
	}

	_, result, err = server.cycleTask(context.Background(), nil, CycleTaskArgs{Line: 1})
	if err != nil {
		t.Fatalf("cycleTask failed: %v", err)
	}
	if result.Text != "[ ] header" || result.Status != "open" {
		t.Errorf("unexpected result: %+v", result)
	}

	got, _ := store.Load(today)
	if got != "[ ] header\n[/] buy milk\n" {
		t.Errorf("Unexpected today content: %q", got)
	}

	if _, _, err := server.cycleTask(context.Background(), nil, CycleTaskArgs{Line: 9}); err == nil {
		t.Error("expected error for line out of range")
	}
	if _, _, err := server.cycleTask(context.Background(), nil, CycleTaskArgs{Date: "-1", Line: 1}); err == nil {
		t.Error("expected error for missing day")
	}
}

func TestFindTasks(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today.Prev(), "[ ] a\n[x] b\n")
	store.Save(today, "[/] c\n[] d\n")

	_, result, err := server.findTasks(context.Background(), nil, FindTasksArgs{})
	if err != nil {
		t.Fatalf("findTasks failed: %v", err)
	}
	if result.Count != 4 {
		t.Fatalf("expected 4 tasks, got %d", result.Count)
	}

	_, result, err = server.findTasks(context.Background(), nil, FindTasksArgs{Status: "open"})
	if err != nil {
		t.Fatalf("findTasks failed: %v", err)
	}
	if result.Count != 2 || result.Tasks[0].Text != "a" || result.Tasks[1].Text != "d" {
		t.Errorf("unexpected open tasks: %+v", result.Tasks)
	}

	if _, _, err := server.findTasks(context.Background(), nil, FindTasksArgs{Status: "someday"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSearchDays(t *testing.T) {
	server, store, _ := setupTestMCP(t)
	store.Save(today.Prev(), "Lunch with Alice\n")
	store.Save(today, "email alice\nother\n")

	_, result, err := server.searchDays(context.Background(), nil, SearchDaysArgs{Pattern: "alice"})
	if err != nil {
		t.Fatalf("searchDays failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Count)
	}
	if !strings.Contains(result.Results[0].Line, "Alice") || result.Results[0].Date != "2024-03-06" {
		t.Errorf("unexpected first match: %+v", result.Results[0])
	}

	if _, _, err := server.searchDays(context.Background(), nil, SearchDaysArgs{}); err == nil {
		t.Error("expected error for empty pattern")
	}
}
