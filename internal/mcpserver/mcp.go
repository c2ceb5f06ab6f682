// Package mcpserver exposes the journal to MCP clients over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/search"
	"github.com/vinayprograms/dayjot/internal/task"
)

// MCP Tool Input/Output types

// Day types
type ListDaysArgs struct {
	From string `json:"from,omitempty" jsonschema:"earliest day to include: YYYY-MM-DD, today, yesterday or -N (optional)"`
	To   string `json:"to,omitempty" jsonschema:"latest day to include, same formats as from (optional)"`
}

type ListDaysResult struct {
	Days  []DayInfo `json:"days" jsonschema:"days that have a journal file, oldest first"`
	Count int       `json:"count" jsonschema:"number of days returned"`
}

type DayInfo struct {
	Date string `json:"date" jsonschema:"day in YYYY-MM-DD form"`
	Path string `json:"path" jsonschema:"file path of the day"`
}

type GetDayArgs struct {
	Date string `json:"date,omitempty" jsonschema:"day to read: YYYY-MM-DD, today, yesterday or -N (default: today)"`
}

type GetDayResult struct {
	Date    string `json:"date" jsonschema:"day in YYYY-MM-DD form"`
	Content string `json:"content" jsonschema:"full text of the day, empty when the day has no file"`
	Path    string `json:"path" jsonschema:"file path of the day"`
	Exists  bool   `json:"exists" jsonschema:"whether the day has a file"`
}

type AppendTodayArgs struct {
	Content string `json:"content" jsonschema:"text to append to today's entry"`
	Task    bool   `json:"task,omitempty" jsonschema:"prefix each appended line with an open task marker '[ ] '"`
}

type AppendTodayResult struct {
	Date       string `json:"date" jsonschema:"today in YYYY-MM-DD form"`
	Path       string `json:"path" jsonschema:"file path of today's entry"`
	SeededFrom string `json:"seeded_from,omitempty" jsonschema:"earlier day today was copied from before appending"`
	Message    string `json:"message" jsonschema:"status message"`
}

// Task types
type CycleTaskArgs struct {
	Date string `json:"date,omitempty" jsonschema:"day holding the task (default: today)"`
	Line int    `json:"line" jsonschema:"1-based line number of the task. Lines without a marker get an open task marker."`
}

type CycleTaskResult struct {
	Date    string `json:"date" jsonschema:"day in YYYY-MM-DD form"`
	Line    int    `json:"line" jsonschema:"line number that was cycled"`
	Text    string `json:"text" jsonschema:"the line after cycling"`
	Status  string `json:"status" jsonschema:"new task status: open, completed or cancelled"`
	Message string `json:"message" jsonschema:"status message"`
}

type FindTasksArgs struct {
	Status string `json:"status,omitempty" jsonschema:"only tasks with this status: open, completed or cancelled (default: all)"`
	From   string `json:"from,omitempty" jsonschema:"earliest day to scan (optional)"`
	To     string `json:"to,omitempty" jsonschema:"latest day to scan (optional)"`
}

type FindTasksResult struct {
	Tasks []TaskInfo `json:"tasks" jsonschema:"task lines found, oldest day first"`
	Count int        `json:"count" jsonschema:"total number of tasks"`
}

type TaskInfo struct {
	Date    string `json:"date" jsonschema:"day containing the task"`
	LineNum int    `json:"line_num" jsonschema:"line number of the task"`
	Status  string `json:"status" jsonschema:"open, completed or cancelled"`
	Text    string `json:"text" jsonschema:"task text without its marker"`
}

// Search types
type SearchDaysArgs struct {
	Pattern string `json:"pattern" jsonschema:"search pattern (case-insensitive substring match)"`
	From    string `json:"from,omitempty" jsonschema:"earliest day to search (optional)"`
	To      string `json:"to,omitempty" jsonschema:"latest day to search (optional)"`
}

type SearchDaysResult struct {
	Results []SearchResultInfo `json:"results" jsonschema:"matching lines, oldest day first"`
	Count   int                `json:"count" jsonschema:"total number of matches"`
}

type SearchResultInfo struct {
	Date    string `json:"date" jsonschema:"day containing the match"`
	LineNum int    `json:"line_num" jsonschema:"line number of the match"`
	Line    string `json:"line" jsonschema:"the matching line"`
}

// Committer records a saved day, typically in git.
type Committer interface {
	CommitFile(path, message string) error
}

// MCPServer wraps the MCP server with journal operations
type MCPServer struct {
	store     *journal.Store
	committer Committer
	now       func() time.Time
	server    *mcp.Server
}

// NewMCPServer creates a new MCP server over store. committer may be nil.
func NewMCPServer(store *journal.Store, committer Committer, version string) *MCPServer {
	s := &MCPServer{
		store:     store,
		committer: committer,
		now:       time.Now,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "dayjot",
		Version: version,
	}, nil)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *MCPServer) registerTools() {
	// Day operations
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_days",
		Description: "PREFERRED: List the days that have a journal entry, oldest first. Optionally bounded by from/to. Use this first to see what has been written.",
	}, s.listDays)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_day",
		Description: "PREFERRED: Read the full journal entry of a day. Accepts YYYY-MM-DD, today, yesterday or -N. A day without an entry returns empty content.",
	}, s.getDay)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "append_today",
		Description: "PREFERRED: Append text to today's journal entry. When today has no entry yet it is first copied from the most recent day of the last two weeks, exactly as the editor does on startup. Set task to add the lines as open tasks.",
	}, s.appendToday)

	// Task operations
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cycle_task",
		Description: "Cycle the task marker on a line: open '[ ]' becomes completed '[/]', completed becomes cancelled '[x]', cancelled becomes completed, and a bare '[]' is normalized to '[ ]'. A line without a marker gets '[ ] '. Call get_day first to find the line number.",
	}, s.cycleTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_tasks",
		Description: "PREFERRED: Collect task lines across all days. Filter by status (open, completed, cancelled) and day range. Use this to see what is still open.",
	}, s.findTasks)

	// Search operations
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_days",
		Description: "PREFERRED: Search every journal entry for a phrase. Case-insensitive substring search returning each matching line with its day.",
	}, s.searchDays)
}

func (s *MCPServer) today() day.ID {
	return day.FromTime(s.now())
}

func (s *MCPServer) parseDay(ref string) (day.ID, error) {
	return day.Parse(ref, s.today())
}

func (s *MCPServer) parseRange(from, to string) (search.Range, error) {
	var r search.Range
	var err error
	if from != "" {
		if r.From, err = s.parseDay(from); err != nil {
			return r, fmt.Errorf("from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = s.parseDay(to); err != nil {
			return r, fmt.Errorf("to: %w", err)
		}
	}
	return r, nil
}

func (s *MCPServer) commit(id day.ID, message string) {
	if s.committer == nil {
		return
	}
	if err := s.committer.CommitFile(s.store.PathFor(id), message); err != nil {
		log.Printf("dayjot: commit %s: %v", id, err)
	}
}

func parseStatus(status string) (task.Marker, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "open":
		return task.Open, nil
	case "completed", "done":
		return task.Completed, nil
	case "cancelled", "canceled":
		return task.Cancelled, nil
	}
	return task.None, fmt.Errorf("unknown status %q (want open, completed or cancelled)", status)
}

// Day operations

func (s *MCPServer) listDays(ctx context.Context, req *mcp.CallToolRequest, args ListDaysArgs) (*mcp.CallToolResult, ListDaysResult, error) {
	r, err := s.parseRange(args.From, args.To)
	if err != nil {
		return nil, ListDaysResult{}, err
	}

	ids := search.Days(ctx, s.store, r)
	days := make([]DayInfo, len(ids))
	for i, id := range ids {
		days[i] = DayInfo{Date: id.String(), Path: s.store.PathFor(id)}
	}

	return nil, ListDaysResult{
		Days:  days,
		Count: len(days),
	}, nil
}

func (s *MCPServer) getDay(ctx context.Context, req *mcp.CallToolRequest, args GetDayArgs) (*mcp.CallToolResult, GetDayResult, error) {
	id, err := s.parseDay(args.Date)
	if err != nil {
		return nil, GetDayResult{}, err
	}

	result := GetDayResult{Date: id.String(), Path: s.store.PathFor(id)}
	text, err := s.store.Load(id)
	switch {
	case err == nil:
		result.Content, result.Exists = text, true
	case journal.KindOf(err) == journal.NotFound:
	default:
		return nil, GetDayResult{}, fmt.Errorf("failed to read day: %w", err)
	}

	return nil, result, nil
}

func (s *MCPServer) appendToday(ctx context.Context, req *mcp.CallToolRequest, args AppendTodayArgs) (*mcp.CallToolResult, AppendTodayResult, error) {
	if strings.TrimSpace(args.Content) == "" {
		return nil, AppendTodayResult{}, fmt.Errorf("content is required")
	}

	today := s.today()
	res, err := s.store.Resolve(today)
	if err != nil && journal.KindOf(err) != journal.NotFound {
		return nil, AppendTodayResult{}, fmt.Errorf("failed to open today: %w", err)
	}

	addition := args.Content
	if args.Task {
		lines := strings.Split(strings.TrimRight(addition, "\n"), "\n")
		for i, line := range lines {
			if m, _ := task.MarkerOf(line); m == task.None {
				lines[i] = task.NewMarker + line
			}
		}
		addition = strings.Join(lines, "\n")
	}

	text := res.Text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += addition
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if err := s.store.Save(today, text); err != nil {
		return nil, AppendTodayResult{}, fmt.Errorf("failed to save today: %w", err)
	}
	s.commit(today, fmt.Sprintf("Append to %s", today))

	result := AppendTodayResult{
		Date:    today.String(),
		Path:    s.store.PathFor(today),
		Message: fmt.Sprintf("Appended to %s", today),
	}
	if res.Seeded {
		result.SeededFrom = res.From.String()
	}
	return nil, result, nil
}

// Task operations

func (s *MCPServer) cycleTask(ctx context.Context, req *mcp.CallToolRequest, args CycleTaskArgs) (*mcp.CallToolResult, CycleTaskResult, error) {
	id, err := s.parseDay(args.Date)
	if err != nil {
		return nil, CycleTaskResult{}, err
	}

	text, err := s.store.Load(id)
	if err != nil {
		return nil, CycleTaskResult{}, fmt.Errorf("failed to read day: %w", err)
	}

	out, _, err := task.CycleLine(text, args.Line)
	if err != nil {
		return nil, CycleTaskResult{}, err
	}
	if err := s.store.Save(id, out); err != nil {
		return nil, CycleTaskResult{}, fmt.Errorf("failed to save day: %w", err)
	}

	line := strings.Split(out, "\n")[args.Line-1]
	marker, _ := task.MarkerOf(line)
	s.commit(id, fmt.Sprintf("Cycle task on %s line %d", id, args.Line))

	return nil, CycleTaskResult{
		Date:    id.String(),
		Line:    args.Line,
		Text:    line,
		Status:  marker.String(),
		Message: fmt.Sprintf("Task on line %d is now %s", args.Line, marker),
	}, nil
}

func (s *MCPServer) findTasks(ctx context.Context, req *mcp.CallToolRequest, args FindTasksArgs) (*mcp.CallToolResult, FindTasksResult, error) {
	r, err := s.parseRange(args.From, args.To)
	if err != nil {
		return nil, FindTasksResult{}, err
	}

	var markers []task.Marker
	if args.Status != "" {
		m, err := parseStatus(args.Status)
		if err != nil {
			return nil, FindTasksResult{}, err
		}
		markers = append(markers, m)
	}

	hits, err := search.Tasks(ctx, s.store, r, markers...)
	if err != nil {
		log.Printf("dayjot: find_tasks: %v", err)
	}

	tasks := make([]TaskInfo, len(hits))
	for i, h := range hits {
		tasks[i] = TaskInfo{
			Date:    h.Day.String(),
			LineNum: h.Line,
			Status:  h.Marker.String(),
			Text:    h.Text,
		}
	}

	return nil, FindTasksResult{
		Tasks: tasks,
		Count: len(tasks),
	}, nil
}

// Search operations

func (s *MCPServer) searchDays(ctx context.Context, req *mcp.CallToolRequest, args SearchDaysArgs) (*mcp.CallToolResult, SearchDaysResult, error) {
	if args.Pattern == "" {
		return nil, SearchDaysResult{}, fmt.Errorf("pattern is required")
	}
	r, err := s.parseRange(args.From, args.To)
	if err != nil {
		return nil, SearchDaysResult{}, err
	}

	hits, err := search.Text(ctx, s.store, r, args.Pattern)
	if err != nil {
		log.Printf("dayjot: search_days: %v", err)
	}

	results := make([]SearchResultInfo, len(hits))
	for i, h := range hits {
		results[i] = SearchResultInfo{
			Date:    h.Day.String(),
			LineNum: h.Line,
			Line:    h.Text,
		}
	}

	return nil, SearchDaysResult{
		Results: results,
		Count:   len(results),
	}, nil
}
