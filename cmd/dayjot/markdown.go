package main

import (
	"strings"

	"github.com/vinayprograms/dayjot/internal/task"
)

// toMarkdown rewrites a journal page so a markdown renderer keeps its shape:
// task lines become list items and plain lines keep their breaks.
func toMarkdown(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	prevItem := false

	for _, line := range lines {
		m, rest := task.MarkerOf(line)
		item := m != task.None
		blank := strings.TrimSpace(line) == ""

		// A plain line right after an item would continue the item.
		if prevItem && !item && !blank {
			out = append(out, "")
		}

		switch {
		case m == task.Open:
			line = "- [ ] " + rest
		case m == task.Completed:
			line = "- [x] " + rest
		case m == task.Cancelled:
			line = "- ~~" + rest + "~~"
		case blank, strings.HasPrefix(line, "#"):
		default:
			line += "  "
		}
		out = append(out, line)
		prevItem = item
	}
	return strings.Join(out, "\n")
}
