package task

import (
	"strings"
)

// Marker is the status a line's leading checkbox encodes.
type Marker int

const (
	None Marker = iota
	Open
	Completed
	Cancelled
)

func (m Marker) String() string {
	switch m {
	case Open:
		return "open"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "none"
}

// Symbol returns the canonical checkbox of the marker, "" for None.
func (m Marker) Symbol() string {
	switch m {
	case Open:
		return "[ ]"
	case Completed:
		return "[/]"
	case Cancelled:
		return "[x]"
	}
	return ""
}

var prefixes = []struct {
	text   string
	marker Marker
}{
	{"[ ]", Open},
	{"[]", Open},
	{"[x]", Cancelled},
	{"[/]", Completed},
}

// MarkerOf returns the marker that opens line, ignoring leading spaces and
// tabs, and the text that follows it.
func MarkerOf(line string) (Marker, string) {
	rest := strings.TrimLeft(line, " \t")
	for _, p := range prefixes {
		if strings.HasPrefix(rest, p.text) {
			return p.marker, strings.TrimSpace(rest[len(p.text):])
		}
	}
	return None, ""
}

// Item is one task line.
type Item struct {
	// Line is 1-based.
	Line   int
	Marker Marker
	Text   string
}

// Scan returns the task lines of text in order.
func Scan(text string) []Item {
	var items []Item
	for i, line := range strings.Split(text, "\n") {
		m, rest := MarkerOf(line)
		if m == None {
			continue
		}
		items = append(items, Item{Line: i + 1, Marker: m, Text: rest})
	}
	return items
}

// Filter keeps the items whose marker is one of ms.
func Filter(items []Item, ms ...Marker) []Item {
	var out []Item
	for _, it := range items {
		for _, m := range ms {
			if it.Marker == m {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
