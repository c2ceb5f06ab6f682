// Package task finds and rewrites the checkbox markers that turn a journal
// line into a task: "[ ]" or "[]" open, "[/]" completed, "[x]" cancelled.
package task

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NewMarker is inserted at the start of a line that has no marker yet.
const NewMarker = "[ ] "

type rule struct {
	from, to string
}

// rules in priority order. Completed and cancelled swap with each other, so a
// closed task never reopens by cycling.
var rules = []rule{
	{"[x]", "[/]"},
	{"[/]", "[x]"},
	{"[]", "[ ]"},
	{"[ ]", "[/]"},
}

// Edit describes the single change Cycle made: Removed was replaced by
// Inserted at byte offset Pos.
type Edit struct {
	Pos      int
	Removed  string
	Inserted string
}

// Shift moves a cursor offset so it stays on the same character after the
// edit. Cursors inside the replaced text move to the end of the insertion.
func (e Edit) Shift(cursor int) int {
	end := e.Pos + len(e.Removed)
	switch {
	case cursor >= end:
		return cursor + len(e.Inserted) - len(e.Removed)
	case cursor > e.Pos:
		return e.Pos + len(e.Inserted)
	}
	return cursor
}

// Cycle rewrites the task marker of the line holding cursor. Only the text
// between the line start and the cursor is searched, from the cursor backward,
// one rule at a time. Without a marker, NewMarker is inserted at the line
// start. The cursor is clamped to the text and to a rune boundary.
func Cycle(text string, cursor int) (string, Edit) {
	cursor = clampCursor(text, cursor)
	lineStart := strings.LastIndexByte(text[:cursor], '\n') + 1
	line := text[lineStart:cursor]

	for _, r := range rules {
		if i := strings.LastIndex(line, r.from); i >= 0 {
			e := Edit{Pos: lineStart + i, Removed: r.from, Inserted: r.to}
			return apply(text, e), e
		}
	}

	e := Edit{Pos: lineStart, Inserted: NewMarker}
	return apply(text, e), e
}

// CycleLine cycles the marker of a 1-based line number, with the cursor at the
// end of that line.
func CycleLine(text string, line int) (string, Edit, error) {
	if line < 1 {
		return text, Edit{}, fmt.Errorf("line %d out of range", line)
	}
	start := 0
	for n := 1; n < line; n++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return text, Edit{}, fmt.Errorf("line %d out of range", line)
		}
		start += nl + 1
	}
	end := len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	out, e := Cycle(text, end)
	return out, e, nil
}

func apply(text string, e Edit) string {
	return text[:e.Pos] + e.Inserted + text[e.Pos+len(e.Removed):]
}

func clampCursor(text string, cursor int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > len(text) {
		return len(text)
	}
	for cursor > 0 && cursor < len(text) && !utf8.RuneStart(text[cursor]) {
		cursor--
	}
	return cursor
}
