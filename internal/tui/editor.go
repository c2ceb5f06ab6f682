package tui

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vinayprograms/dayjot/internal/markup"
)

// row is one screen row of the editor pane: bytes [start, end) of the text on
// logical line `line`.
type row struct {
	start, end int
	line       int
}

// layoutRows splits text into screen rows no wider than width cells. Lines
// break at '\n'; longer lines wrap at the last rune that fits.
func layoutRows(text string, width int) []row {
	width = max(width, 1)
	var rows []row
	start, line := 0, 0
	for {
		end := len(text)
		nl := strings.IndexByte(text[start:], '\n')
		if nl >= 0 {
			end = start + nl
		}
		rows = wrapLine(rows, text, start, end, line, width)
		if nl < 0 {
			return rows
		}
		start, line = end+1, line+1
	}
}

func wrapLine(rows []row, text string, start, end, line, width int) []row {
	rowStart, cells := start, 0
	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(text[i:end])
		w := cellWidth(r)
		if cells+w > width && i > rowStart {
			rows = append(rows, row{rowStart, i, line})
			rowStart, cells = i, 0
		}
		cells += w
		i += size
	}
	return append(rows, row{rowStart, end, line})
}

func cellWidth(r rune) int {
	switch r {
	case '\t':
		return 1
	case '\r':
		return 0
	}
	return runewidth.RuneWidth(r)
}

// rowOf returns the row the cursor offset sits on. An offset on a wrap boundary
// belongs to the continuation row.
func rowOf(rows []row, offset int) int {
	for i, r := range rows {
		if offset < r.start {
			continue
		}
		if offset < r.end {
			return i
		}
		if offset == r.end && (i+1 == len(rows) || rows[i+1].line != r.line) {
			return i
		}
	}
	return max(len(rows)-1, 0)
}

// offsetAtCell maps a cell column on a row to a byte offset, clamped to the
// row's end.
func offsetAtCell(text string, r row, col int) int {
	cells := 0
	for i := r.start; i < r.end; {
		ch, size := utf8.DecodeRuneInString(text[i:r.end])
		w := cellWidth(ch)
		if cells+w > col {
			return i
		}
		cells += w
		i += size
	}
	return r.end
}

// offsetOf converts a rune column on a 0-based logical line into a byte offset.
func offsetOf(text string, line, col int) int {
	start := 0
	for n := 0; n < line; n++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return len(text)
		}
		start += nl + 1
	}
	end := len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	off := start
	for n := 0; n < col && off < end; n++ {
		_, size := utf8.DecodeRuneInString(text[off:end])
		off += size
	}
	return off
}

// lineCol is the inverse of offsetOf.
func lineCol(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	line = strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return line, utf8.RuneCountInString(text[lineStart:offset])
}

// renderRow draws one row with the styles of the spans covering it. cursor is
// -1 unless the cursor is on this row; it is drawn reversed, as a blank cell at
// the end of the row.
func renderRow(b *strings.Builder, text string, spans []markup.Span, r row, cursor int, theme markup.Theme) {
	plain := theme.Style(markup.StyleFor(markup.Plain, 0))
	// spanAt returns the index of the span covering i, -1 when stale spans
	// leave i uncovered.
	spanAt := func(i int) int {
		k := sort.Search(len(spans), func(k int) bool { return spans[k].End > i })
		if k < len(spans) && spans[k].Start <= i {
			return k
		}
		return -1
	}
	style := func(k int) lipgloss.Style {
		if k < 0 {
			return plain
		}
		return theme.Style(spans[k].Style)
	}

	var seg strings.Builder
	segSpan := -2
	flush := func() {
		if seg.Len() > 0 {
			b.WriteString(style(segSpan).Render(seg.String()))
			seg.Reset()
		}
		segSpan = -2
	}

	for i := r.start; i < r.end; {
		ch, size := utf8.DecodeRuneInString(text[i:r.end])
		glyph := string(ch)
		switch ch {
		case '\t':
			glyph = " "
		case '\r':
			glyph = ""
		}
		k := spanAt(i)

		if i == cursor {
			flush()
			if glyph == "" {
				glyph = " "
			}
			b.WriteString(style(k).Reverse(true).Render(glyph))
			i += size
			continue
		}

		if k != segSpan {
			flush()
			segSpan = k
		}
		seg.WriteString(glyph)
		i += size
	}
	flush()

	if cursor == r.end {
		b.WriteString(plain.Reverse(true).Render(" "))
	}
}
