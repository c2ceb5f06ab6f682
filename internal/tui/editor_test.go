package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"github.com/vinayprograms/dayjot/internal/markup"
)

func TestLayoutRows(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []row
	}{
		{"empty", "", 10, []row{{0, 0, 0}}},
		{"two lines", "ab\ncd", 10, []row{{0, 2, 0}, {3, 5, 1}}},
		{"trailing newline", "ab\n", 10, []row{{0, 2, 0}, {3, 3, 1}}},
		{"wraps", "abcdef", 4, []row{{0, 4, 0}, {4, 6, 0}}},
		{"wide runes", "日本語", 4, []row{{0, 6, 0}, {6, 9, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layoutRows(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected layoutRows(%q, %d) %v, got %v", tt.text, tt.width, tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected layoutRows(%q, %d)[%d] %v, got %v", tt.text, tt.width, i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestRowOf(t *testing.T) {
	rows := layoutRows("abcdef\nxy", 4)
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{3, 0},
		{4, 1}, // wrap boundary belongs to the continuation
		{6, 1}, // end of logical line
		{7, 2},
		{9, 2},
	}
	for _, tt := range tests {
		if got := rowOf(rows, tt.offset); got != tt.want {
			t.Errorf("Expected rowOf(%d) %d, got %d", tt.offset, tt.want, got)
		}
	}
}

func TestOffsetAtCell(t *testing.T) {
	text := "a日b"
	r := layoutRows(text, 20)[0]
	tests := []struct {
		col  int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // second cell of the wide rune
		{3, 4},
		{9, 5},
	}
	for _, tt := range tests {
		if got := offsetAtCell(text, r, tt.col); got != tt.want {
			t.Errorf("Expected offsetAtCell(%d) %d, got %d", tt.col, tt.want, got)
		}
	}
}

func TestOffsetOfAndLineCol(t *testing.T) {
	text := "héllo\n[ ] wörld\n"
	tests := []struct {
		line, col int
		offset    int
	}{
		{0, 0, 0},
		{0, 2, 3},
		{1, 0, 7},
		{1, 6, 14},
		{2, 0, len(text)},
	}
	for _, tt := range tests {
		if got := offsetOf(text, tt.line, tt.col); got != tt.offset {
			t.Errorf("Expected offsetOf(%d, %d) %d, got %d", tt.line, tt.col, tt.offset, got)
		}
		line, col := lineCol(text, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("Expected lineCol(%d) %d, %d, got %d, %d", tt.offset, tt.line, tt.col, line, col)
		}
	}
}

func TestRenderRowKeepsText(t *testing.T) {
	text := "# Title\n[ ] see https://example.com\n"
	spans := markup.Tokenize(text)
	for _, r := range layoutRows(text, 80) {
		var b strings.Builder
		renderRow(&b, text, spans, r, -1, markup.Theme{})
		if got, want := xansi.Strip(b.String()), text[r.start:r.end]; got != want {
			t.Errorf("Expected renderRow() %q, got %q", want, got)
		}
	}
}

func TestRenderRowCursorAtEnd(t *testing.T) {
	text := "ab"
	r := layoutRows(text, 80)[0]
	var b strings.Builder
	renderRow(&b, text, nil, r, 2, markup.Theme{})
	if got := xansi.Strip(b.String()); got != "ab " {
		t.Errorf("Expected renderRow() %q, got %q", "ab ", got)
	}
}
