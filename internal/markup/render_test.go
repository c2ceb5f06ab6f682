package markup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func withProfile(t *testing.T, p termenv.Profile) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(p)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestRenderKeepsText(t *testing.T) {
	withProfile(t, termenv.ANSI256)

	text := "# Day\n[x] gone\n[/] done\nsee https://example.com now `code`\n"
	var h Highlighter
	out := Render(h.Layout(text, 0), DefaultTheme())

	if !strings.Contains(out, "\x1b[") {
		t.Errorf("Expected styled output from Render(), got %q", out)
	}
	if got := xansi.Strip(out); got != text {
		t.Errorf("Expected Render() text %q, got %q", text, got)
	}
}

func TestRenderPlainProfile(t *testing.T) {
	withProfile(t, termenv.Ascii)

	text := "[ ] buy milk\nplain"
	var h Highlighter
	if got := Render(h.Layout(text, 0), DefaultTheme()); got != text {
		t.Errorf("Expected Render() %q, got %q", text, got)
	}
}

func TestRenderClampsStaleSpans(t *testing.T) {
	withProfile(t, termenv.Ascii)

	l := Layout{Text: "ab", Spans: Tokenize("abcdef\n# header\n")}
	if got := Render(l, Theme{}); got != "ab" {
		t.Errorf("Expected Render() %q, got %q", "ab", got)
	}

	l = Layout{Text: "abcdef", Spans: Tokenize("ab")}
	if got := Render(l, Theme{}); got != "abcdef" {
		t.Errorf("Expected Render() %q, got %q", "abcdef", got)
	}
}

func TestRenderWraps(t *testing.T) {
	withProfile(t, termenv.Ascii)

	var h Highlighter
	out := Render(h.Layout("one two three four", 8), DefaultTheme())
	for _, line := range strings.Split(out, "\n") {
		if xansi.StringWidth(line) > 8 {
			t.Errorf("Expected lines of at most 8 cells, got %q", line)
		}
	}
	if !strings.Contains(out, "\n") {
		t.Errorf("Expected Render() to wrap, got %q", out)
	}
}
