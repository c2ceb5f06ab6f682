package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Theme holds the colors spans are drawn with.
type Theme struct {
	Text      lipgloss.TerminalColor
	Header    lipgloss.TerminalColor
	Completed lipgloss.TerminalColor
	Cancelled lipgloss.TerminalColor
	Code      lipgloss.TerminalColor
	CodeBg    lipgloss.TerminalColor
	Link      lipgloss.TerminalColor
}

// DefaultTheme is the dark terminal palette.
func DefaultTheme() Theme {
	return Theme{
		Text:      lipgloss.Color("7"),
		Header:    lipgloss.Color("15"),
		Completed: lipgloss.Color("2"),
		Cancelled: lipgloss.Color("1"),
		Code:      lipgloss.Color("7"),
		CodeBg:    lipgloss.Color("8"),
		Link:      lipgloss.Color("12"),
	}
}

func orNone(c lipgloss.TerminalColor) lipgloss.TerminalColor {
	if c == nil {
		return lipgloss.NoColor{}
	}
	return c
}

// Style maps a span style onto a terminal style. A terminal has one font size,
// so header levels become emphasis: the largest headers are underlined too.
func (t Theme) Style(st Style) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(orNone(t.Text))
	switch st.Kind {
	case Header:
		s = s.Foreground(orNone(t.Header)).Bold(true)
		if st.Size >= HeaderMaxSize {
			s = s.Underline(true)
		}
	case CompletedTask:
		s = s.Foreground(orNone(t.Completed))
	case CancelledTask:
		s = s.Foreground(orNone(t.Cancelled)).Strikethrough(true)
	case Code:
		s = s.Foreground(orNone(t.Code)).Background(orNone(t.CodeBg))
	case Link:
		s = s.Foreground(orNone(t.Link)).Underline(true)
	}
	return s
}

// Render draws a layout with theme colors and wraps it at the layout width.
// Spans that run past the text, as stale cached spans can, are clipped and any
// uncovered text is drawn plain.
func Render(l Layout, theme Theme) string {
	var b strings.Builder
	plain := theme.Style(StyleFor(Plain, 0))

	pos := 0
	for _, sp := range l.Spans {
		start, end := clamp(sp.Start, pos, len(l.Text)), clamp(sp.End, pos, len(l.Text))
		if end <= start {
			continue
		}
		if start > pos {
			writeStyled(&b, l.Text[pos:start], plain)
		}
		writeStyled(&b, l.Text[start:end], theme.Style(sp.Style))
		pos = end
	}
	if pos < len(l.Text) {
		writeStyled(&b, l.Text[pos:], plain)
	}

	out := b.String()
	if l.WrapWidth > 0 {
		out = wrap.String(wordwrap.String(out, l.WrapWidth), l.WrapWidth)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// writeStyled styles each line separately so lipgloss does not pad a
// multi-line span into a block.
func writeStyled(b *strings.Builder, text string, style lipgloss.Style) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line != "" {
			b.WriteString(style.Render(line))
		}
	}
}
