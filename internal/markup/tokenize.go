// Package markup splits journal text into styled spans: headers, task lines,
// inline code and hyperlinks. Everything else is plain text.
package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Header and body sizes in points. Each '#' past the first shrinks a header by
// HeaderStep, never below HeaderMinSize.
const (
	BodySize      = 14
	HeaderMaxSize = 26
	HeaderStep    = 4
	HeaderMinSize = 16
)

// Kind tags the construct a span was produced by.
type Kind int

const (
	Plain Kind = iota
	Header
	OpenTask
	CancelledTask
	CompletedTask
	Code
	Link
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case OpenTask:
		return "open"
	case CancelledTask:
		return "cancelled"
	case CompletedTask:
		return "completed"
	case Code:
		return "code"
	case Link:
		return "link"
	default:
		return "plain"
	}
}

// Style is the visual treatment of a span. Colors are resolved by a Theme.
type Style struct {
	Kind Kind
	// Level is the number of '#' of a header, zero otherwise.
	Level      int
	Size       int
	Bold       bool
	Monospace  bool
	Background bool
	Link       bool
}

// Span is the byte range [Start, End) of the input with its style.
type Span struct {
	Start, End int
	Style      Style
}

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the part of text covered by the span.
func (s Span) Text(text string) string { return text[s.Start:s.End] }

// HeaderSize returns the point size of a header with the given number of '#'.
func HeaderSize(level int) int {
	if level < 1 {
		level = 1
	}
	size := HeaderMaxSize - HeaderStep*(level-1)
	if size < HeaderMinSize {
		return HeaderMinSize
	}
	return size
}

// StyleFor returns the style of a construct. level only matters for headers.
func StyleFor(kind Kind, level int) Style {
	st := Style{Kind: kind, Size: BodySize}
	switch kind {
	case Header:
		st.Level = level
		st.Size = HeaderSize(level)
		st.Bold = true
	case Code:
		st.Monospace = true
		st.Background = true
	case Link:
		st.Link = true
	}
	return st
}

// Match is what a recognizer reports. Len is zero when nothing matched.
type Match struct {
	Kind  Kind
	Level int
	Len   int
}

// recognizer tries to match a construct at the start of s. lineStart is set
// when s begins a line; only the task recognizers need it.
type recognizer func(s string, lineStart bool) Match

// recognizers in priority order; the first match wins.
var recognizers = []recognizer{
	matchHeader,
	matchLine(OpenTask, "[ ]", "[]"),
	matchLine(CancelledTask, "[x]"),
	matchLine(CompletedTask, "[/]"),
	matchCode,
	matchLink,
}

// Recognize tries every recognizer at the start of s in priority order.
func Recognize(s string, lineStart bool) Match {
	for _, r := range recognizers {
		if m := r(s, lineStart); m.Len > 0 {
			return m
		}
	}
	return Match{}
}

// Tokenize partitions text into ordered, contiguous spans whose lengths add up
// to len(text). Runs of text no recognizer claims become single Plain spans.
// Empty text yields no spans.
func Tokenize(text string) []Span {
	var spans []Span
	plainFrom := 0

	flushPlain := func(to int) {
		if to > plainFrom {
			spans = append(spans, Span{Start: plainFrom, End: to, Style: StyleFor(Plain, 0)})
		}
	}

	for i := 0; i < len(text); {
		lineStart := i == 0 || text[i-1] == '\n'
		if m := Recognize(text[i:], lineStart); m.Len > 0 {
			flushPlain(i)
			spans = append(spans, Span{Start: i, End: i + m.Len, Style: StyleFor(m.Kind, m.Level)})
			i += m.Len
			plainFrom = i
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	flushPlain(len(text))

	return spans
}

// skipBlank returns the number of leading spaces and tabs.
func skipBlank(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

// restOfLine returns the length up to and including the next '\n' starting at
// from, or -1 when the line is not terminated.
func restOfLine(s string, from int) int {
	nl := strings.IndexByte(s[from:], '\n')
	if nl < 0 {
		return -1
	}
	return from + nl + 1
}

// matchHeader is tried at every position, so a '#' mid line starts a header
// that runs to the end of the line.
func matchHeader(s string, _ bool) Match {
	i := skipBlank(s)
	level := 0
	for i < len(s) && s[i] == '#' {
		i++
		level++
	}
	if level == 0 {
		return Match{}
	}
	n := restOfLine(s, i)
	if n < 0 {
		return Match{}
	}
	return Match{Kind: Header, Level: level, Len: n}
}

func matchLine(kind Kind, markers ...string) recognizer {
	return func(s string, lineStart bool) Match {
		if !lineStart {
			return Match{}
		}
		i := skipBlank(s)
		for _, marker := range markers {
			if !strings.HasPrefix(s[i:], marker) {
				continue
			}
			if n := restOfLine(s, i+len(marker)); n > 0 {
				return Match{Kind: kind, Len: n}
			}
			return Match{}
		}
		return Match{}
	}
}

func matchCode(s string, _ bool) Match {
	if len(s) == 0 || s[0] != '`' {
		return Match{}
	}
	end := strings.IndexByte(s[1:], '`')
	if end < 0 {
		return Match{}
	}
	return Match{Kind: Code, Len: end + 2}
}

func matchLink(s string, _ bool) Match {
	i := 0
	for i < len(s) && isSchemeByte(s[i]) {
		i++
	}
	if i == 0 || !strings.HasPrefix(s[i:], "://") {
		return Match{}
	}
	i += len("://")

	start := i
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	if i == start {
		return Match{}
	}
	return Match{Kind: Link, Len: i}
}

func isSchemeByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
