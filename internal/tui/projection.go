package tui

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabSpaces is what the textarea turns a tab into.
const tabSpaces = "    "

// projection is the buffer as the textarea can hold it, with the way back.
// The textarea keeps no tabs, carriage returns or other control characters,
// so tabs are expanded, CRLF and lone CR become one newline and the rest is
// dropped. Every buffer byte belongs to exactly one unit; a unit is a kept
// rune plus any dropped bytes after it.
type projection struct {
	shown string
	// units[i] starts at units[i].shown in shown and at units[i].text in the
	// buffer. The last entry sits at the end of both.
	units []unit
}

type unit struct{ shown, text int }

func project(text string) projection {
	var b strings.Builder
	b.Grow(len(text))
	units := make([]unit, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		out := ""
		switch {
		case r == '\r':
			out = "\n"
			if strings.HasPrefix(text[i+size:], "\n") {
				size++
			}
		case r == '\n':
			out = "\n"
		case r == '\t':
			out = tabSpaces
		case r == utf8.RuneError, unicode.IsControl(r):
		default:
			out = text[i : i+size]
		}
		if out != "" {
			start := i
			if len(units) == 0 {
				// Leading dropped bytes go with the first kept rune.
				start = 0
			}
			units = append(units, unit{shown: b.Len(), text: start})
			b.WriteString(out)
		}
		i += size
	}
	units = append(units, unit{shown: b.Len(), text: len(text)})
	return projection{shown: b.String(), units: units}
}

// opaque maps all of shown onto a buffer of n bytes as a single unit.
func opaque(shown string, n int) projection {
	if shown == "" {
		return projection{units: []unit{{0, n}}}
	}
	return projection{shown: shown, units: []unit{{0, 0}, {len(shown), n}}}
}

// at is the index of the unit holding shown offset d.
func (p projection) at(d int) int {
	i := sort.Search(len(p.units), func(k int) bool { return p.units[k].shown > d })
	return max(i-1, 0)
}

// toText maps a shown offset to the buffer. Offsets inside an expanded tab
// land on the tab.
func (p projection) toText(d int) int {
	return p.units[p.at(d)].text
}

// toShown maps a buffer offset to shown. Offsets inside a unit land on its
// start.
func (p projection) toShown(t int) int {
	i := sort.Search(len(p.units), func(k int) bool { return p.units[k].text > t })
	return p.units[max(i-1, 0)].shown
}

// splice carries the edit that turned shown into next over to text. Only the
// units the edit touches are replaced, so tabs and line endings elsewhere
// survive.
func (p projection) splice(text, next string) string {
	old := p.shown
	pre := 0
	for pre < len(old) && pre < len(next) && old[pre] == next[pre] {
		pre++
	}
	suf := 0
	for suf < len(old)-pre && suf < len(next)-pre && old[len(old)-1-suf] == next[len(next)-1-suf] {
		suf++
	}

	first := p.units[p.at(pre)]
	end := len(old) - suf
	last := p.units[sort.Search(len(p.units), func(k int) bool { return p.units[k].shown >= end })]

	return text[:first.text] + next[first.shown:len(next)-(len(old)-last.shown)] + text[last.text:]
}
