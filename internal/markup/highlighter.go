package markup

// Highlighter keeps the spans of the last tokenized text. Highlight returns
// the retained spans unchanged until Clear is called, whatever text it is
// given; callers clear it on every input event that may have edited the text
// and leave it alone on redraw-only frames.
type Highlighter struct {
	spans  []Span
	cached bool
	runs   int
}

// Highlight returns the spans of text, tokenizing only when the cache is empty.
func (h *Highlighter) Highlight(text string) []Span {
	if !h.cached {
		h.spans = Tokenize(text)
		h.cached = true
		h.runs++
	}
	return h.spans
}

// Clear drops the cached spans.
func (h *Highlighter) Clear() {
	h.spans = nil
	h.cached = false
}

// Cached reports whether spans are retained.
func (h *Highlighter) Cached() bool { return h.cached }

// Runs counts how many times the highlighter actually tokenized.
func (h *Highlighter) Runs() int { return h.runs }

// Layout is text with its spans and the width it should be wrapped at.
// WrapWidth <= 0 disables wrapping.
type Layout struct {
	Text      string
	Spans     []Span
	WrapWidth int
}

// Layout highlights text and pairs it with the wrap width.
func (h *Highlighter) Layout(text string, wrapWidth int) Layout {
	return Layout{Text: text, Spans: h.Highlight(text), WrapWidth: wrapWidth}
}

// LinkAt returns the hyperlink whose span contains offset.
func (l Layout) LinkAt(offset int) (string, bool) {
	return linkIn(l.Spans, l.Text, offset)
}

// LinkAt tokenizes text and returns the hyperlink whose span contains offset.
func LinkAt(text string, offset int) (string, bool) {
	return linkIn(Tokenize(text), text, offset)
}

func linkIn(spans []Span, text string, offset int) (string, bool) {
	for _, sp := range spans {
		if sp.Start > offset {
			break
		}
		if !sp.Style.Link || offset >= sp.End || sp.End > len(text) {
			continue
		}
		return sp.Text(text), true
	}
	return "", false
}

// Links returns every hyperlink in text in order of appearance.
func Links(text string) []string {
	var out []string
	for _, sp := range Tokenize(text) {
		if sp.Style.Link {
			out = append(out, sp.Text(text))
		}
	}
	return out
}
