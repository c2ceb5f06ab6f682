package session

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Event is an input from the editing widget.
type Event interface {
	isEvent()
}

// ContentChanged carries the widget's text after an edit.
type ContentChanged struct {
	Text string
}

// Mod is a set of modifier keys.
type Mod uint8

const (
	Ctrl Mod = 1 << iota
	Alt
	Shift
)

// KeyPressed is a key with its modifiers. Key is the bare key name ("t",
// "enter").
type KeyPressed struct {
	Key  string
	Mods Mod
}

// String renders the key the way key bindings name it, e.g. "ctrl+t".
func (k KeyPressed) String() string {
	var b strings.Builder
	if k.Mods&Ctrl != 0 {
		b.WriteString("ctrl+")
	}
	if k.Mods&Alt != 0 {
		b.WriteString("alt+")
	}
	if k.Mods&Shift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(k.Key)
	return b.String()
}

// ParseKey turns a binding name like "ctrl+t" back into a KeyPressed.
func ParseKey(s string) KeyPressed {
	var k KeyPressed
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+"):
			k.Mods |= Ctrl
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+"):
			k.Mods |= Alt
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			k.Mods |= Shift
			s = s[len("shift+"):]
		default:
			k.Key = s
			return k
		}
	}
}

// DoubleClickAt is a double click at a byte offset of the text.
type DoubleClickAt struct {
	Offset int
}

func (ContentChanged) isEvent() {}
func (KeyPressed) isEvent()     {}
func (DoubleClickAt) isEvent()  {}

// KeyMap binds the session commands.
type KeyMap struct {
	Toggle key.Binding
	Today  key.Binding
	Save   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "cycle task"),
		),
		Today: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "today"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
	}
}
