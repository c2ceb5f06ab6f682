package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vinayprograms/dayjot/internal/session"
)

// KeyMap is every binding the terminal host answers to. The session's own
// commands are embedded; the rest are handled here.
type KeyMap struct {
	session.KeyMap
	PrevDay     key.Binding
	NextDay     key.Binding
	OpenLink    key.Binding
	ApplyUpdate key.Binding
	Quit        key.Binding
}

// DefaultKeyMap extends the session bindings with the host's. None of the
// host keys collide with the textarea's editing keys.
func DefaultKeyMap(s session.KeyMap) KeyMap {
	return KeyMap{
		KeyMap: s,
		PrevDay: key.NewBinding(
			key.WithKeys("alt+p", "alt+up"),
			key.WithHelp("alt+p", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("alt+n", "alt+down"),
			key.WithHelp("alt+n", "next day"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open link"),
		),
		ApplyUpdate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restart into update"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Save, k.Today, k.PrevDay, k.NextDay, k.OpenLink, k.ApplyUpdate, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Save, k.OpenLink},
		{k.Today, k.PrevDay, k.NextDay},
		{k.ApplyUpdate, k.Quit},
	}
}
