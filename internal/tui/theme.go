package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vinayprograms/dayjot/internal/config"
	"github.com/vinayprograms/dayjot/internal/markup"
)

// Theme colors the editor text and the chrome around it.
type Theme struct {
	Markup   markup.Theme
	Saved    lipgloss.TerminalColor
	Unsaved  lipgloss.TerminalColor
	Tree     lipgloss.TerminalColor
	Selected lipgloss.TerminalColor
}

// DefaultTheme is the dark palette.
func DefaultTheme() Theme {
	return Theme{
		Markup:   markup.DefaultTheme(),
		Saved:    lipgloss.Color("10"),
		Unsaved:  lipgloss.Color("11"),
		Tree:     lipgloss.Color("8"),
		Selected: lipgloss.Color("14"),
	}
}

// ThemeFromConfig builds a theme from resolved config colors.
func ThemeFromConfig(c config.ColorScheme) Theme {
	return Theme{
		Markup: markup.Theme{
			Text:      lipgloss.Color(c.Text),
			Header:    lipgloss.Color(c.Header),
			Completed: lipgloss.Color(c.Completed),
			Cancelled: lipgloss.Color(c.Cancelled),
			Code:      lipgloss.Color(c.Code),
			CodeBg:    lipgloss.Color(c.CodeBg),
			Link:      lipgloss.Color(c.Link),
		},
		Saved:    lipgloss.Color(c.Saved),
		Unsaved:  lipgloss.Color(c.Unsaved),
		Tree:     lipgloss.Color(c.Tree),
		Selected: lipgloss.Color(c.Selected),
	}
}
