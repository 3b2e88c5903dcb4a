package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a color scheme for the chat interface.
type Theme struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var (
	TokyoNightTheme = Theme{
		Name:       "tokyonight",
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#9ece6a"),
		Accent:     lipgloss.Color("#bb9af7"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Text:       lipgloss.Color("#c0caf5"),
		TextDim:    lipgloss.Color("#565f89"),
	}

	CatppuccinTheme = Theme{
		Name:       "catppuccin",
		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),
		Primary:    lipgloss.Color("#89b4fa"),
		Secondary:  lipgloss.Color("#a6e3a1"),
		Accent:     lipgloss.Color("#cba6f7"),
		Warning:    lipgloss.Color("#f9e2af"),
		Error:      lipgloss.Color("#f38ba8"),
		Text:       lipgloss.Color("#cdd6f4"),
		TextDim:    lipgloss.Color("#6c7086"),
	}

	NordTheme = Theme{
		Name:       "nord",
		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),
		Primary:    lipgloss.Color("#88c0d0"),
		Secondary:  lipgloss.Color("#a3be8c"),
		Accent:     lipgloss.Color("#b48ead"),
		Warning:    lipgloss.Color("#ebcb8b"),
		Error:      lipgloss.Color("#bf616a"),
		Text:       lipgloss.Color("#eceff4"),
		TextDim:    lipgloss.Color("#7b88a1"),
	}
)

var themes = []Theme{TokyoNightTheme, CatppuccinTheme, NordTheme}

// ThemeByName returns the theme registered under name.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// AvailableThemes lists the built-in themes.
func AvailableThemes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeNames lists the built-in theme names.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
