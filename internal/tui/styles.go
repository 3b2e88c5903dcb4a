// Package tui provides the terminal chat interface for chatdeck.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/maduarte/chatdeck/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	systemNoticeStyle    lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style

	selectorTitleStyle    lipgloss.Style
	selectorItemStyle     lipgloss.Style
	selectorSelectedStyle lipgloss.Style
	selectorCursorStyle   lipgloss.Style
	selectorMetaStyle     lipgloss.Style
)

func init() {
	ApplyTheme(render.TokyoNightTheme)
}

// SetTheme activates the named theme; unknown names keep the current one.
func SetTheme(name string) bool {
	theme, ok := render.ThemeByName(name)
	if !ok {
		return false
	}
	ApplyTheme(theme)
	return true
}

// ApplyTheme rebuilds every style from the given color scheme.
func ApplyTheme(theme render.Theme) {
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	systemNoticeStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Italic(true).
		MarginLeft(2)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	selectorTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	selectorItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	selectorSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	selectorCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	selectorMetaStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)
}
