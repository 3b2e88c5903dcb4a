package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maduarte/chatdeck/internal/models"
)

// openSessionSelector enters the session selector overlay and kicks off
// the listing request.
func (m Model) openSessionSelector() (tea.Model, tea.Cmd) {
	m.selecting = true
	m.sessionsLoading = true
	m.sessionsCursor = 0
	m.sessionsFilter = ""
	m.sessionsList = nil
	return m, m.loadSessionsCmd()
}

func (m Model) closeSessionSelector() Model {
	m.selecting = false
	m.sessionsList = nil
	m.sessionsCursor = 0
	m.sessionsFilter = ""
	return m
}

// updateSessionSelector handles input while the selector overlay is open.
func (m Model) updateSessionSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionsLoadedMsg:
		m.sessionsLoading = false
		if msg.err != nil {
			m = m.closeSessionSelector()
			m.err = msg.err
		} else {
			m.sessionsList = msg.sessions
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m = m.closeSessionSelector()

		case "up", "ctrl+k":
			if n := len(m.filteredSessions()); n > 0 {
				m.sessionsCursor--
				if m.sessionsCursor < 0 {
					m.sessionsCursor = n - 1
				}
			}

		case "down", "ctrl+j":
			if n := len(m.filteredSessions()); n > 0 {
				m.sessionsCursor++
				if m.sessionsCursor >= n {
					m.sessionsCursor = 0
				}
			}

		case "enter":
			filtered := m.filteredSessions()
			if len(filtered) > 0 && m.sessionsCursor < len(filtered) {
				selected := filtered[m.sessionsCursor]
				m = m.closeSessionSelector()
				m.err = nil
				return m, tea.Batch(m.switchCmd(&selected), m.waitForUpdate())
			}

		case "backspace":
			if len(m.sessionsFilter) > 0 {
				m.sessionsFilter = m.sessionsFilter[:len(m.sessionsFilter)-1]
				m.sessionsCursor = 0
			}

		default:
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					m.sessionsFilter += msg.String()
					m.sessionsCursor = 0
				}
			}
		}
	}

	return m, nil
}

// filteredSessions returns the sessions matching the typed filter.
func (m Model) filteredSessions() []models.Session {
	if m.sessionsFilter == "" {
		return m.sessionsList
	}

	filter := strings.ToLower(m.sessionsFilter)
	var filtered []models.Session
	for _, s := range m.sessionsList {
		if strings.Contains(strings.ToLower(s.Title), filter) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// renderSessionSelector draws the selector overlay.
func (m Model) renderSessionSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	title := selectorTitleStyle.Render("Select a session")
	if current := m.ctrl.Current(); current != nil {
		title += hintStyle.Render(fmt.Sprintf("  (current: %s)", current.Title))
	}
	content.WriteString(title)
	content.WriteString("\n\n")

	if m.sessionsFilter != "" {
		content.WriteString(inputLabelStyle.Render("filter: ") + m.sessionsFilter + "_")
		content.WriteString("\n\n")
	}

	switch {
	case m.sessionsLoading:
		content.WriteString(loadingStyle.Render("  Loading sessions..."))
	case len(m.sessionsList) == 0:
		content.WriteString(hintStyle.Render("  No sessions yet. Type /new in the chat to create one"))
	default:
		m.renderSessionItems(&content, width)
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Open"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return box.Render(content.String())
}

func (m Model) renderSessionItems(content *strings.Builder, width int) {
	filtered := m.filteredSessions()
	if len(filtered) == 0 {
		content.WriteString(hintStyle.Render("  No sessions match filter"))
		return
	}

	maxItems := 10
	startIdx := 0
	if m.sessionsCursor >= maxItems {
		startIdx = m.sessionsCursor - maxItems + 1
	}
	endIdx := startIdx + maxItems
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	if startIdx > 0 {
		content.WriteString(hintStyle.Render("  ↑ more above"))
		content.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		s := filtered[i]
		cursor := "  "
		style := selectorItemStyle
		if i == m.sessionsCursor {
			cursor = selectorCursorStyle.Render("▸ ")
			style = selectorSelectedStyle
		}

		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		line := cursor + style.Render(title)

		meta := s.ChatModel
		if !s.CreatedAt.IsZero() {
			meta = s.CreatedAt.Format("2006-01-02") + "  " + meta
		}
		if meta != "" {
			maxMeta := width - lipgloss.Width(line) - 4
			if maxMeta > 10 {
				if len(meta) > maxMeta {
					meta = meta[:maxMeta-3] + "..."
				}
				line += selectorMetaStyle.Render("  " + meta)
			}
		}

		content.WriteString(line)
		content.WriteString("\n")
	}

	if endIdx < len(filtered) {
		content.WriteString(hintStyle.Render("  ↓ more below"))
		content.WriteString("\n")
	}
}
