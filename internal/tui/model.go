package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maduarte/chatdeck/internal/chat"
	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
	"github.com/maduarte/chatdeck/internal/render"
)

// SessionDirectory lists and creates sessions for the selector overlay.
// *api.Client satisfies it.
type SessionDirectory interface {
	ListSessions(ctx context.Context, projectID string) ([]models.Session, error)
	CreateSession(ctx context.Context, projectID, title, chatModel string) (*models.Session, error)
}

// Message types for the TUI
type (
	// transcriptMsg signals the controller changed the transcript
	transcriptMsg struct{}

	sendDoneMsg struct {
		err error
	}
	switchDoneMsg struct {
		err error
	}
	sessionsLoadedMsg struct {
		sessions []models.Session
		err      error
	}
	sessionCreatedMsg struct {
		session *models.Session
		err     error
	}
)

// ChatConfig carries the initial state for the chat interface.
type ChatConfig struct {
	ProjectID string
	ModelName string
	Session   *models.Session
}

// Model is the bubbletea model for the chat interface.
type Model struct {
	ctrl *chat.Controller
	dir  SessionDirectory
	cfg  ChatConfig

	// updates carries controller change notifications into the
	// bubbletea event loop
	updates chan struct{}

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready bool
	err   error

	// Session selector state
	selecting       bool
	sessionsList    []models.Session
	sessionsCursor  int
	sessionsLoading bool
	sessionsFilter  string

	width  int
	height int
}

// NewChatModel builds the chat interface over backend and dir.
func NewChatModel(backend chat.Backend, dir SessionDirectory, cfg ChatConfig) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	updates := make(chan struct{}, 8)
	ctrl := chat.NewController(backend, chat.WithNotify(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}))

	return Model{
		ctrl:     ctrl,
		dir:      dir,
		cfg:      cfg,
		updates:  updates,
		textarea: ta,
		spinner:  s,
	}
}

// Controller exposes the session controller, mainly for tests.
func (m Model) Controller() *chat.Controller {
	return m.ctrl
}

// Init starts the event loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.spinner.Tick,
		m.waitForUpdate(),
	}
	if m.cfg.Session != nil {
		cmds = append(cmds, m.switchCmd(m.cfg.Session))
	}
	return tea.Batch(cmds...)
}

// waitForUpdate blocks on the controller notification channel and turns
// each signal into a transcriptMsg.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return transcriptMsg{}
	}
}

func (m Model) switchCmd(s *models.Session) tea.Cmd {
	return func() tea.Msg {
		return switchDoneMsg{err: m.ctrl.SwitchSession(context.Background(), s)}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: m.ctrl.Send(context.Background(), text)}
	}
}

func (m Model) loadSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.dir == nil {
			return sessionsLoadedMsg{err: fmt.Errorf("no session directory available")}
		}
		sessions, err := m.dir.ListSessions(context.Background(), m.cfg.ProjectID)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m Model) createSessionCmd() tea.Cmd {
	return func() tea.Msg {
		if m.dir == nil {
			return sessionCreatedMsg{err: fmt.Errorf("no session directory available")}
		}
		s, err := m.dir.CreateSession(context.Background(), m.cfg.ProjectID, "", m.cfg.ModelName)
		return sessionCreatedMsg{session: s, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selecting {
		return m.updateSessionSelector(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+s":
			return m.openSessionSelector()

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.ctrl.Sending() || m.ctrl.HistoryLoading() {
				break
			}
			switch input {
			case "exit", "quit", "/exit", "/quit":
				return m, tea.Quit
			case "/sessions":
				m.textarea.Reset()
				return m.openSessionSelector()
			case "/new":
				m.textarea.Reset()
				return m, m.createSessionCmd()
			}

			m.err = nil
			m.textarea.Reset()
			return m, tea.Batch(m.sendCmd(input), m.spinner.Tick, m.waitForUpdate())
		}

	case transcriptMsg:
		m.updateViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, m.waitForUpdate())

	case sendDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case switchDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case sessionCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.cfg.Session = msg.session
			cmds = append(cmds, m.switchCmd(msg.session))
		}

	case spinner.TickMsg:
		if m.ctrl.Sending() || m.ctrl.HistoryLoading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.ctrl.Sending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
}

// View renders the interface.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selecting {
		return m.renderSessionSelector()
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if len(m.ctrl.Messages()) == 0 && !m.ctrl.HistoryLoading() {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	switch {
	case m.ctrl.HistoryLoading():
		inputContent = loadingStyle.Render(m.spinner.View() + " Loading history...")
	case m.ctrl.Sending():
		inputContent = loadingStyle.Render(m.spinner.View() + " Waiting for response...")
	default:
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	parts := []string{
		titleStyle.Render("◆ chatdeck"),
	}
	if current := m.ctrl.Current(); current != nil {
		parts = append(parts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(current.Title),
		)
	}
	if m.cfg.ModelName != "" {
		parts = append(parts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.cfg.ModelName),
		)
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return headerStyle.Width(width).Render(content)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	title := welcomeTitleStyle.Width(width).Render("Welcome to chatdeck")
	subtitle := welcomeStyle.Width(width).Render("Type a message to start, or press Ctrl+S to pick a session")

	content := lipgloss.JoinVertical(lipgloss.Center, "", title, "", subtitle, "")

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+S", "Sessions"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport rebuilds the viewport content from the transcript.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch msg.Role {
		case models.RoleUser:
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)

		case models.RoleSystem:
			content.WriteString(systemNoticeStyle.Width(bubbleWidth).Render("⚠ " + msg.Content))

		default:
			label := assistantLabelStyle.Render("◆ Assistant")
			rendered, err := render.MarkdownWithWidth(msg.Content, bubbleWidth-4)
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError renders an error with a recovery hint where one applies.
func (m Model) formatError(err error) string {
	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	hint := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)
	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("Try 'chatdeck login' to refresh your session"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("The response timed out. Try again"))
	case apierrors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(hint.Render("Check your connection to the server"))
	}

	return sb.String()
}

// RunChat starts the chat TUI and blocks until the user quits.
func RunChat(backend chat.Backend, dir SessionDirectory, cfg ChatConfig) error {
	p := tea.NewProgram(
		NewChatModel(backend, dir, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
