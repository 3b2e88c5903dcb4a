package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maduarte/chatdeck/internal/chat"
	"github.com/maduarte/chatdeck/internal/models"
)

// stubStream replays fixed deltas then ends cleanly.
type stubStream struct {
	deltas []string
	idx    int
}

func (s *stubStream) Recv() (string, error) {
	if s.idx < len(s.deltas) {
		d := s.deltas[s.idx]
		s.idx++
		return d, nil
	}
	return "", io.EOF
}

func (s *stubStream) Close() error { return nil }

// stubBackend serves canned history, sessions and streams.
type stubBackend struct {
	history  map[string][]models.Message
	sessions []models.Session
	listErr  error
	deltas   []string
}

func (b *stubBackend) FetchHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	return b.history[sessionID], nil
}

func (b *stubBackend) OpenStream(ctx context.Context, sessionID, message string) (chat.DeltaStream, error) {
	return &stubStream{deltas: b.deltas}, nil
}

func (b *stubBackend) ListSessions(ctx context.Context, projectID string) ([]models.Session, error) {
	return b.sessions, b.listErr
}

func (b *stubBackend) CreateSession(ctx context.Context, projectID, title, chatModel string) (*models.Session, error) {
	s := models.Session{ID: "sess-new", ProjectID: projectID, Title: "New Conversation", ChatModel: chatModel}
	return &s, nil
}

func newTestModel(backend *stubBackend) Model {
	m := NewChatModel(backend, backend, ChatConfig{ProjectID: "proj-1", ModelName: "test-model"})
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return resized.(Model)
}

func TestModelUpdateWindowSize(t *testing.T) {
	m := NewChatModel(&stubBackend{}, nil, ChatConfig{})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	typed, ok := updated.(Model)
	if !ok {
		t.Fatal("Update should return Model type")
	}
	if typed.width != 100 || typed.height != 40 {
		t.Errorf("dimensions = %dx%d, want 100x40", typed.width, typed.height)
	}
	if !typed.ready {
		t.Error("model should be ready after WindowSizeMsg")
	}
}

func TestModelUpdateCtrlC(t *testing.T) {
	m := newTestModel(&stubBackend{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command for Ctrl+C")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want tea.Quit", msg)
	}
}

func TestModelViewNotReady(t *testing.T) {
	m := NewChatModel(&stubBackend{}, nil, ChatConfig{})

	if view := m.View(); !strings.Contains(view, "Initializing") {
		t.Errorf("View() before first resize = %q", view)
	}
}

func TestModelViewWelcome(t *testing.T) {
	m := newTestModel(&stubBackend{})

	if view := m.View(); !strings.Contains(view, "Welcome to chatdeck") {
		t.Error("empty transcript should show the welcome screen")
	}
}

func TestModelViewWithMessages(t *testing.T) {
	backend := &stubBackend{history: map[string][]models.Message{
		"sess-1": {
			{Role: models.RoleUser, Content: "Hello"},
			{Role: models.RoleAssistant, Content: "Hi there!"},
		},
	}}
	m := newTestModel(backend)

	if err := m.Controller().SwitchSession(context.Background(), &models.Session{ID: "sess-1", Title: "First"}); err != nil {
		t.Fatalf("SwitchSession() error = %v", err)
	}
	m.updateViewport()

	view := m.View()
	if !strings.Contains(view, "Hello") {
		t.Error("view missing the user message")
	}
	if !strings.Contains(view, "Hi there!") {
		t.Error("view missing the assistant message")
	}
	if !strings.Contains(view, "First") {
		t.Error("header missing the session title")
	}
}

func TestModelSendFlow(t *testing.T) {
	backend := &stubBackend{
		history: map[string][]models.Message{},
		deltas:  []string{"Hi", " there"},
	}
	m := newTestModel(backend)
	if err := m.Controller().SwitchSession(context.Background(), &models.Session{ID: "sess-1"}); err != nil {
		t.Fatalf("SwitchSession() error = %v", err)
	}

	m.textarea.SetValue("Hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typed := updated.(Model)

	if typed.textarea.Value() != "" {
		t.Error("textarea not reset after send")
	}
	if cmd == nil {
		t.Fatal("expected a send command batch")
	}

	// Run the batch until the blocking send completes. The batch order
	// puts the send first, so the update waiter finds a buffered signal.
	runUntilSendDone(t, cmd)

	msgs := typed.Controller().Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[1].Content != "Hi there" {
		t.Errorf("assistant content = %q, want %q", msgs[1].Content, "Hi there")
	}
}

func runUntilSendDone(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("nil command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a command batch from Enter")
	}
	for _, sub := range batch {
		if sub == nil {
			continue
		}
		if _, done := sub().(sendDoneMsg); done {
			return
		}
	}
	t.Fatal("send command never completed")
}

func TestModelQuitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit"} {
		backend := &stubBackend{history: map[string][]models.Message{}}
		m := newTestModel(backend)
		if err := m.Controller().SwitchSession(context.Background(), &models.Session{ID: "s"}); err != nil {
			t.Fatalf("SwitchSession() error = %v", err)
		}

		m.textarea.SetValue(word)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Errorf("no command from %q, want quit", word)
			continue
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("%q produced %v, want tea.Quit", word, msg)
		}
	}
}

func TestModelSessionCreated(t *testing.T) {
	m := newTestModel(&stubBackend{})

	s := &models.Session{ID: "sess-new", Title: "New Conversation"}
	updated, cmd := m.Update(sessionCreatedMsg{session: s})
	typed := updated.(Model)

	if typed.cfg.Session == nil || typed.cfg.Session.ID != "sess-new" {
		t.Errorf("cfg.Session = %+v, want the created session", typed.cfg.Session)
	}
	if cmd == nil {
		t.Error("expected a switch command after session creation")
	}
}

func TestModelSessionCreationFailure(t *testing.T) {
	m := newTestModel(&stubBackend{})

	updated, _ := m.Update(sessionCreatedMsg{err: errors.New("boom")})
	if updated.(Model).err == nil {
		t.Error("creation failure not surfaced")
	}
}

func TestFormatErrorHints(t *testing.T) {
	m := newTestModel(&stubBackend{})

	out := m.formatError(errors.New("plain failure"))
	if !strings.Contains(out, "plain failure") {
		t.Errorf("formatted error missing message: %q", out)
	}
}
