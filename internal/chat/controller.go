package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

// Backend is the transport surface the controller needs: history fetch
// plus stream opening. *api.Client satisfies it through a thin adapter.
type Backend interface {
	HistoryFetcher
	StreamOpener
}

// Controller owns the active session and serializes transcript access
// between history loads, streaming sends, and session switches.
type Controller struct {
	mu sync.Mutex

	store    *MessageStore
	loader   *HistoryLoader
	ingestor *StreamIngestor

	current *models.Session
	epoch   uint64
	sending bool
	loading bool
	cancel  context.CancelFunc

	notify func()
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithNotify registers a callback invoked after every transcript change.
// Callers use it to trigger a re-render; it must not block.
func WithNotify(fn func()) ControllerOption {
	return func(c *Controller) {
		c.notify = fn
	}
}

// NewController creates a controller over backend with an empty transcript
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:  NewMessageStore(),
		notify: func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.loader = NewHistoryLoader(backend, c.store)
	c.ingestor = NewStreamIngestor(backend, c.store, c.notify)
	return c
}

// SwitchSession makes s the active session and loads its history,
// replacing the transcript. Any in-flight send or load for the previous
// session is cancelled and can no longer touch the transcript. A nil
// session deactivates the controller and clears the transcript.
func (c *Controller) SwitchSession(ctx context.Context, s *models.Session) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.epoch++
	c.current = s
	c.sending = false

	if s == nil {
		c.loading = false
		c.mu.Unlock()
		c.store.Clear()
		c.notify()
		return nil
	}

	c.loading = true
	epoch := c.epoch
	live := c.liveFunc(s.ID, epoch)
	c.mu.Unlock()
	c.notify()

	err := c.loader.Load(ctx, s.ID, live)

	c.mu.Lock()
	if c.liveLocked(s.ID, epoch) {
		c.loading = false
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// Send streams text on the active session, blocking until the stream
// terminates. Blank input and overlapping sends are dropped silently;
// sending with no active session is an error.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return errors.ErrSessionNotFound
	}
	if c.sending || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.sending = true
	sessionID := c.current.ID
	epoch := c.epoch
	live := c.liveFunc(sessionID, epoch)
	sendCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	err := c.ingestor.Run(sendCtx, sessionID, text, live)

	c.mu.Lock()
	if c.liveLocked(sessionID, epoch) {
		c.sending = false
		c.cancel = nil
	}
	cancel()
	c.mu.Unlock()
	c.notify()
	return err
}

// liveFunc returns a guard bound to the session and switch generation at
// the moment a load or send begins. It reports false once the user has
// switched away, even if they later switch back to the same session.
func (c *Controller) liveFunc(sessionID string, epoch uint64) func() bool {
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.liveLocked(sessionID, epoch)
	}
}

func (c *Controller) liveLocked(sessionID string, epoch uint64) bool {
	return c.current != nil && c.current.ID == sessionID && c.epoch == epoch
}

// Messages returns a snapshot of the active transcript
func (c *Controller) Messages() []models.Message {
	return c.store.Messages()
}

// Current returns the active session, nil when none is selected
func (c *Controller) Current() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Sending reports whether a send is in flight
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// HistoryLoading reports whether a history load is in flight
func (c *Controller) HistoryLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
