package chat

import (
	"context"
	"errors"
	"io"

	"github.com/maduarte/chatdeck/internal/models"
)

// SendFailureNotice replaces an assistant placeholder that never received
// any content before its stream failed.
const SendFailureNotice = "Error sending message. Please try again."

// DeltaStream is an open streaming response. Recv returns one text delta
// per call in arrival order and io.EOF on clean termination.
type DeltaStream interface {
	Recv() (string, error)
	Close() error
}

// StreamOpener opens a streaming exchange for a new user message
type StreamOpener interface {
	OpenStream(ctx context.Context, sessionID, message string) (DeltaStream, error)
}

// OpenStreamFunc adapts a function to the StreamOpener interface
type OpenStreamFunc func(ctx context.Context, sessionID, message string) (DeltaStream, error)

// OpenStream implements StreamOpener
func (f OpenStreamFunc) OpenStream(ctx context.Context, sessionID, message string) (DeltaStream, error) {
	return f(ctx, sessionID, message)
}

// StreamIngestor turns a streaming exchange into a live-updating transcript:
// it appends the user message and an empty assistant placeholder, then grows
// the placeholder in place as deltas arrive.
type StreamIngestor struct {
	opener StreamOpener
	store  *MessageStore
	notify func()
}

// NewStreamIngestor creates an ingestor writing into store. notify is
// invoked after every transcript change and may be nil.
func NewStreamIngestor(opener StreamOpener, store *MessageStore, notify func()) *StreamIngestor {
	if notify == nil {
		notify = func() {}
	}
	return &StreamIngestor{opener: opener, store: store, notify: notify}
}

// Run sends text on sessionID's stream and folds the response into the
// store until the stream terminates. It blocks until then.
//
// The placeholder appended up front exists for the whole duration of the
// stream; it is never re-created, only grown, one MutateLast per delta in
// exact arrival order.
//
// live is consulted at every delta boundary, not only at stream start: a
// session switch mid-stream halts further mutation even though the bytes
// may keep arriving. A discarded delta stops the ingest loop entirely.
//
// Failure policy: a transport error before any delta arrived converts the
// placeholder into a system-role notice; after partial content arrived the
// partial text stands as the final assistant message, with no error marker.
// The terminal substitution is gated on live like any delta.
func (ing *StreamIngestor) Run(ctx context.Context, sessionID, text string, live func() bool) error {
	if err := ing.store.Append(models.Message{Role: models.RoleUser, Content: text}); err != nil {
		return err
	}
	if err := ing.store.Append(models.Message{Role: models.RoleAssistant, Content: ""}); err != nil {
		return err
	}
	ing.notify()

	stream, err := ing.opener.OpenStream(ctx, sessionID, text)
	if err != nil {
		ing.failPlaceholder(live)
		return err
	}
	defer func() { _ = stream.Close() }()

	applied := 0
	for {
		delta, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Clean end: the accumulated content is the answer.
				return nil
			}
			if applied == 0 {
				ing.failPlaceholder(live)
			}
			return err
		}

		if live != nil && !live() {
			// The stream belongs to a session the user has left.
			return nil
		}

		ing.store.MutateLast(func(m *models.Message) {
			m.Content += delta
		})
		applied++
		ing.notify()
	}
}

// failPlaceholder converts the empty assistant placeholder into a
// system-role failure notice, unless the stream has gone stale
func (ing *StreamIngestor) failPlaceholder(live func() bool) {
	if live != nil && !live() {
		return
	}
	ing.store.MutateLast(func(m *models.Message) {
		m.Role = models.RoleSystem
		m.Content = SendFailureNotice
	})
	ing.notify()
}
