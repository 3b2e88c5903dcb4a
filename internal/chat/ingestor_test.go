package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/maduarte/chatdeck/internal/models"
)

// scriptedStream replays a fixed sequence of deltas and terminates with
// finalErr (io.EOF for a clean end).
type scriptedStream struct {
	deltas   []string
	finalErr error
	idx      int
	closed   bool
}

func (s *scriptedStream) Recv() (string, error) {
	if s.idx < len(s.deltas) {
		delta := s.deltas[s.idx]
		s.idx++
		return delta, nil
	}
	return "", s.finalErr
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func scriptedOpener(stream *scriptedStream) StreamOpener {
	return OpenStreamFunc(func(ctx context.Context, sessionID, message string) (DeltaStream, error) {
		return stream, nil
	})
}

func TestIngestorAppliesDeltasInOrder(t *testing.T) {
	store := NewMessageStore()
	stream := &scriptedStream{deltas: []string{"Hi", " there"}, finalErr: io.EOF}
	ing := NewStreamIngestor(scriptedOpener(stream), store, nil)

	if err := ing.Run(context.Background(), "sess-1", "Hello", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "Hello" {
		t.Errorf("msgs[0] = %+v, want user/Hello", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "Hi there" {
		t.Errorf("msgs[1] = %+v, want assistant/\"Hi there\"", msgs[1])
	}
	if !stream.closed {
		t.Error("stream was not closed")
	}
}

func TestIngestorPlaceholderVisibleBeforeFirstDelta(t *testing.T) {
	store := NewMessageStore()
	var lenAtOpen int
	opener := OpenStreamFunc(func(ctx context.Context, sessionID, message string) (DeltaStream, error) {
		lenAtOpen = store.Len()
		return &scriptedStream{finalErr: io.EOF}, nil
	})
	ing := NewStreamIngestor(opener, store, nil)

	if err := ing.Run(context.Background(), "sess-1", "Hello", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if lenAtOpen != 2 {
		t.Errorf("transcript held %d messages at stream open, want user + placeholder", lenAtOpen)
	}
}

func TestIngestorZeroDeltaFailureSubstitutesNotice(t *testing.T) {
	store := NewMessageStore()
	streamErr := errors.New("connection reset")
	stream := &scriptedStream{finalErr: streamErr}
	ing := NewStreamIngestor(scriptedOpener(stream), store, nil)

	err := ing.Run(context.Background(), "sess-1", "Hello", nil)
	if !errors.Is(err, streamErr) {
		t.Fatalf("Run() error = %v, want %v", err, streamErr)
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[1].Role != models.RoleSystem {
		t.Errorf("msgs[1].Role = %q, want system", msgs[1].Role)
	}
	if msgs[1].Content != SendFailureNotice {
		t.Errorf("msgs[1].Content = %q, want %q", msgs[1].Content, SendFailureNotice)
	}
}

func TestIngestorOpenFailureSubstitutesNotice(t *testing.T) {
	store := NewMessageStore()
	openErr := errors.New("dial tcp: refused")
	opener := OpenStreamFunc(func(ctx context.Context, sessionID, message string) (DeltaStream, error) {
		return nil, openErr
	})
	ing := NewStreamIngestor(opener, store, nil)

	err := ing.Run(context.Background(), "sess-1", "Hello", nil)
	if !errors.Is(err, openErr) {
		t.Fatalf("Run() error = %v, want %v", err, openErr)
	}

	msgs := store.Messages()
	if len(msgs) != 2 || msgs[1].Role != models.RoleSystem || msgs[1].Content != SendFailureNotice {
		t.Errorf("unexpected transcript after failed open: %+v", msgs)
	}
}

func TestIngestorPartialFailureKeepsContent(t *testing.T) {
	store := NewMessageStore()
	stream := &scriptedStream{deltas: []string{"Par"}, finalErr: errors.New("connection reset")}
	ing := NewStreamIngestor(scriptedOpener(stream), store, nil)

	if err := ing.Run(context.Background(), "sess-1", "Hello", nil); err == nil {
		t.Fatal("Run() error = nil, want the transport error")
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "Par" {
		t.Errorf("msgs[1] = %+v, want the partial assistant text with no error marker", msgs[1])
	}
}

func TestIngestorStopsOnStaleDelta(t *testing.T) {
	store := NewMessageStore()
	stream := &scriptedStream{deltas: []string{"a", "b", "c"}, finalErr: io.EOF}
	ing := NewStreamIngestor(scriptedOpener(stream), store, nil)

	calls := 0
	live := func() bool {
		calls++
		return calls <= 1
	}

	if err := ing.Run(context.Background(), "sess-1", "Hello", live); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	msgs := store.Messages()
	if msgs[1].Content != "a" {
		t.Errorf("msgs[1].Content = %q, want only the delta applied while live", msgs[1].Content)
	}
	if !stream.closed {
		t.Error("stream was not closed after going stale")
	}
}

func TestIngestorStaleFailureSkipsNotice(t *testing.T) {
	store := NewMessageStore()
	stream := &scriptedStream{finalErr: errors.New("connection reset")}
	ing := NewStreamIngestor(scriptedOpener(stream), store, nil)

	dead := func() bool { return false }
	if err := ing.Run(context.Background(), "sess-1", "Hello", dead); err == nil {
		t.Fatal("Run() error = nil, want the transport error")
	}

	// The placeholder stays untouched: the notice belongs to a session
	// the user has already left.
	msgs := store.Messages()
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "" {
		t.Errorf("msgs[1] = %+v, want the untouched placeholder", msgs[1])
	}
}

func TestIngestorNotifiesPerDelta(t *testing.T) {
	store := NewMessageStore()
	stream := &scriptedStream{deltas: []string{"a", "b"}, finalErr: io.EOF}

	notified := 0
	ing := NewStreamIngestor(scriptedOpener(stream), store, func() { notified++ })

	if err := ing.Run(context.Background(), "sess-1", "Hello", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// One for the user+placeholder append, one per delta.
	if notified != 3 {
		t.Errorf("notify fired %d times, want 3", notified)
	}
}
