// Package chat implements the streaming session client: transcript state,
// history loading, stream ingestion and session orchestration.
package chat

import (
	"fmt"
	"sync"

	"github.com/maduarte/chatdeck/internal/models"
)

// MessageStore holds the ordered transcript of the currently open session.
// It is a pure state container: it knows nothing about networking.
//
// Messages are append-only except for the last assistant message, which is
// grown in place while a stream is active. At most one message is ever open
// for streaming at a time.
type MessageStore struct {
	mu   sync.Mutex
	msgs []models.Message
}

// NewMessageStore creates an empty store
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Append adds a message to the end of the transcript.
// Messages with unknown roles are rejected at this boundary.
func (s *MessageStore) Append(msg models.Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("refusing to append message with unknown role %q", msg.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

// ReplaceAll swaps the whole transcript, e.g. after a history load.
// The input slice is copied; all entries must carry known roles.
func (s *MessageStore) ReplaceAll(msgs []models.Message) error {
	for _, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("refusing to store message with unknown role %q", m.Role)
		}
	}

	replacement := make([]models.Message, len(msgs))
	copy(replacement, msgs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = replacement
	return nil
}

// MutateLast applies fn to the last message. It is a silent no-op when the
// transcript is empty or the last message is not an assistant message:
// only the streaming placeholder may ever be mutated after append.
func (s *MessageStore) MutateLast(fn func(*models.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.msgs) == 0 {
		return
	}
	last := &s.msgs[len(s.msgs)-1]
	if last.Role != models.RoleAssistant {
		return
	}
	fn(last)
}

// Clear empties the transcript
func (s *MessageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = nil
}

// Messages returns a copy of the transcript
func (s *MessageStore) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Len returns the number of messages
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}
