package chat

import (
	"context"

	"github.com/maduarte/chatdeck/internal/models"
)

// HistoryFetcher fetches the persisted transcript for a session
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, sessionID string) ([]models.Message, error)
}

// HistoryFetcherFunc adapts a function to the HistoryFetcher interface
type HistoryFetcherFunc func(ctx context.Context, sessionID string) ([]models.Message, error)

// FetchHistory implements HistoryFetcher
func (f HistoryFetcherFunc) FetchHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	return f(ctx, sessionID)
}

// HistoryLoader replaces the MessageStore contents with a session's
// persisted history.
type HistoryLoader struct {
	fetch HistoryFetcher
	store *MessageStore
}

// NewHistoryLoader creates a loader writing into store
func NewHistoryLoader(fetch HistoryFetcher, store *MessageStore) *HistoryLoader {
	return &HistoryLoader{fetch: fetch, store: store}
}

// Load fetches the history for sessionID and installs it in the store.
//
// The store is cleared before the request resolves so history from a
// previously open session is never visible while the fetch is pending. On
// failure the error is returned and the store is left empty: showing the
// prior session's transcript under the wrong session would be worse than
// showing nothing.
//
// live gates installation: when it reports false after the fetch resolves,
// the result belongs to a session the user has since left and is discarded
// without touching the store. A nil live always installs.
func (l *HistoryLoader) Load(ctx context.Context, sessionID string, live func() bool) error {
	l.store.Clear()

	msgs, err := l.fetch.FetchHistory(ctx, sessionID)

	if live != nil && !live() {
		// Superseded mid-flight. Not an error, just a lost race.
		return nil
	}
	if err != nil {
		return err
	}

	return l.store.ReplaceAll(msgs)
}
