package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// ChatStream is an open streaming chat response. Recv returns one text
// delta per call in arrival order and io.EOF on clean termination.
type ChatStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	cancel context.CancelFunc
	path   string
	done   bool
}

// OpenStream sends a message on the streaming chat endpoint and returns the
// open stream. The stream inherits cancellation from ctx; when the client
// has a stream timeout configured, the whole exchange additionally runs
// under that deadline.
func (c *Client) OpenStream(ctx context.Context, sessionID, message string) (*ChatStream, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}

	cancel := context.CancelFunc(func() {})
	if c.streamTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.streamTimeout)
	}

	path := models.PathSessions + sessionID + "/chat/stream"
	payload := chatRequest{SessionID: sessionID, Message: message}

	req, err := c.newRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		cancel()
		return nil, err
	}
	for key, value := range models.StreamHeaders() {
		req.Header.Set(key, value)
	}

	requestID := uuid.NewString()
	c.logger.Debug("opening chat stream",
		zap.String("session_id", sessionID),
		zap.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, apierrors.NewNetworkError("open stream", path, err)
	}

	if err := c.checkStatus(resp, "open stream", path); err != nil {
		_ = resp.Body.Close()
		cancel()
		return nil, err
	}

	return &ChatStream{
		body:   resp.Body,
		reader: bufio.NewReader(resp.Body),
		cancel: cancel,
		path:   path,
	}, nil
}

// Recv returns the next text delta. It reassembles frames split across
// network reads: a read boundary is not a frame boundary, so lines are
// buffered until a "\n" arrives. Lines without the "data: " prefix are
// skipped; any "data: " payload other than the terminator is delivered
// verbatim. Frames after "[DONE]" are never delivered.
func (s *ChatStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		line, err := s.reader.ReadString('\n')

		// A final line without a trailing newline still counts once the
		// body ends.
		if delta, ok := parseFrame(line); ok {
			if delta == doneSentinel {
				s.done = true
				return "", io.EOF
			}
			return delta, nil
		}

		if err != nil {
			s.done = true
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", s.mapReadError(err)
		}
	}
}

// parseFrame extracts the payload from one event line
func parseFrame(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	return line[len(dataPrefix):], true
}

func (s *ChatStream) mapReadError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError("stream exceeded its deadline")
	}
	return apierrors.NewNetworkError("read stream", s.path, err)
}

// Close cancels the stream's deadline and releases the connection.
// Safe to call more than once.
func (s *ChatStream) Close() error {
	s.done = true
	s.cancel()
	return s.body.Close()
}
