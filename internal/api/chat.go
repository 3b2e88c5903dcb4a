package api

import (
	"context"
	"fmt"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

// chatRequest is the body for both chat endpoints
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// SendMessage sends a message and waits for the complete response.
// Most callers want OpenStream instead; this is the non-streaming variant
// used by one-shot queries.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id cannot be empty")
	}
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	path := models.PathSessions + sessionID + "/chat"
	payload := chatRequest{SessionID: sessionID, Message: message}

	result, err := c.doJSON(ctx, http.MethodPost, path, payload, "send message")
	if err != nil {
		return "", err
	}

	response := result.Get("response")
	if !response.Exists() {
		return "", apierrors.NewParseError("no response field in chat reply", path)
	}

	return response.String(), nil
}
