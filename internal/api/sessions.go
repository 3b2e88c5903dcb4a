package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

func sessionFromResult(r gjson.Result) models.Session {
	created, _ := time.Parse(time.RFC3339, r.Get("created_at").String())
	return models.Session{
		ID:        r.Get("id").String(),
		ProjectID: r.Get("project_id").String(),
		Title:     r.Get("title").String(),
		ChatModel: r.Get("chat_model").String(),
		CreatedAt: created,
	}
}

// ListSessions returns the sessions for a project, newest first
func (c *Client) ListSessions(ctx context.Context, projectID string) ([]models.Session, error) {
	path := models.PathSessions
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}

	result, err := c.doJSON(ctx, http.MethodGet, path, nil, "list sessions")
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	result.ForEach(func(_, value gjson.Result) bool {
		sessions = append(sessions, sessionFromResult(value))
		return true
	})
	return sessions, nil
}

// sessionCreateRequest is the body for session creation
type sessionCreateRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	ChatModel string `json:"chat_model"`
}

// CreateSession creates a new session in a project.
// An empty title defaults to "New Conversation", matching the web client.
func (c *Client) CreateSession(ctx context.Context, projectID, title, chatModel string) (*models.Session, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project id cannot be empty")
	}
	if title == "" {
		title = "New Conversation"
	}
	if chatModel == "" {
		chatModel = models.DefaultModel.Name
	}

	payload := sessionCreateRequest{
		ProjectID: projectID,
		Title:     title,
		ChatModel: chatModel,
	}

	result, err := c.doJSON(ctx, http.MethodPost, models.PathSessions, payload, "create session")
	if err != nil {
		return nil, err
	}

	session := sessionFromResult(result)
	return &session, nil
}

// RenameSession updates a session's title. Blank titles are rejected.
func (c *Client) RenameSession(ctx context.Context, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("session title cannot be blank")
	}

	payload := map[string]string{"title": title}
	_, err := c.doJSON(ctx, http.MethodPatch, models.PathSessions+sessionID, payload, "rename session")
	return err
}

// DeleteSession removes a session and its history
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, models.PathSessions+sessionID, nil, "delete session")
	return err
}

// FetchHistory returns the persisted transcript for a session in
// chronological order. Entries with unknown roles are rejected.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}

	path := models.PathSessions + sessionID + "/history"
	result, err := c.doJSON(ctx, http.MethodGet, path, nil, "fetch history")
	if err != nil {
		return nil, err
	}

	if !result.IsArray() && result.Exists() {
		return nil, apierrors.NewParseError("history response is not an array", path)
	}

	var parseErr error
	var history []models.Message
	result.ForEach(func(_, value gjson.Result) bool {
		role, err := models.ParseRole(value.Get("role").String())
		if err != nil {
			parseErr = apierrors.NewParseError(err.Error(), path)
			return false
		}
		history = append(history, models.Message{
			Role:    role,
			Content: value.Get("content").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return history, nil
}
