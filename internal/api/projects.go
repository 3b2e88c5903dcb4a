package api

import (
	"context"
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	"github.com/maduarte/chatdeck/internal/models"
)

// projectRequest is the body for project create/update
type projectRequest struct {
	Name         string `json:"project_name"`
	Description  string `json:"project_description"`
	SystemPrompt string `json:"system_prompt"`
}

func projectFromResult(r gjson.Result) models.Project {
	created, _ := time.Parse(time.RFC3339, r.Get("created_at").String())
	return models.Project{
		ID:           r.Get("id").String(),
		Name:         r.Get("project_name").String(),
		Description:  r.Get("project_description").String(),
		SystemPrompt: r.Get("system_prompt").String(),
		CreatedAt:    created,
	}
}

// ListProjects returns the caller's projects
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	result, err := c.doJSON(ctx, http.MethodGet, models.PathProjects, nil, "list projects")
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	result.ForEach(func(_, value gjson.Result) bool {
		projects = append(projects, projectFromResult(value))
		return true
	})
	return projects, nil
}

// GetProject fetches a single project by id
func (c *Client) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	result, err := c.doJSON(ctx, http.MethodGet, models.PathProjects+projectID, nil, "get project")
	if err != nil {
		return nil, err
	}

	project := projectFromResult(result)
	return &project, nil
}

// CreateProject creates a project with the given system prompt
func (c *Client) CreateProject(ctx context.Context, name, description, systemPrompt string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}

	payload := projectRequest{
		Name:         name,
		Description:  description,
		SystemPrompt: systemPrompt,
	}

	result, err := c.doJSON(ctx, http.MethodPost, models.PathProjects, payload, "create project")
	if err != nil {
		return nil, err
	}

	project := projectFromResult(result)
	return &project, nil
}

// UpdateProject replaces a project's name, description and system prompt
func (c *Client) UpdateProject(ctx context.Context, projectID, name, description, systemPrompt string) (*models.Project, error) {
	payload := projectRequest{
		Name:         name,
		Description:  description,
		SystemPrompt: systemPrompt,
	}

	result, err := c.doJSON(ctx, http.MethodPatch, models.PathProjects+projectID, payload, "update project")
	if err != nil {
		return nil, err
	}

	project := projectFromResult(result)
	return &project, nil
}

// DeleteProject removes a project
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, models.PathProjects+projectID, nil, "delete project")
	return err
}
