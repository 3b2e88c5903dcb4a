package models

import "time"

// Session is a persisted conversation thread within a project.
type Session struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	ChatModel string    `json:"chat_model"`
	CreatedAt time.Time `json:"created_at"`
}

// Project groups sessions and carries the system prompt applied to them.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"project_name"`
	Description  string    `json:"project_description"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
