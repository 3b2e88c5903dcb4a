// Package models contains data types and constants for the chatdeck API client.
package models

// API paths, relative to the configured base URL
const (
	PathLogin  = "/auth/login"
	PathSignup = "/auth/signup"

	PathProjects = "/project/"
	PathSessions = "/sessions/"
)

// ChatModel describes a selectable backend model.
type ChatModel struct {
	Name  string
	Label string
}

// Models the platform currently serves
var (
	ModelLlama33 = ChatModel{
		Name:  "meta-llama/llama-3.3-70b-instruct:free",
		Label: "Llama 3.3 70B",
	}

	ModelGemma3 = ChatModel{
		Name:  "google/gemma-3-27b-it:free",
		Label: "Gemma 3 27B",
	}

	ModelGeminiFlash = ChatModel{
		Name:  "google/gemini-2.0-flash-exp:free",
		Label: "Gemini 2.0 Flash",
	}

	// DefaultModel is applied when a session does not name one
	DefaultModel = ModelLlama33
)

// AllModels returns the selectable models in display order.
func AllModels() []ChatModel {
	return []ChatModel{ModelLlama33, ModelGemma3, ModelGeminiFlash}
}

// ModelFromName returns the ChatModel for a backend model name.
// Unknown names fall back to DefaultModel.
func ModelFromName(name string) ChatModel {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return DefaultModel
}

// DefaultHeaders returns the headers attached to every API request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "chatdeck-cli",
	}
}

// StreamHeaders returns the headers for the streaming chat endpoint.
func StreamHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/event-stream",
		"User-Agent":   "chatdeck-cli",
	}
}
