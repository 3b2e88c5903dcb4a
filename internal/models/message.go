package models

import "fmt"

// Role identifies who authored a message.
type Role string

// Known message roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole validates a role string coming from the wire.
// Unknown roles are rejected rather than passed through.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant, RoleSystem:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown message role: %q", s)
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single entry in a session transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
