package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Credentials represents the stored bearer token for the platform
type Credentials struct {
	mu           sync.RWMutex `json:"-"` // Not serialized
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	Email        string       `json:"email,omitempty"`
}

// GetAccessToken returns the access token in a thread-safe manner
func (c *Credentials) GetAccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AccessToken
}

// Snapshot returns both tokens atomically (for serialization or HTTP requests)
func (c *Credentials) Snapshot() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AccessToken, c.RefreshToken
}

// SetTokens updates both tokens atomically
func (c *Credentials) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AccessToken = access
	c.RefreshToken = refresh
}

// LoadCredentials loads the stored credentials from the credentials file
func LoadCredentials() (*Credentials, error) {
	credsPath, err := GetCredentialsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no credentials found. Please log in first:\n  chatdeck login <email>")
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if creds.AccessToken == "" {
		return nil, fmt.Errorf("credentials file contains no access token")
	}

	return &creds, nil
}

// SaveCredentials persists credentials to the credentials file
func SaveCredentials(creds *Credentials) error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	credsPath, err := GetCredentialsPath()
	if err != nil {
		return err
	}

	creds.mu.RLock()
	data, err := json.MarshalIndent(creds, "", "  ")
	creds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// 0o600: the token grants account access
	if err := os.WriteFile(credsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// ClearCredentials removes the stored credentials, if any
func ClearCredentials() error {
	credsPath, err := GetCredentialsPath()
	if err != nil {
		return err
	}

	if err := os.Remove(credsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}

	return nil
}

// ValidateCredentials checks that credentials are usable
func ValidateCredentials(creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}
	if creds.GetAccessToken() == "" {
		return fmt.Errorf("missing access token")
	}
	return nil
}
