// Package config handles configuration and credential storage for chatdeck.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", or path to JSON theme
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the root of the chat platform API, e.g. "https://chat.example.com/api".
	BaseURL string `json:"base_url"`
	// DefaultModel is the backend model used when creating sessions.
	DefaultModel string `json:"default_model"`
	// StreamTimeout is the number of seconds a streaming response may run
	// before being cancelled. 0 disables the deadline.
	StreamTimeout int `json:"stream_timeout"`
	// Verbose enables detailed logging output during operations.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8000/api",
		DefaultModel:    "meta-llama/llama-3.3-70b-instruct:free",
		StreamTimeout:   120,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path.
// CHATDECK_CONFIG_DIR overrides the default of ~/.chatdeck.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("CHATDECK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatdeck"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the access token
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetCredentialsPath returns the path to the credentials file
func GetCredentialsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "credentials.json"), nil
}

// LoadConfig loads the configuration file, falling back to defaults when it
// does not exist. CHATDECK_BASE_URL overrides the configured base URL.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("CHATDECK_BASE_URL"); url != "" {
		cfg.BaseURL = url
	}
}

// SaveConfig writes the configuration to disk
func SaveConfig(cfg Config) error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
