package commands

import (
	"testing"

	"github.com/maduarte/chatdeck/internal/config"
)

func TestApplyConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(cfg config.Config) bool
	}{
		{
			name:  "base url",
			key:   "base-url",
			value: "https://chat.example.com/api",
			check: func(cfg config.Config) bool { return cfg.BaseURL == "https://chat.example.com/api" },
		},
		{
			name:    "empty base url rejected",
			key:     "base-url",
			value:   "",
			wantErr: true,
		},
		{
			name:  "stream timeout",
			key:   "stream-timeout",
			value: "300",
			check: func(cfg config.Config) bool { return cfg.StreamTimeout == 300 },
		},
		{
			name:    "negative stream timeout rejected",
			key:     "stream-timeout",
			value:   "-1",
			wantErr: true,
		},
		{
			name:    "non-numeric stream timeout rejected",
			key:     "stream-timeout",
			value:   "soon",
			wantErr: true,
		},
		{
			name:  "tui theme",
			key:   "tui-theme",
			value: "nord",
			check: func(cfg config.Config) bool { return cfg.TUITheme == "nord" },
		},
		{
			name:    "unknown theme rejected",
			key:     "tui-theme",
			value:   "solarized",
			wantErr: true,
		},
		{
			name:  "clipboard toggle",
			key:   "copy-to-clipboard",
			value: "true",
			check: func(cfg config.Config) bool { return cfg.CopyToClipboard },
		},
		{
			name:    "bad boolean rejected",
			key:     "verbose",
			value:   "maybe",
			wantErr: true,
		},
		{
			name:    "unknown key rejected",
			key:     "color-depth",
			value:   "24",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := applyConfigValue(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyConfigValue(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("config not updated: %+v", cfg)
			}
		})
	}
}
