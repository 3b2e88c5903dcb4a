package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maduarte/chatdeck/internal/config"
	"github.com/maduarte/chatdeck/internal/models"
	"github.com/maduarte/chatdeck/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		path, _ := config.GetConfigPath()
		fmt.Printf("Config file:       %s\n", path)
		fmt.Printf("base-url:          %s\n", cfg.BaseURL)
		fmt.Printf("default-model:     %s\n", cfg.DefaultModel)
		fmt.Printf("stream-timeout:    %d\n", cfg.StreamTimeout)
		fmt.Printf("tui-theme:         %s\n", cfg.TUITheme)
		fmt.Printf("markdown-style:    %s\n", cfg.Markdown.Style)
		fmt.Printf("copy-to-clipboard: %t\n", cfg.CopyToClipboard)
		fmt.Printf("verbose:           %t\n", cfg.Verbose)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Available keys:

  base-url           Server base URL
  default-model      Default chat model name
  stream-timeout     Streaming timeout in seconds (0 disables)
  tui-theme          TUI color theme (` + strings.Join(render.ThemeNames(), ", ") + `)
  markdown-style     Markdown style (dark, light, or a JSON file path)
  copy-to-clipboard  Copy one-shot responses to the clipboard (true/false)
  verbose            Verbose request logging (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		if err := applyConfigValue(&cfg, key, value); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "base-url":
		if value == "" {
			return fmt.Errorf("base-url cannot be empty")
		}
		cfg.BaseURL = value

	case "default-model":
		if models.ModelFromName(value).Name != value {
			fmt.Printf("Warning: %q is not a known model, saving anyway\n", value)
		}
		cfg.DefaultModel = value

	case "stream-timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return fmt.Errorf("stream-timeout must be a non-negative integer")
		}
		cfg.StreamTimeout = seconds

	case "tui-theme":
		if _, ok := render.ThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.ThemeNames(), ", "))
		}
		cfg.TUITheme = value

	case "markdown-style":
		cfg.Markdown.Style = value

	case "copy-to-clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy-to-clipboard must be true or false")
		}
		cfg.CopyToClipboard = b

	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = b

	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configSetCmd)
}
