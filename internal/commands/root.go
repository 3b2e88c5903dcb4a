// Package commands provides CLI commands for chatdeck.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maduarte/chatdeck/internal/config"
)

var (
	// Global flags
	modelFlag    string
	projectFlag  string
	sessionFlag  string
	outputFlag   string
	fileFlag     string
	noStreamFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatdeck [prompt]",
	Short: "CLI client for project-scoped AI chat sessions",
	Long: `chatdeck is a command-line client for an AI chat platform organized
around projects and sessions. Responses stream into the terminal as
they are generated.

Examples:
  chatdeck login                       Sign in to the platform
  chatdeck chat                        Start the interactive chat TUI
  chatdeck "What is Go?"               Send a single query
  chatdeck -f prompt.md                Read prompt from file
  cat prompt.md | chatdeck             Read prompt from stdin
  chatdeck sessions list               List sessions
  chatdeck "Hello" -o response.md      Save response to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("chatdeck %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Chat model to use (e.g., google/gemma-3-27b-it:free)")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project id to operate on")
	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session id to chat in")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVar(&noStreamFlag, "no-stream", false, "Wait for the full response instead of streaming")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
}

// getModel returns the model to use (from flag or config)
func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}

	cfg, err := config.LoadConfig()
	if err != nil || cfg.DefaultModel == "" {
		return ""
	}
	return cfg.DefaultModel
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
