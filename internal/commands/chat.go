package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maduarte/chatdeck/internal/config"
	"github.com/maduarte/chatdeck/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start interactive chat",
	Long: `Start the interactive chat interface. Opens the session given with
--session, or creates a new one in the project given with --project
(defaulting to your first project).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	session, err := resolveSession(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to open a session: %w", err)
	}

	tui.SetTheme(cfg.TUITheme)

	modelName := session.ChatModel
	if modelName == "" {
		modelName = getModel()
	}

	return tui.RunChat(&clientBackend{client: client}, client, tui.ChatConfig{
		ProjectID: session.ProjectID,
		ModelName: modelName,
		Session:   session,
	})
}
