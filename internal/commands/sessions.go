package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maduarte/chatdeck/internal/api"
	"github.com/maduarte/chatdeck/internal/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			sessions, err := client.ListSessions(cmd.Context(), projectFlag)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMODEL\tCREATED")
			for _, s := range sessions {
				created := ""
				if !s.CreatedAt.IsZero() {
					created = s.CreatedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.ChatModel, created)
			}
			return w.Flush()
		})
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) > 0 {
			title = args[0]
		}
		return withClient(func(client *api.Client) error {
			project, err := resolveProject(cmd.Context(), client)
			if err != nil {
				return err
			}
			session, err := client.CreateSession(cmd.Context(), project.ID, title, getModel())
			if err != nil {
				return err
			}
			fmt.Printf("Created session %s (%s)\n", session.ID, session.Title)
			return nil
		})
	},
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			if err := client.RenameSession(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed session %s\n", args[0])
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted session %s\n", args[0])
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// withClient runs fn with a configured client and closes it afterwards.
func withClient(fn func(client *api.Client) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}
