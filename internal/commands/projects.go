package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maduarte/chatdeck/internal/api"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects found. Create one with 'chatdeck projects new <name>'.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
			}
			return w.Flush()
		})
	},
}

var projectsNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		systemPrompt, _ := cmd.Flags().GetString("system-prompt")
		return withClient(func(client *api.Client) error {
			project, err := client.CreateProject(cmd.Context(), args[0], description, systemPrompt)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s)\n", project.ID, project.Name)
			return nil
		})
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			project, err := client.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:            %s\n", project.ID)
			fmt.Printf("Name:          %s\n", project.Name)
			fmt.Printf("Description:   %s\n", project.Description)
			if project.SystemPrompt != "" {
				fmt.Printf("System prompt: %s\n", project.SystemPrompt)
			}
			if !project.CreatedAt.IsZero() {
				fmt.Printf("Created:       %s\n", project.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			if err := client.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", args[0])
			return nil
		})
	},
}

func init() {
	projectsNewCmd.Flags().StringP("description", "d", "", "Project description")
	projectsNewCmd.Flags().String("system-prompt", "", "System prompt applied to the project's sessions")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsNewCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
}
