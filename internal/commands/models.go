package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maduarte/chatdeck/internal/config"
	"github.com/maduarte/chatdeck/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available chat models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultName := models.DefaultModel.Name
		if cfg, err := config.LoadConfig(); err == nil && cfg.DefaultModel != "" {
			defaultName = cfg.DefaultModel
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLABEL")
		for _, m := range models.AllModels() {
			marker := ""
			if m.Name == defaultName {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s\t%s%s\n", m.Name, m.Label, marker)
		}
		return w.Flush()
	},
}
