package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mountviz/internal/config"
)

// browseCommand opens an interactive list of servers and their mounts.
func (c *CLI) browseCommand() *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse file servers and their mounts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, closeRunner, err := newRunner(ctx, cfg, stageLoad|stageCluster|stageUsage)
			if err != nil {
				return err
			}
			defer closeRunner()

			result, err := runner.Build(ctx, pipelineOptions(cfg, loggerFromContext(ctx)))
			if err != nil {
				return err
			}

			model := NewBrowseModel(result.Graph)
			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}

			if m, ok := final.(BrowseModel); ok && m.Selected != nil {
				fmt.Fprint(cmd.OutOrStdout(), mountList(*m.Selected))
				printNextStep("Render the full graph", appName+" render")
			}
			return nil
		},
	}

	addSourceFlags(cmd, &flags)
	addClusterFlags(cmd, &flags)
	cmd.Flags().BoolVar(&flags.DiskUsage, config.FlagDiskUsage, false, "show df usage for each mount")

	return cmd
}
