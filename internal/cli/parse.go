package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mountviz/internal/config"
	"github.com/matzehuels/mountviz/pkg/automount"
)

// parseCommand creates the parse command, which prints the unified mount
// table without touching the cluster.
func (c *CLI) parseCommand() *cobra.Command {
	var flags config.Config
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the mount table read from the automount maps",
		Example: `  mountviz parse
  mountviz parse -m /srv/auto.master -x /etc/auto.misc --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, closeRunner, err := newRunner(ctx, cfg, stageLoad)
			if err != nil {
				return err
			}
			defer closeRunner()

			entries, err := runner.Load(ctx, pipelineOptions(cfg, loggerFromContext(ctx)))
			if err != nil {
				return err
			}

			if asJSON {
				return writeEntriesJSON(cmd.OutOrStdout(), entries)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), entriesTable(entries))
			return err
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func writeEntriesJSON(w io.Writer, entries []automount.MountEntry) error {
	if entries == nil {
		entries = []automount.MountEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// entriesTable renders the mount table with one row per map line.
func entriesTable(entries []automount.MountEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.MountDir, e.Key, e.Server, e.LocalDir, e.Source}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Mount", "Key", "Server", "Remote path", "Map").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleValue
			default:
				return StyleDim
			}
		}).
		Render()
}
