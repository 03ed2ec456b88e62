package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mountviz/internal/config"
	"github.com/matzehuels/mountviz/pkg/cluster"
	"github.com/matzehuels/mountviz/pkg/graph"
	"github.com/matzehuels/mountviz/pkg/nodelist"
)

// nodesCommand expands compact host ranges such as "node[1-3,5]".
func (c *CLI) nodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "nodes <range>...",
		Short:   "Expand compact host ranges, one host per line",
		Example: `  mountviz nodes 'node[1-3,5]' login01`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, arg := range args {
				hosts, err := nodelist.Expand(arg)
				if err != nil {
					return err
				}
				for _, h := range hosts {
					if _, err := fmt.Fprintln(w, h); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// clusterCommand runs the cluster command and lists the expanded nodes.
func (c *CLI) clusterCommand() *cobra.Command {
	var flags config.Config
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "List compute nodes reported by the cluster command",
		Example: `  mountviz cluster
  mountviz cluster --cluster-cmd 'sinfo -p gpu' --json
  mountviz cluster --host admin@head01 --remote-cluster`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, closeRunner, err := newRunner(ctx, cfg, stageCluster)
			if err != nil {
				return err
			}
			defer closeRunner()

			nodes, err := runner.Cluster(ctx, pipelineOptions(cfg, loggerFromContext(ctx)))
			if err != nil {
				return err
			}

			if asJSON {
				return writeNodesJSON(cmd.OutOrStdout(), nodes)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), nodesTable(nodes))
			return err
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().StringVar(&flags.ClusterCommand, "cluster-cmd", "", "command listing cluster nodes (default "+config.DefaultClusterCommand+")")
	addRemoteClusterFlag(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func writeNodesJSON(w io.Writer, nodes []cluster.Node) error {
	if nodes == nil {
		nodes = []cluster.Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodes)
}

// nodesTable renders one row per node with the partition followed by the
// remaining scheduler columns in name order.
func nodesTable(nodes []cluster.Node) string {
	var cols []string
	seen := map[string]bool{}
	for _, n := range nodes {
		for k := range maps.Keys(n.Fields) {
			if k != cluster.ColPartition && !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)

	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		partition := n.Partition
		if n.Default {
			partition += "*"
		}
		row := []string{n.Name, partition}
		for _, col := range cols {
			row = append(row, n.Fields[col])
		}
		rows[i] = row
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(append([]string{"Node", "Partition"}, cols...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return categoryStyle(graph.CategoryComputeNode)
			}
			return StyleDim
		}).
		Render()
}
