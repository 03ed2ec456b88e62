package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mountviz/internal/config"
	graphio "github.com/matzehuels/mountviz/pkg/io"
	"github.com/matzehuels/mountviz/pkg/pipeline"
)

// renderCommand creates the render command, which runs the full pipeline
// and writes the graph to a file.
func (c *CLI) renderCommand() *cobra.Command {
	var flags config.Config
	var graphPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the automount graph to SVG, PNG, PDF, DOT or JSON",
		Long: `Render parses the automount master file and every map it references,
merges the compute nodes reported by the cluster command, and draws the
result as a force-directed graph.

The output format follows the file extension unless --format is given.
PNG and PDF output requires rsvg-convert.`,
		Example: `  mountviz render
  mountviz render -o cluster.png --layout neato --disk-usage
  mountviz render --host admin@head01 --disk-usage
  mountviz render --host admin@head01 --remote-files --remote-cluster -o head01.svg
  mountviz render --graph graph.json -o graph.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, graphPath)
		},
	}

	addSourceFlags(cmd, &flags)
	addClusterFlags(cmd, &flags)
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output file (default "+config.DefaultOutput+")")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "output format: svg, png, pdf, dot, json (default: from --output)")
	cmd.Flags().StringVar(&flags.Layout, "layout", "", "layout engine: fdp (default), neato, sfdp, circo, twopi")
	cmd.Flags().Float64Var(&flags.Scale, "scale", 0, "PNG resolution factor (default 2)")
	cmd.Flags().Float64Var(&flags.Spring, "spring", 0, "ideal edge length factor (default 0.99)")
	cmd.Flags().BoolVar(&flags.NoLegend, config.FlagNoLegend, false, "omit the category legend")
	cmd.Flags().BoolVar(&flags.DiskUsage, config.FlagDiskUsage, false, "annotate mount directories with df usage")
	cmd.Flags().StringVar(&graphPath, "graph", "", "render a graph exported with --format json instead of parsing")

	return cmd
}

func runRender(ctx context.Context, cfg *config.Config, graphPath string) error {
	logger := loggerFromContext(ctx)
	opts := pipelineOptions(cfg, logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var (
		artifact []byte
		stats    pipeline.Stats
	)

	if graphPath != "" {
		g, err := graphio.ImportJSON(graphPath)
		if err != nil {
			return err
		}
		runner := pipeline.NewRunner(nil, nil, logger)
		if artifact, err = runner.Render(ctx, g, opts); err != nil {
			return err
		}
		stats = pipeline.Stats{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()}
	} else {
		runner, closeRunner, err := newRunner(ctx, cfg, stageLoad|stageCluster|stageUsage)
		if err != nil {
			return err
		}
		defer closeRunner()

		spinner := newSpinner(ctx, "Rendering automount graph...")
		spinner.Start()
		result, err := runner.Execute(ctx, opts)
		spinner.Stop()
		if err != nil {
			return err
		}
		artifact, stats = result.Artifact, result.Stats
	}

	prog := newProgress(logger)
	if err := os.WriteFile(opts.Output, artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}
	prog.done("Wrote " + opts.Output)

	printSuccess("Rendered %s", opts.Format)
	printFile(opts.Output)
	printStats(stats)
	if stats.ComputeCount == 0 && !cfg.NoCluster && graphPath == "" {
		printWarning("no compute nodes found; pass --no-cluster to skip the cluster command")
	}
	return nil
}
