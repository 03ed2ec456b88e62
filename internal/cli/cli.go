package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mountviz/internal/config"
	"github.com/matzehuels/mountviz/pkg/automount"
	"github.com/matzehuels/mountviz/pkg/buildinfo"
	"github.com/matzehuels/mountviz/pkg/pipeline"
	"github.com/matzehuels/mountviz/pkg/remote"
)

// appName is the binary name used in help and completion text.
const appName = "mountviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "mountviz visualizes automount topology on compute clusters",
		Long: `mountviz parses automount master and map files, lists cluster nodes
through the scheduler, and draws file servers, mount directories and
compute nodes as one graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultPath(), "config file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.clusterCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file, overlays the flags given on cmd's
// command line, applies defaults and validates the result.
func (c *CLI) loadConfig(cmd *cobra.Command, flags config.Config) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Merge(flags, cmd.Flags().Changed)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// addSourceFlags registers the flags that select where automount files and
// commands come from.
func addSourceFlags(cmd *cobra.Command, flags *config.Config) {
	cmd.Flags().StringVarP(&flags.Master, "master", "m", "", "automount master file (default "+config.DefaultMaster+")")
	cmd.Flags().StringSliceVarP(&flags.Exclude, "exclude", "x", nil, "map file to skip (repeatable)")
	cmd.Flags().StringVar(&flags.Remote.Host, "host", "", "run disk usage checks on [user@]host[:port] over SSH")
	cmd.Flags().StringVarP(&flags.Remote.Identity, "identity", "i", "", "SSH private key file")
	cmd.Flags().StringVar(&flags.Remote.KnownHosts, "known-hosts", "", "SSH known_hosts file")
	cmd.Flags().BoolVar(&flags.Remote.Files, config.FlagRemoteFiles, false, "read automount files on --host over SFTP")
}

// addClusterFlags registers the flags controlling compute node discovery.
func addClusterFlags(cmd *cobra.Command, flags *config.Config) {
	cmd.Flags().StringVar(&flags.ClusterCommand, "cluster-cmd", "", "command listing cluster nodes (default "+config.DefaultClusterCommand+")")
	cmd.Flags().BoolVar(&flags.NoCluster, config.FlagNoCluster, false, "skip compute nodes")
	addRemoteClusterFlag(cmd, flags)
}

func addRemoteClusterFlag(cmd *cobra.Command, flags *config.Config) {
	cmd.Flags().BoolVar(&flags.Remote.Cluster, config.FlagRemoteCluster, false, "run the cluster command on --host")
}

// pipelineOptions maps the merged config to pipeline options.
func pipelineOptions(cfg *config.Config, logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		Master:         cfg.Master,
		Exclude:        cfg.Exclude,
		ClusterCommand: cfg.ClusterCommand,
		NoCluster:      cfg.NoCluster,
		DiskUsage:      cfg.DiskUsage,
		Output:         cfg.Output,
		Format:         cfg.Format,
		Layout:         cfg.Layout,
		Scale:          cfg.Scale,
		Spring:         cfg.Spring,
		NoLegend:       cfg.NoLegend,
		Logger:         logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// stage is a set of pipeline stages.
type stage uint8

const (
	stageLoad stage = 1 << iota
	stageCluster
	stageUsage
)

// remoteStages returns the stages among uses that run on the configured
// host. Disk usage follows --host; automount files and the cluster command
// move there only with --remote-files and --remote-cluster.
func remoteStages(cfg *config.Config, uses stage) stage {
	if cfg.Remote.Host == "" {
		return 0
	}
	var s stage
	if cfg.Remote.Files {
		s |= stageLoad
	}
	if cfg.Remote.Cluster {
		s |= stageCluster
	}
	if cfg.DiskUsage {
		s |= stageUsage
	}
	return s & uses
}

// remoteHost is a host that serves both files and commands.
type remoteHost interface {
	automount.Source
	pipeline.Commander
}

// assignRemote points the stages in s at host.
func assignRemote(r *pipeline.Runner, host remoteHost, s stage) {
	if s&stageLoad != 0 {
		r.Files = host
	}
	if s&stageCluster != 0 {
		r.ClusterCommands = host
	}
	if s&stageUsage != 0 {
		r.UsageCommands = host
	}
}

// newRunner creates a pipeline runner for a command using the stages in
// uses. It dials the configured host only when one of those stages runs
// there. The returned func closes the SSH connection, if any.
func newRunner(ctx context.Context, cfg *config.Config, uses stage) (*pipeline.Runner, func(), error) {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(nil, nil, logger)

	remoteUses := remoteStages(cfg, uses)
	if remoteUses == 0 {
		if cfg.Remote.Host != "" {
			logger.Debug("nothing to run on remote host", "host", cfg.Remote.Host)
		}
		return runner, func() {}, nil
	}

	client, err := remote.Dial(ctx, remote.Config{
		Host:       cfg.Remote.Host,
		Identity:   cfg.Remote.Identity,
		KnownHosts: cfg.Remote.KnownHosts,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected", "host", client.Addr(),
		"files", remoteUses&stageLoad != 0,
		"cluster", remoteUses&stageCluster != 0,
		"disk usage", remoteUses&stageUsage != 0)

	assignRemote(runner, client, remoteUses)
	return runner, func() { _ = client.Close() }, nil
}
