package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mountviz/pkg/automount"
	"github.com/matzehuels/mountviz/pkg/cluster"
	"github.com/matzehuels/mountviz/pkg/diskusage"
	"github.com/matzehuels/mountviz/pkg/graph"
)

// Commander runs shell commands. It is satisfied by cluster.ShellRunner
// and remote.Client.
type Commander interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// Runner executes the pipeline. Each stage reads from its own source, so
// automount files, the cluster command and df may live on different hosts.
//
// The Runner holds no results; it can be reused with different options.
type Runner struct {
	Files           automount.Source
	ClusterCommands Commander
	UsageCommands   Commander
	Logger          *log.Logger
}

// NewRunner creates a runner whose cluster and disk usage stages both use
// commands. Nil files reads the local filesystem, nil commands runs them
// through the local shell.
func NewRunner(files automount.Source, commands Commander, logger *log.Logger) *Runner {
	if files == nil {
		files = automount.OSSource{}
	}
	if commands == nil {
		commands = cluster.ShellRunner{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Files: files, ClusterCommands: commands, UsageCommands: commands, Logger: logger}
}

// Execute runs the complete load → cluster → usage → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Stage 4: Render
	start := time.Now()
	artifact, err := r.Render(ctx, result.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Format = opts.Format
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered graph",
		"format", opts.Format,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build runs the load, cluster and usage stages and returns the graph
// without rendering it.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	start := time.Now()
	entries, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Entries = entries
	result.Stats.MountCount = len(entries)
	result.Stats.LoadTime = time.Since(start)
	r.Logger.Info("parsed automount maps",
		"entries", len(entries),
		"duration", result.Stats.LoadTime)

	g := graph.New()
	for _, id := range g.AddMounts(entries) {
		r.Logger.Warn("server and mount directory share a name; edge dropped", "id", id)
	}

	// Stage 2: Cluster
	if !opts.NoCluster {
		start = time.Now()
		nodes, err := r.Cluster(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("cluster: %w", err)
		}
		result.Nodes = nodes
		for _, id := range g.AddComputeNodes(nodes) {
			r.Logger.Warn("compute node name collides with a mount directory", "node", id)
		}
		result.Stats.ComputeCount = len(nodes)
		result.Stats.ClusterTime = time.Since(start)
		r.Logger.Info("collected cluster nodes",
			"nodes", len(nodes),
			"duration", result.Stats.ClusterTime)
	}

	// Stage 3: Usage
	if opts.DiskUsage {
		start = time.Now()
		if err := r.Usage(ctx, g); err != nil {
			return nil, fmt.Errorf("disk usage: %w", err)
		}
		result.Stats.UsageTime = time.Since(start)
	}

	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	return result, nil
}

// Load parses the master map and its local maps into one mount table.
func (r *Runner) Load(ctx context.Context, opts Options) ([]automount.MountEntry, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := &automount.Loader{Source: r.Files, Exclude: opts.Exclude, Logger: r.Logger}
	return l.Load(opts.Master)
}

// Cluster runs the cluster command and returns one node per host.
func (r *Runner) Cluster(ctx context.Context, opts Options) ([]cluster.Node, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.Logger.Debug("running cluster command", "command", opts.ClusterCommand)
	return cluster.Collect(ctx, r.ClusterCommands, opts.ClusterCommand)
}

// Usage attaches df output to the mount directories of g. Directories df
// cannot stat are logged and left without usage.
func (r *Runner) Usage(ctx context.Context, g *graph.Graph) error {
	dirs := g.MountDirs()
	usage, err := diskusage.Probe(ctx, r.UsageCommands, dirs)
	if usage == nil {
		return err
	}
	if err != nil {
		r.Logger.Warn("disk usage incomplete", "err", err)
	}

	for _, dir := range dirs {
		u, ok := usage[dir]
		if !ok {
			r.Logger.Debug("no disk usage", "dir", dir)
			continue
		}
		g.SetUsage(dir, u)
	}
	r.Logger.Info("probed disk usage", "dirs", len(usage))
	return nil
}
