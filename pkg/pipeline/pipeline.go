// Package pipeline runs the complete mountviz visualization pipeline.
//
// The pipeline is shared by every command that needs more than one stage,
// so each entry point behaves the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: parse the automount master map and every local map it names
//  2. Cluster: run the scheduler command and expand its node lists
//  3. Usage: optionally annotate mount directories with df output
//  4. Render: build the graph and produce DOT, SVG, PNG, PDF or JSON
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Master: "/etc/auto.master",
//	    Output: "automount.svg",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("automount.svg", result.Artifact, 0o644)
//
// A Runner built with a remote.Client for both arguments inspects another
// host instead of the local one.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mountviz/pkg/automount"
	"github.com/matzehuels/mountviz/pkg/cluster"
	"github.com/matzehuels/mountviz/pkg/errors"
	"github.com/matzehuels/mountviz/pkg/graph"
	"github.com/matzehuels/mountviz/pkg/render"
	"github.com/matzehuels/mountviz/pkg/render/nodelink"
)

const (
	// DefaultMaster is the automount master map.
	DefaultMaster = "/etc/auto.master"

	// DefaultOutput is the rendered file when none is given.
	DefaultOutput = "automount.svg"

	// DefaultScale is the PNG resolution factor.
	DefaultScale = 2.0
)

// Options contains the configuration for one pipeline run.
type Options struct {
	// Load options
	Master  string
	Exclude []string

	// Cluster options
	ClusterCommand string
	NoCluster      bool

	// Usage options
	DiskUsage bool

	// Render options
	Output   string // used to infer Format when Format is empty
	Format   string
	Layout   string
	Scale    float64
	Spring   float64
	NoLegend bool

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Entries is the unified mount table.
	Entries []automount.MountEntry

	// Nodes are the expanded cluster nodes.
	Nodes []cluster.Node

	// Graph is the server and mount directory graph.
	Graph *graph.Graph

	// Artifact is the rendered output in Format.
	Artifact []byte
	Format   string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MountCount   int
	ComputeCount int
	NodeCount    int
	EdgeCount    int
	LoadTime     time.Duration
	ClusterTime  time.Duration
	UsageTime    time.Duration
	RenderTime   time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load and cluster options.
func (o *Options) ValidateForLoad() error {
	if o.Master == "" {
		o.Master = DefaultMaster
	}
	if o.ClusterCommand == "" {
		o.ClusterCommand = cluster.DefaultCommand
	}
	o.setLogger()
	return nil
}

// ValidateForRender resolves the output format and validates the layout.
func (o *Options) ValidateForRender() error {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Format == "" {
		f, err := render.FormatFromPath(o.Output)
		if err != nil {
			return err
		}
		o.Format = f
	}
	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Layout == "" {
		o.Layout = nodelink.EngineFDP
	}
	if err := nodelink.ValidateEngine(o.Layout); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.Spring == 0 {
		o.Spring = nodelink.DefaultSpring
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
