// Package config loads mountviz settings from a TOML file and merges them
// with command-line flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mountviz/pkg/errors"
)

const (
	// DefaultMaster is the automount master file read when none is given.
	DefaultMaster = "/etc/auto.master"
	// DefaultClusterCommand lists cluster nodes.
	DefaultClusterCommand = "sinfo"
	// DefaultOutput is the image written by the render command.
	DefaultOutput = "automount.svg"
	// DefaultLayout is the Graphviz layout engine.
	DefaultLayout = "fdp"
	// DefaultScale is the PNG resolution factor.
	DefaultScale = 2.0
	// DefaultSpring is the force-directed ideal edge length factor.
	DefaultSpring = 0.99
)

// Config holds the settings shared by the commands.
type Config struct {
	// Master is the automount master file.
	Master string `toml:"master" validate:"required"`
	// Exclude lists map files that are never parsed.
	Exclude []string `toml:"exclude" validate:"dive,required"`
	// ClusterCommand prints the scheduler's node table.
	ClusterCommand string `toml:"cluster_command"`
	// NoCluster skips compute nodes entirely.
	NoCluster bool `toml:"no_cluster"`
	// Output is the rendered file. The format defaults to its extension.
	Output string `toml:"output" validate:"required"`
	// Format overrides the output format.
	Format string `toml:"format" validate:"omitempty,oneof=svg png pdf dot json"`
	// Layout is the Graphviz engine.
	Layout string `toml:"layout" validate:"oneof=fdp neato sfdp circo twopi"`
	// Scale is the PNG resolution factor.
	Scale float64 `toml:"scale" validate:"gt=0,lte=16"`
	// Spring is the K attribute of the force-directed layout.
	Spring float64 `toml:"spring" validate:"gt=0"`
	// NoLegend drops the category legend from the image.
	NoLegend bool `toml:"no_legend"`
	// DiskUsage annotates mount directories with df output.
	DiskUsage bool `toml:"disk_usage"`

	Remote Remote `toml:"remote"`
}

// Remote configures inspection of another host over SSH.
type Remote struct {
	// Host is "[user@]host[:port]". Disk usage checks run there; automount
	// files and the cluster command only with Files and Cluster.
	// Empty runs everything locally.
	Host       string `toml:"host"`
	Identity   string `toml:"identity" validate:"omitempty,file"`
	KnownHosts string `toml:"known_hosts" validate:"omitempty,file"`
	// Files reads the automount files on Host over SFTP.
	Files bool `toml:"files"`
	// Cluster runs the cluster command on Host instead of locally.
	Cluster bool `toml:"cluster"`
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/mountviz/config.toml on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mountviz", "config.toml")
}

// Load reads configuration from a TOML file.
// A missing file yields an empty config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}

	return cfg, nil
}

// Command-line flag names of the boolean settings, as passed to the
// changed callback of [Config.Merge].
const (
	FlagNoCluster     = "no-cluster"
	FlagNoLegend      = "no-legend"
	FlagDiskUsage     = "disk-usage"
	FlagRemoteFiles   = "remote-files"
	FlagRemoteCluster = "remote-cluster"
)

// Merge overlays flag values onto the config. Empty strings and zero
// numbers in flags are treated as unset. A boolean overrides the file only
// when changed reports its flag as given on the command line, so
// "--no-cluster=false" can clear a file's "no_cluster = true". A nil
// changed treats only true booleans as given.
func (c *Config) Merge(flags Config, changed func(flag string) bool) {
	setString(&c.Master, flags.Master)
	setString(&c.ClusterCommand, flags.ClusterCommand)
	setString(&c.Output, flags.Output)
	setString(&c.Format, flags.Format)
	setString(&c.Layout, flags.Layout)
	setString(&c.Remote.Host, flags.Remote.Host)
	setString(&c.Remote.Identity, flags.Remote.Identity)
	setString(&c.Remote.KnownHosts, flags.Remote.KnownHosts)

	if flags.Scale != 0 {
		c.Scale = flags.Scale
	}
	if flags.Spring != 0 {
		c.Spring = flags.Spring
	}
	if len(flags.Exclude) > 0 {
		c.Exclude = append(c.Exclude, flags.Exclude...)
	}

	if changed == nil {
		changed = func(string) bool { return false }
	}
	setBool(&c.NoCluster, flags.NoCluster, changed(FlagNoCluster))
	setBool(&c.NoLegend, flags.NoLegend, changed(FlagNoLegend))
	setBool(&c.DiskUsage, flags.DiskUsage, changed(FlagDiskUsage))
	setBool(&c.Remote.Files, flags.Remote.Files, changed(FlagRemoteFiles))
	setBool(&c.Remote.Cluster, flags.Remote.Cluster, changed(FlagRemoteCluster))
}

func setBool(dst *bool, v, given bool) {
	if given || v {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Master == "" {
		c.Master = DefaultMaster
	}
	if c.ClusterCommand == "" {
		c.ClusterCommand = DefaultClusterCommand
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.Spring == 0 {
		c.Spring = DefaultSpring
	}
}
