// Package cluster collects compute node information from a scheduler's
// node listing command, typically Slurm's sinfo.
//
// The command's tabular output is parsed with [Parse]; every row's node
// list column ("node[1-4]") is expanded with [nodelist.Expand] so the
// result holds one [Node] per host:
//
//	nodes, err := cluster.Collect(ctx, cluster.ShellRunner{}, "sinfo")
//
// Commands run through a [Runner], so the same parser serves local
// execution ([ShellRunner]) and remote execution over SSH.
//
// [nodelist.Expand]: github.com/matzehuels/mountviz/pkg/nodelist
package cluster
