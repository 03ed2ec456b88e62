// Package pkg provides the core libraries for mountviz automount visualization.
//
// # Overview
//
// mountviz reads the automount configuration of a compute cluster and draws
// which file servers back which mount directories, alongside the compute
// nodes the scheduler knows about. The pkg directory is organized as:
//
//  1. [automount] - master and map file parsing
//  2. [nodelist] - compact host range expansion
//  3. [cluster] - scheduler node listing
//  4. [diskusage] - df probing of mount directories
//  5. [graph] - the server and mount directory graph
//  6. [render] - DOT, SVG, PNG and PDF output
//  7. [pipeline] - orchestration (load → cluster → usage → render)
//  8. [remote] - SSH command runner and SFTP file source
//
// # Architecture
//
//	/etc/auto.master + maps        sinfo
//	         ↓                       ↓
//	  [automount] package     [cluster] + [nodelist]
//	         ↓                       ↓
//	         └──── [graph] package ──┘
//	                    ↓
//	     [render/nodelink] package (Graphviz)
//	                    ↓
//	      SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Output: "automount.svg"})
//
// [automount]: github.com/matzehuels/mountviz/pkg/automount
// [nodelist]: github.com/matzehuels/mountviz/pkg/nodelist
// [cluster]: github.com/matzehuels/mountviz/pkg/cluster
// [diskusage]: github.com/matzehuels/mountviz/pkg/diskusage
// [graph]: github.com/matzehuels/mountviz/pkg/graph
// [render]: github.com/matzehuels/mountviz/pkg/render
// [pipeline]: github.com/matzehuels/mountviz/pkg/pipeline
// [remote]: github.com/matzehuels/mountviz/pkg/remote
package pkg
