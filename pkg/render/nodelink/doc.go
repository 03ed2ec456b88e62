// Package nodelink renders topology graphs as node-link diagrams.
//
// # Overview
//
// Servers, mount directories and compute nodes are drawn as coloured
// circles joined by grey edges, positioned by a Graphviz force-directed
// engine. A legend names the three node categories.
//
// # Usage
//
// Convert a graph to DOT, then render:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Legend: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineFDP)
//
// [Render] dispatches on an output format name (svg, png, pdf, dot):
//
//	data, err := nodelink.Render(ctx, dot, "png", nodelink.RenderOptions{Scale: 2})
//
// # Colours
//
//   - Mount directories: blue (#1f77b4)
//   - Compute nodes that serve no mount: green (#2ca02c)
//   - File servers: red (#d62728)
//
// Mount labels list the mount directory followed by the servers backing it
// and, when probed, the disk usage.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout
// and SVG rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
