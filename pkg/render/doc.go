// Package render turns topology graphs into image files.
//
// # Overview
//
// The [nodelink] subpackage lays the graph out with a Graphviz
// force-directed engine and renders SVG in-process. This package holds the
// pieces shared by all renderers:
//
//   - Output format names and detection from file extensions ([FormatFromPath])
//   - SVG to PDF/PNG conversion through the external rsvg-convert tool
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineFDP)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/mountviz/pkg/render/nodelink
package render
