package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/mountviz/pkg/graph"
	graphio "github.com/matzehuels/mountviz/pkg/io"
	"github.com/matzehuels/mountviz/pkg/render"
	"github.com/matzehuels/mountviz/pkg/render/nodelink"
)

// Render produces g in opts.Format. It also serves graphs imported from
// JSON, which skip the load stages.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if opts.Format == render.FormatJSON {
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Legend: !opts.NoLegend, Spring: opts.Spring})
	r.Logger.Debug("generated DOT", "bytes", len(dot), "layout", opts.Layout)

	return nodelink.Render(ctx, dot, opts.Format, nodelink.RenderOptions{
		Engine: opts.Layout,
		Scale:  opts.Scale,
	})
}
