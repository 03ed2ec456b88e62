package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mountviz/pkg/errors"
	"github.com/matzehuels/mountviz/pkg/render"
)

// Force-directed and radial layout engines accepted by [RenderSVG].
const (
	EngineFDP   = "fdp"
	EngineNeato = "neato"
	EngineSFDP  = "sfdp"
	EngineCirco = "circo"
	EngineTwopi = "twopi"
)

// Engines lists the supported layout engines.
var Engines = []string{EngineFDP, EngineNeato, EngineSFDP, EngineCirco, EngineTwopi}

// ValidateEngine checks that engine is a supported layout engine.
func ValidateEngine(engine string) error {
	if !slices.Contains(Engines, engine) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout engine: %q", engine)
	}
	return nil
}

// RenderOptions configures [Render].
type RenderOptions struct {
	// Engine is the Graphviz layout engine. Empty uses EngineFDP.
	Engine string
	// Scale is the PNG resolution factor. Zero uses 2.0.
	Scale float64
}

// Render produces the DOT graph in the given format: "dot" returns the
// source unchanged, "svg" renders in-process, "png" and "pdf" convert the
// SVG with rsvg-convert.
func Render(ctx context.Context, dot, format string, opts RenderOptions) ([]byte, error) {
	engine := opts.Engine
	if engine == "" {
		engine = EngineFDP
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 2.0
	}

	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return RenderSVG(ctx, dot, engine)
	case render.FormatPNG:
		svg, err := RenderSVG(ctx, dot, engine)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, scale)
	case render.FormatPDF:
		svg, err := RenderSVG(ctx, dot, engine)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
	}
}

// RenderSVG lays out a DOT graph with engine and renders it to SVG using
// Graphviz.
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	if err := ValidateEngine(engine); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so width and height match the
// viewBox in user units, which keeps rsvg-convert scaling predictable.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
