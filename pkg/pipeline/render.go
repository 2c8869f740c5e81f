package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats without
// caching. The DOT source is built once and shared by the Graphviz formats.
func Render(ctx context.Context, d graph.Diagram, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, d, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, d graph.Diagram, opts Options) (map[string][]byte, error) {
	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		if dot == "" && format != FormatJSON {
			dot = nodelink.ToDOT(d, opts.RenderOptions())
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalDiagram(d)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
