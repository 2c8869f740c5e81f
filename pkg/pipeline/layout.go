package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout parses input and computes its diagram without caching.
func Layout(ctx context.Context, input []byte, opts Options) (graph.Diagram, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Diagram{}, err
	}
	if err := errors.ValidateInputSize(int64(len(input)), opts.MaxInputSize); err != nil {
		return graph.Diagram{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Diagram{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(input))
	start := time.Now()

	d, err := layout.FromJSON(input, opts.LayoutOptions())

	hooks.OnLayoutComplete(ctx, d.NodeCount(), time.Since(start), err)
	if err != nil {
		return graph.Diagram{}, err
	}
	opts.Logger.Debug("laid out input",
		"bytes", len(input),
		"nodes", d.NodeCount(),
		"duration", time.Since(start))
	return d, nil
}
