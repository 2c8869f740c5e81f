package layout

import (
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// Compute lays out v with the given spacing. Non-positive spacing fields use
// their defaults. Compute never fails.
func Compute(v *jsontree.Value, s Spacing) graph.Diagram {
	d, _ := ComputeWithHeights(v, s)
	return d
}

// ComputeWithHeights is like [Compute] but also returns the height cache
// produced by the measuring pass.
func ComputeWithHeights(v *jsontree.Value, s Spacing) (graph.Diagram, HeightCache) {
	s = s.Normalize()
	cache := make(HeightCache)
	Measure(v, jsontree.Root, s, cache)
	return Place(v, cache, s), cache
}

// FromJSON parses data and lays it out. Malformed input fails with an
// [errors.ErrCodeParse] error wrapping a *jsontree.ParseError; no partial
// diagram is returned.
func FromJSON(data []byte, opts Options) (graph.Diagram, error) {
	p := jsontree.Parser{MaxDepth: opts.MaxDepth, Repair: opts.Repair}
	v, err := p.Parse(data)
	if err != nil {
		return graph.Diagram{}, errors.Wrap(errors.ErrCodeParse, err, "JSON parse error")
	}
	return Compute(v, opts.Spacing), nil
}
