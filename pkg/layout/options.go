package layout

import (
	"math"

	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// Default geometry, in pixels.
const (
	DefaultNodeHeight   = 40.0
	DefaultXSpacing     = 280.0
	DefaultMinSpacing   = 20.0
	DefaultGroupSpacing = 40.0
)

// Spacing holds the layout geometry.
type Spacing struct {
	NodeHeight   float64 `json:"node_height" toml:"node_height"`     // height of one node band
	XSpacing     float64 `json:"x_spacing" toml:"x_spacing"`         // column width per depth level
	MinSpacing   float64 `json:"min_spacing" toml:"min_spacing"`     // smallest gap between siblings
	GroupSpacing float64 `json:"group_spacing" toml:"group_spacing"` // preferred gap between siblings
}

// DefaultSpacing returns the standard geometry.
func DefaultSpacing() Spacing {
	return Spacing{
		NodeHeight:   DefaultNodeHeight,
		XSpacing:     DefaultXSpacing,
		MinSpacing:   DefaultMinSpacing,
		GroupSpacing: DefaultGroupSpacing,
	}
}

// Gap returns the vertical space between consecutive siblings.
func (s Spacing) Gap() float64 {
	return math.Max(s.MinSpacing, s.GroupSpacing)
}

// Normalize replaces non-positive or non-finite fields with their defaults.
func (s Spacing) Normalize() Spacing {
	d := DefaultSpacing()
	return Spacing{
		NodeHeight:   orDefault(s.NodeHeight, d.NodeHeight),
		XSpacing:     orDefault(s.XSpacing, d.XSpacing),
		MinSpacing:   orDefault(s.MinSpacing, d.MinSpacing),
		GroupSpacing: orDefault(s.GroupSpacing, d.GroupSpacing),
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Options configures [FromJSON].
type Options struct {
	Spacing  Spacing
	MaxDepth int  // container nesting limit; zero means jsontree.DefaultMaxDepth
	Repair   bool // retry malformed input through jsontree.Repair
}

// DefaultOptions returns the standard options.
func DefaultOptions() Options {
	return Options{
		Spacing:  DefaultSpacing(),
		MaxDepth: jsontree.DefaultMaxDepth,
	}
}
