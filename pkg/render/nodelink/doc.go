// Package nodelink renders laid-out JSON diagrams with Graphviz.
//
// # Overview
//
// The layout package already fixes every node's position, so this package
// does not let Graphviz place anything. [ToDOT] pins each node at its
// computed coordinates and the neato engine only draws boxes and routes the
// orthogonal parent-child connectors.
//
// # Usage
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: add the data type and the position under each label
//   - NodeWidth, NodeHeight: box size in pixels (defaults 240 x 40)
//
// # Colours
//
// Boxes are filled with the type palette from [jsontree.SwatchFor], the
// same colours the browse TUI uses.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no external Graphviz installation is needed.
package nodelink
