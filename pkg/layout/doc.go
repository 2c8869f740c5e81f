// Package layout positions a JSON value tree as a left-to-right diagram.
//
// # Overview
//
// Layout runs in two passes over the same [jsontree.Value]:
//
//   - [Measure] walks the tree bottom-up and records, for every container
//     slot, the vertical extent its rendered subtree needs in a [HeightCache].
//   - [Place] walks the tree top-down, reads the cache, and emits one
//     [graph.Node] per container or merged leaf plus one [graph.Edge] per
//     non-root node.
//
// [Compute] runs both passes; [FromJSON] parses text first.
//
// # Geometry
//
// Every depth level is one column, [Spacing.XSpacing] pixels wide. A node is
// centred vertically in the band reserved for its subtree. Primitive children
// are never recursed into: each becomes a single merged "key: value" node,
// top-aligned in a band of [Spacing.NodeHeight]. Consecutive siblings are
// separated by [Spacing.Gap].
//
// With the default spacing, the document
//
//	{"a": 1, "b": {"c": true}}
//
// produces root at (0, 60), "a: 1" at (280, 0), "b" at (280, 100) and
// "c: true" at (560, 80).
//
// # Determinism
//
// Children are visited in array index order and object insertion order, so
// identical input always yields identical node ids, positions, and order.
//
// # Node ids
//
// A node id is its path from "root". Member names containing '.' can make two
// paths equal, as in {"a.b": 1, "a": {"b": 2}}; the later node then gets the
// id "root.a.b#2" and its descendants hang off that id. Heights are keyed by
// [jsontree.Path.Slot], which never collides.
//
// # Integration
//
//	text → jsontree.Parse → layout.Compute → graph.MarshalDiagram
//	                                       → nodelink.RenderSVG
package layout
