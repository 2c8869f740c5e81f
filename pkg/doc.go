// Package pkg provides the core libraries for jsonviz, which turns JSON
// documents into positioned tree diagrams.
//
// # Overview
//
// Every JSON value becomes a node. Containers (objects and arrays) fan out
// to the right, one column per nesting level; primitive members are merged
// with their key into a single "key: value" leaf. The packages are:
//
//  1. [jsontree] - Parsing and value classification
//  2. [layout] - Subtree heights and node placement
//  3. [graph] - The serializable Diagram (nodes, edges, positions)
//  4. [render/nodelink] - DOT, SVG and PNG rendering via Graphviz
//  5. [pipeline] - Orchestration (layout → render) with caching
//  6. [cache], [store] - Content-addressed cache and saved diagrams
//
// # Architecture
//
//	JSON text
//	    ↓
//	[jsontree] package (parse, classify)
//	    ↓
//	[layout] package (measure, place)
//	    ↓
//	[graph] package (Diagram)
//	    ↓
//	JSON/DOT/SVG/PNG output
//
// # Quick Start
//
//	d, err := layout.FromJSON([]byte(`{"a":1,"b":{"c":true}}`), layout.DefaultOptions())
//	if err != nil {
//	    return err // errors.ErrCodeParse
//	}
//	for _, n := range d.Nodes {
//	    fmt.Println(n.ID, n.Position.X, n.Position.Y)
//	}
//
// Render an SVG with caching:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{Formats: []string{"svg"}})
//
// [jsontree]: github.com/matzehuels/jsonviz/pkg/jsontree
// [layout]: github.com/matzehuels/jsonviz/pkg/layout
// [graph]: github.com/matzehuels/jsonviz/pkg/graph
// [render/nodelink]: github.com/matzehuels/jsonviz/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/jsonviz/pkg/pipeline
// [cache]: github.com/matzehuels/jsonviz/pkg/cache
// [store]: github.com/matzehuels/jsonviz/pkg/store
package pkg
