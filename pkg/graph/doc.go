// Package graph provides the serialization types for positioned tree diagrams.
//
// This package defines the wire format handed to the diagramming surface:
// a [Diagram] is an ordered list of [Node] values and an ordered list of
// [Edge] values, already positioned, in the shape a Vue Flow canvas consumes
// directly.
//
// # Format
//
//	{
//	  "nodes": [
//	    {
//	      "id": "root",
//	      "type": "compactNode",
//	      "position": {"x": 0, "y": 20},
//	      "sourcePosition": "right",
//	      "targetPosition": "left",
//	      "data": {"label": "root", "value": null, "dataType": "object", "fullText": null}
//	    },
//	    {
//	      "id": "root.a",
//	      "type": "compactNode",
//	      "position": {"x": 280, "y": 0},
//	      "sourcePosition": "right",
//	      "targetPosition": "left",
//	      "data": {"label": "a: 1", "value": 1, "dataType": "number", "fullText": "1", "keyPart": "a: ", "valuePart": "1"}
//	    }
//	  ],
//	  "edges": [
//	    {"id": "e-root-root.a", "source": "root", "target": "root.a", "type": "step", "animated": false}
//	  ]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalDiagram(d)          // Diagram → []byte
//	d, _ := graph.UnmarshalDiagram(data)        // []byte → Diagram
//	graph.WriteDiagramFile(d, "out.json")       // Diagram → File
//	d, _ := graph.ReadDiagramFile("out.json")   // File → Diagram
//
// # Validation
//
// [Validate] checks the structural guarantees every diagram produced by the
// layout engine satisfies: exactly one root, unique ids, one inbound edge per
// non-root node, known edge endpoints and no cycles.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
