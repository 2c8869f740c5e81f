// Package jsontree provides an ordered, immutable model of a JSON document.
//
// The standard library decodes objects into Go maps, which forget the order
// members appeared in. Diagram layout depends on that order, so this package
// parses JSON text into a [Value] tree that keeps object members in source
// order and array elements in index order.
//
// # Parsing
//
//	v, err := jsontree.Parse([]byte(`{"name": "app", "tags": ["a", "b"]}`))
//	if err != nil {
//	    var perr *jsontree.ParseError
//	    if errors.As(err, &perr) {
//	        // perr.Offset, perr.Msg
//	    }
//	}
//
// Parse follows the semantics of ECMAScript JSON.parse where Go and
// JavaScript could disagree:
//
//   - Duplicate object keys keep the position of their first occurrence and
//     the value of their last.
//   - Numbers are IEEE-754 doubles; [FormatNumber] reproduces
//     Number.prototype.toString.
//
// Malformed input can be passed through [Repair] first (backed by
// github.com/kaptinlin/jsonrepair) when a caller opts in to lenient input.
//
// # Type Classification
//
// Every value carries one of six [DataType] tags. [TypeOf] classifies
// arbitrary decoded Go values (the output of encoding/json) with the same
// rules, and [SwatchFor] maps a tag to its display colours.
//
// # Paths
//
// A [Path] names a position in the tree: "root", then ".name" for object
// members and ".[i]" for array elements, e.g. "root.users.[0].name".
package jsontree
