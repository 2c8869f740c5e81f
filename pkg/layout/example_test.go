package layout_test

import (
	"fmt"

	"github.com/matzehuels/jsonviz/pkg/jsontree"
	"github.com/matzehuels/jsonviz/pkg/layout"
)

func ExampleFromJSON() {
	d, err := layout.FromJSON([]byte(`{"a": 1, "b": {"c": true}}`), layout.DefaultOptions())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, n := range d.Nodes {
		fmt.Printf("%-9s %-9q (%g, %g)\n", n.ID, n.Data.Label, n.Position.X, n.Position.Y)
	}
	for _, e := range d.Edges {
		fmt.Println(e.ID)
	}
	// Output:
	// root      "root"    (0, 60)
	// root.a    "a: 1"    (280, 0)
	// root.b    "b"       (280, 100)
	// root.b.c  "c: true" (560, 80)
	// e-root-root.a
	// e-root-root.b
	// e-root.b-root.b.c
}

func ExampleMeasure() {
	v := jsontree.Object(
		jsontree.Member{Key: "tags", Value: jsontree.Array(jsontree.String("a"), jsontree.String("b"))},
		jsontree.Member{Key: "ok", Value: jsontree.Bool(true)},
	)

	cache := make(layout.HeightCache)
	layout.Measure(v, jsontree.Root, layout.DefaultSpacing(), cache)

	fmt.Println("root.tags:", cache["root.tags"])
	fmt.Println("root:", cache[jsontree.Root])
	// Output:
	// root.tags: 120
	// root: 200
}

func ExampleFromJSON_invalid() {
	_, err := layout.FromJSON([]byte(`{invalid`), layout.DefaultOptions())
	fmt.Println(err != nil)
	// Output:
	// true
}
