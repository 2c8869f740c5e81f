package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/render/nodelink"
)

func ExampleToDOT() {
	d, _ := layout.FromJSON([]byte(`[true]`), layout.DefaultOptions())

	dot := nodelink.ToDOT(d, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "pos=") || strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "root" [label="root", pos="120,-40!", fillcolor="#9333ea"];
	// "root.[0]" [label="[0]: true", pos="400,-20!", fillcolor="#ca8a04", tooltip="true", style="filled"];
	// "root" -> "root.[0]";
}
