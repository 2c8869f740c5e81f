package layout

import (
	"strconv"

	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// Place runs the placement pass over v, which must already have been measured
// into cache under [jsontree.Root].
func Place(v *jsontree.Value, cache HeightCache, s Spacing) graph.Diagram {
	n := v.Count()
	b := &builder{
		spacing: s,
		cache:   cache,
		used:    make(map[string]bool, n),
		nodes:   make([]graph.Node, 0, n),
		edges:   make([]graph.Edge, 0, max(n-1, 0)),
	}
	b.place(v, string(jsontree.Root), jsontree.Root, jsontree.Root, "", 0, 0)
	return graph.Diagram{Nodes: b.nodes, Edges: b.edges}
}

type builder struct {
	spacing Spacing
	cache   HeightCache
	used    map[string]bool
	nodes   []graph.Node
	edges   []graph.Edge
}

// place emits the node for v and, for containers, its whole subtree. Heights
// are looked up by slot; ids derive from path. It returns the height the
// subtree consumed.
func (b *builder) place(v *jsontree.Value, key string, slot, path jsontree.Path, parentID string, depth int, startY float64) float64 {
	height := b.cache.Height(slot, b.spacing)
	dt := v.Type()

	data := graph.NodeData{DataType: string(dt)}
	if dt.IsContainer() {
		data.Label = key
	} else {
		text := v.Text()
		data.Label = text
		data.Value = v.Primitive()
		data.FullText = graph.StringPtr(text)
	}
	id := b.emit(path, parentID, depth, startY+height/2, data)

	if !dt.IsContainer() {
		return height
	}

	childY := startY
	v.Each(func(k jsontree.Key, child *jsontree.Value) {
		childSlot := slot.Slot(k)
		childPath := jsontree.Path(id).Child(k)
		if child.IsContainer() {
			b.place(child, k.Segment(), childSlot, childPath, id, depth+1, childY)
			childY += b.cache.Height(childSlot, b.spacing) + b.spacing.Gap()
			return
		}
		b.emitMerged(k, child, childPath, id, depth+1, childY)
		childY += b.spacing.NodeHeight + b.spacing.Gap()
	})
	return height
}

// emitMerged emits a primitive child as a single "key: value" node.
func (b *builder) emitMerged(k jsontree.Key, v *jsontree.Value, path jsontree.Path, parentID string, depth int, y float64) {
	text := v.Text()
	prefix := k.Prefix()
	b.emit(path, parentID, depth, y, graph.NodeData{
		Label:     prefix + text,
		Value:     v.Primitive(),
		DataType:  string(v.Type()),
		FullText:  graph.StringPtr(text),
		KeyPart:   graph.StringPtr(prefix),
		ValuePart: graph.StringPtr(text),
	})
}

// emit appends a node and its incoming edge, returning the id it was given.
func (b *builder) emit(path jsontree.Path, parentID string, depth int, y float64, data graph.NodeData) string {
	id := b.uniqueID(path.String())
	b.nodes = append(b.nodes, graph.Node{
		ID:             id,
		Type:           graph.NodeTypeCompact,
		Position:       graph.Position{X: float64(depth) * b.spacing.XSpacing, Y: y},
		SourcePosition: graph.AnchorRight,
		TargetPosition: graph.AnchorLeft,
		Data:           data,
	})
	if parentID != "" {
		b.edges = append(b.edges, graph.NewEdge(parentID, id))
	}
	return id
}

// uniqueID returns id on first use and id#2, id#3, ... after that. Paths only
// repeat when member names contain '.'.
func (b *builder) uniqueID(id string) string {
	out := id
	for n := 2; b.used[out]; n++ {
		out = id + "#" + strconv.Itoa(n)
	}
	b.used[out] = true
	return out
}
