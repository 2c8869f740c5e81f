package graph

import (
	"math"

	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeTypeCompact is the renderer component every node is drawn with.
const NodeTypeCompact = "compactNode"

// EdgeTypeStep is the right-angle edge routing style.
const EdgeTypeStep = "step"

// Anchor sides. Diagrams flow left to right by depth.
const (
	AnchorLeft  = "left"
	AnchorRight = "right"
)

// =============================================================================
// Diagram
// =============================================================================

// Diagram is a positioned tree: nodes in placement order and one edge per
// non-root node.
type Diagram struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeCount returns the number of nodes.
func (d Diagram) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges.
func (d Diagram) EdgeCount() int { return len(d.Edges) }

// Node returns the node with the given id.
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the ids of the direct children of id, in edge order.
func (d Diagram) Children(id string) []string {
	var out []string
	for _, e := range d.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Bounds returns the largest x and y coordinates of any node. An empty
// diagram has zero bounds.
func (d Diagram) Bounds() (maxX, maxY float64) {
	if len(d.Nodes) == 0 {
		return 0, 0
	}
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range d.Nodes {
		maxX = math.Max(maxX, n.Position.X)
		maxY = math.Max(maxY, n.Position.Y)
	}
	return maxX, maxY
}

// =============================================================================
// Node
// =============================================================================

// Node is one visual unit of the diagram.
type Node struct {
	ID             string   `json:"id" bson:"id"`
	Type           string   `json:"type" bson:"type"`
	Position       Position `json:"position" bson:"position"`
	SourcePosition string   `json:"sourcePosition" bson:"sourcePosition"` // outbound anchor side
	TargetPosition string   `json:"targetPosition" bson:"targetPosition"` // inbound anchor side
	Data           NodeData `json:"data" bson:"data"`
}

// Position is a node's top-left anchor in canvas pixels.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeData is the payload the renderer draws.
//
// Value and FullText are null for containers. KeyPart and ValuePart are only
// present on merged key/value leaves so the two halves can be styled apart.
type NodeData struct {
	Label     string  `json:"label" bson:"label"`
	Value     any     `json:"value" bson:"value"`
	DataType  string  `json:"dataType" bson:"dataType"`
	FullText  *string `json:"fullText" bson:"fullText"`
	KeyPart   *string `json:"keyPart,omitempty" bson:"keyPart,omitempty"`
	ValuePart *string `json:"valuePart,omitempty" bson:"valuePart,omitempty"`
}

// IsMerged reports whether the node combines a key with its primitive value.
func (n *Node) IsMerged() bool { return n.Data.KeyPart != nil }

// IsContainer reports whether the node stands for an array or object.
func (n *Node) IsContainer() bool {
	return jsontree.DataType(n.Data.DataType).IsContainer()
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects a parent node to one of its children.
type Edge struct {
	ID       string `json:"id" bson:"id"`
	Source   string `json:"source" bson:"source"`
	Target   string `json:"target" bson:"target"`
	Type     string `json:"type" bson:"type"`
	Animated bool   `json:"animated" bson:"animated"`
}

// EdgeID returns the conventional id of the edge from source to target.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}

// NewEdge returns a step edge from source to target.
func NewEdge(source, target string) Edge {
	return Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
		Type:   EdgeTypeStep,
	}
}

// StringPtr returns a pointer to s, for the optional NodeData fields.
func StringPtr(s string) *string { return &s }
