package graph

import (
	"github.com/matzehuels/jsonviz/pkg/errors"
)

// Validate checks that d is a well-formed tree:
//   - node ids are unique and non-empty
//   - every edge connects two known nodes and has the conventional id
//   - every node except exactly one root is the target of exactly one edge
//   - following edges from the root reaches every node (no cycles)
//
// An empty diagram is valid.
func Validate(d Diagram) error {
	if len(d.Nodes) == 0 {
		if len(d.Edges) > 0 {
			return errors.New(errors.ErrCodeInvalidInput, "diagram has %d edges but no nodes", len(d.Edges))
		}
		return nil
	}

	ids := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	if want := len(d.Nodes) - 1; len(d.Edges) != want {
		return errors.New(errors.ErrCodeInvalidInput, "diagram has %d edges, want %d", len(d.Edges), want)
	}

	inbound := make(map[string]int, len(d.Edges))
	children := make(map[string][]string, len(d.Nodes))
	for _, e := range d.Edges {
		if !ids[e.Source] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown source %q", e.ID, e.Source)
		}
		if !ids[e.Target] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown target %q", e.ID, e.Target)
		}
		if e.ID != EdgeID(e.Source, e.Target) {
			return errors.New(errors.ErrCodeInvalidInput, "edge id %q, want %q", e.ID, EdgeID(e.Source, e.Target))
		}
		inbound[e.Target]++
		if inbound[e.Target] > 1 {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has more than one inbound edge", e.Target)
		}
		children[e.Source] = append(children[e.Source], e.Target)
	}

	root := ""
	for _, n := range d.Nodes {
		if inbound[n.ID] == 0 {
			if root != "" {
				return errors.New(errors.ErrCodeInvalidInput, "multiple roots: %q and %q", root, n.ID)
			}
			root = n.ID
		}
	}
	if root == "" {
		return errors.New(errors.ErrCodeInvalidInput, "diagram has no root")
	}

	seen := map[string]bool{root: true}
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[id] {
			if seen[c] {
				return errors.New(errors.ErrCodeInvalidInput, "cycle through %q", c)
			}
			seen[c] = true
			stack = append(stack, c)
		}
	}
	if len(seen) != len(d.Nodes) {
		return errors.New(errors.ErrCodeInvalidInput, "%d nodes unreachable from root %q", len(d.Nodes)-len(seen), root)
	}
	return nil
}
