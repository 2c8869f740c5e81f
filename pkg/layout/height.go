package layout

import (
	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// HeightCache maps a slot path (see [jsontree.Path.Slot]) to the vertical
// extent of its subtree. It is filled by [Measure] and only read by [Place].
// Slot paths equal node ids except under member names containing '.' or '['.
type HeightCache map[jsontree.Path]float64

// Height returns the cached height of path, or the node height when the path
// was never measured.
func (c HeightCache) Height(path jsontree.Path, s Spacing) float64 {
	if h, ok := c[path]; ok {
		return h
	}
	return s.NodeHeight
}

// Measure computes the subtree height of v rooted at the slot path, storing
// it and the heights of all nested containers in cache.
//
// A leaf occupies one node height. A container occupies the sum of its
// children (one node height per primitive child, the measured height per
// container child) plus one gap between consecutive children, and never less
// than one node height.
func Measure(v *jsontree.Value, path jsontree.Path, s Spacing, cache HeightCache) float64 {
	if !v.IsContainer() {
		cache[path] = s.NodeHeight
		return s.NodeHeight
	}

	total := 0.0
	i, n := 0, v.Len()
	v.Each(func(k jsontree.Key, child *jsontree.Value) {
		if child.IsContainer() {
			total += Measure(child, path.Slot(k), s, cache)
		} else {
			total += s.NodeHeight
		}
		if i < n-1 {
			total += s.Gap()
		}
		i++
	})

	h := max(total, s.NodeHeight)
	cache[path] = h
	return h
}
