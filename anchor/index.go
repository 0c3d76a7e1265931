package anchor

import (
	"iter"

	"hilite/tree"
)

// Leaves returns an iterator over the text-bearing leaves under root,
// depth-first in document order. When stopOffset >= 0 iteration ends once
// the cumulative rune count of leaves already yielded exceeds stopOffset.
// The early stop is a walk bound, not a guarantee: callers must never rely
// on leaves past stopOffset being visited. A negative stopOffset walks the
// whole subtree. Pure, no side effects.
func Leaves(root tree.Node, stopOffset int) iter.Seq[tree.Node] {
	return func(yield func(tree.Node) bool) {
		total := 0
		var walk func(n tree.Node) bool
		walk = func(n tree.Node) bool {
			if n.Leaf() {
				if !yield(n) {
					return false
				}
				total += n.Length()
				return stopOffset < 0 || total <= stopOffset
			}
			for _, c := range n.Children() {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

// Segments computes cumulative [Start, End] bounds for the leaves under
// root, first leaf starting at 0. Bounds are recomputed per call - nothing
// is cached across tree mutations.
func Segments(root tree.Node, stopOffset int) []TextSegment {
	var segs []TextSegment
	cum := 0
	for leaf := range Leaves(root, stopOffset) {
		l := leaf.Length()
		segs = append(segs, TextSegment{Node: leaf, Start: cum, End: cum + l})
		cum += l
	}
	return segs
}
