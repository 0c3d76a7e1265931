// Package anchor places abstract character-offset spans onto a tree of
// text-bearing nodes and materializes them as wrapper nodes, even when a
// span crosses node boundaries. It also resolves, for any point inside
// nested wrappers, the stack of annotations covering that point ordered by
// specificity.
//
// Offsets are rune offsets into the flattened text of a container: the
// concatenation of all text leaves in document order. The engine is
// single-threaded; callers mutating one container concurrently must
// serialize externally.
package anchor

import (
	"strings"

	"hilite/tree"
)

// Record is an annotation as seen by the engine: a span over the flattened
// text plus a stable identity. The full annotation lives elsewhere, the
// engine only reads these facts.
type Record interface {
	// AnchorKey is the stable identity used to match an update to the
	// wrappers already bound to the same annotation.
	AnchorKey() string
	// CharOffset is the rune offset of the span start.
	CharOffset() int
	// QuoteLength is the rune length of the annotated text.
	QuoteLength() int
	// ID is an optional persistent identifier, "" when absent.
	ID() string
}

// Span is a pair of rune offsets into the flattened text, Start <= End.
type Span struct {
	Start int
	End   int
}

// Position is a concrete location: a text leaf and a rune offset into its
// text, 0 <= Offset <= leaf length.
type Position struct {
	Node   tree.Node
	Offset int
}

// TextSegment gives one leaf's cumulative rune bounds within the flattened
// text. Segments are contiguous, non-overlapping, and ordered by Start;
// End-Start equals the leaf's text length.
type TextSegment struct {
	Node  tree.Node
	Start int
	End   int
}

// Text returns the flattened text of the subtree under root.
func Text(root tree.Node) string {
	var b strings.Builder
	for leaf := range Leaves(root, -1) {
		b.WriteString(leaf.Text())
	}
	return b.String()
}
