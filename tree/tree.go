// Package tree models a hierarchical document of text-bearing nodes and the
// minimal mutation surface the anchoring engine needs. All offsets and
// lengths are measured in runes.
package tree

import "errors"

// Node is a single node of a document tree. Implementations must be
// comparable: two Node values referring to the same underlying node compare
// equal, values for distinct nodes do not. The engine only ever relies on
// identity, navigation, and text length - never on rendering state.
type Node interface {
	// Parent returns the enclosing node, nil at the root.
	Parent() Node
	// Children returns child nodes in document order, nil for leaves.
	Children() []Node
	// Leaf reports whether the node bears text directly. Leaves have no
	// text-bearing descendants.
	Leaf() bool
	// Text returns the node's direct text, "" for non-leaf nodes.
	Text() string
	// Length returns the rune count of Text.
	Length() int
}

// Wrapper is a grouping node inserted around a contiguous run of original
// content. It carries the class marker identifying it as an annotation
// wrapper and, optionally, a persistent id attribute.
type Wrapper interface {
	Node
	Attr(key string) string
	SetAttr(key, value string)
}

// MarkerClass is the class attribute value stamped on every wrapper node.
// IsWrapper recognizes wrappers by it.
const MarkerClass = "annotation"

// WrapperTag is the element name used for wrapper nodes.
const WrapperTag = "span"

// Editor mutates a document tree in place. Wrapping is local: it rearranges
// content only within the wrapped leaf's parent, so identities of all other
// leaves stay valid across a WrapRange call.
type Editor interface {
	// WrapRange replaces the [start, end) rune range of leaf's text with a
	// new wrapper owning exactly that run; text outside the range stays in
	// place as sibling leaves. Wrapping the whole leaf leaves no residual
	// siblings. An empty range produces an empty wrapper.
	WrapRange(leaf Node, start, end int) (Wrapper, error)
	// WrapNode replaces n - any attached node, leaf or not - with a new
	// wrapper owning n.
	WrapNode(n Node) (Wrapper, error)
	// IsWrapper reports whether n is a wrapper node.
	IsWrapper(n Node) bool
}

var (
	// ErrNotLeaf is returned when a wrap target is not a text-bearing leaf
	// attached to a parent.
	ErrNotLeaf = errors.New("node is not an attached text leaf")
	// ErrBadRange is returned when wrap offsets fall outside the leaf's text.
	ErrBadRange = errors.New("range outside of leaf text")
)
