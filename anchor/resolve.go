package anchor

import (
	"fmt"

	"hilite/tree"
)

// Resolve converts abstract rune offsets into concrete positions under
// root. The largest requested offset bounds the tree walk, so only the
// minimal necessary prefix of the container is indexed. Leaves are scanned
// in document order and the first leaf whose inclusive [start, end] bounds
// contain an offset wins - an offset falling exactly on a leaf boundary
// resolves to the earlier leaf at its end position. Positions are returned
// in the order offsets were given; offsets resolving to the same leaf each
// get their own position.
//
// An offset beyond the indexed text length yields ErrOffsetOutOfRange and
// no positions at all: callers must treat the span as extending beyond the
// container instead of anchoring it partially.
func Resolve(root tree.Node, offsets ...int) ([]Position, error) {
	if len(offsets) == 0 {
		return nil, nil
	}

	stop := 0
	for _, off := range offsets {
		if off < 0 {
			return nil, fmt.Errorf("%w: negative offset %d", ErrOffsetOutOfRange, off)
		}
		if off > stop {
			stop = off
		}
	}

	out := make([]Position, len(offsets))
	done := make([]bool, len(offsets))
	left := len(offsets)
	cum := 0
	for leaf := range Leaves(root, stop) {
		start, end := cum, cum+leaf.Length()
		cum = end
		for i, off := range offsets {
			if !done[i] && start <= off && off <= end {
				out[i] = Position{Node: leaf, Offset: off - start}
				done[i] = true
				left--
			}
		}
		if left == 0 {
			break
		}
	}
	if left != 0 {
		for i, off := range offsets {
			if !done[i] {
				return nil, fmt.Errorf("%w: offset %d, indexed length %d", ErrOffsetOutOfRange, off, cum)
			}
		}
	}
	return out, nil
}
