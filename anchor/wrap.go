package anchor

import (
	"fmt"

	"hilite/tree"
)

// Wrap materializes the character span between start and end as wrapper
// nodes whose concatenated content exactly equals the original text between
// the two positions. Both positions must already be fully resolved - the
// tree is never touched before that point, so a failed resolution leaves it
// intact.
//
// A span inside one leaf yields exactly one wrapper. A span crossing leaves
// yields the tail of the start leaf, one wrapper per whole interior unit,
// and the head of the end leaf, reported in left-to-right document order.
// An interior unit is normally a single leaf; a run of content that is
// already wrapped counts as one unit and is wrapped whole, so the new
// wrapper becomes an ancestor of the existing one and the nesting stays
// recoverable through Binder.Covering. Interior units are discovered before
// any mutation and wrapped in reverse document order; each wrap is local to
// its unit so the identities of the remaining boundary leaves stay valid.
//
// A zero-length span (start equals end) yields a single empty wrapper -
// callers rejecting degenerate spans must do so upstream.
func Wrap(ed tree.Editor, root tree.Node, start, end Position) ([]tree.Wrapper, error) {
	if start.Node == end.Node {
		w, err := ed.WrapRange(start.Node, start.Offset, end.Offset)
		if err != nil {
			return nil, fmt.Errorf("unable to wrap leaf range: %w", err)
		}
		return []tree.Wrapper{w}, nil
	}

	interior, err := interiorUnits(ed, root, start.Node, end.Node)
	if err != nil {
		return nil, err
	}

	segments := make([]tree.Wrapper, 0, len(interior)+2)

	startSeg, err := ed.WrapRange(start.Node, start.Offset, start.Node.Length())
	if err != nil {
		return nil, fmt.Errorf("unable to wrap start leaf tail: %w", err)
	}
	segments = append(segments, startSeg)

	mid := make([]tree.Wrapper, len(interior))
	for i := len(interior) - 1; i >= 0; i-- {
		w, err := ed.WrapNode(interior[i])
		if err != nil {
			return nil, fmt.Errorf("unable to wrap interior unit: %w", err)
		}
		mid[i] = w
	}
	segments = append(segments, mid...)

	endSeg, err := ed.WrapRange(end.Node, 0, end.Offset)
	if err != nil {
		return nil, fmt.Errorf("unable to wrap end leaf head: %w", err)
	}
	return append(segments, endSeg), nil
}

// interiorUnits computes the ordered wrap units strictly between the two
// boundary leaves, in document order scoped to root. The leaf walk ends at
// the end leaf, never scanning past it. Each interior leaf is promoted to
// its highest wrapper ancestor that does not contain either boundary leaf;
// leaves sharing that ancestor collapse into one unit.
func interiorUnits(ed tree.Editor, root tree.Node, startLeaf, endLeaf tree.Node) ([]tree.Node, error) {
	boundary := make(map[tree.Node]bool)
	for n := startLeaf; n != nil; n = n.Parent() {
		boundary[n] = true
	}
	for n := endLeaf; n != nil; n = n.Parent() {
		boundary[n] = true
	}

	var units []tree.Node
	seenStart, seenEnd := false, false
	for leaf := range Leaves(root, -1) {
		if leaf == endLeaf {
			seenEnd = true
			break
		}
		if seenStart {
			unit := leaf
			for p := unit.Parent(); p != nil && p != root && ed.IsWrapper(p) && !boundary[p]; p = unit.Parent() {
				unit = p
			}
			if len(units) == 0 || units[len(units)-1] != unit {
				units = append(units, unit)
			}
		}
		if leaf == startLeaf {
			seenStart = true
		}
	}
	if !seenStart || !seenEnd {
		return nil, fmt.Errorf("%w: start found %t, end found %t", ErrBoundaryNotFound, seenStart, seenEnd)
	}
	return units, nil
}
