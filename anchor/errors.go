package anchor

import "errors"

var (
	// ErrOffsetOutOfRange reports a requested offset beyond the container's
	// indexed text length. No position is fabricated for it and no tree
	// mutation happens on the affected span.
	ErrOffsetOutOfRange = errors.New("offset beyond indexed text")

	// ErrBoundaryNotFound reports a wrap endpoint whose leaf is not under
	// the given container root.
	ErrBoundaryNotFound = errors.New("span boundary not under container")
)
