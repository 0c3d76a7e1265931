// Package debug renders annotated document trees as indented text for
// inclusion in run reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"hilite/tree"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// DumpTree renders the node structure with wrapper nodes marked, so a run
// report shows where annotations landed.
func DumpTree(root tree.Node, ed tree.Editor) string {
	tw := NewTreeWriter()
	dumpNode(tw, 0, root, ed)
	return tw.String()
}

func dumpNode(tw *TreeWriter, depth int, n tree.Node, ed tree.Editor) {
	if n.Leaf() {
		tw.TextBlock(depth, "text", n.Text())
		return
	}
	label := "node"
	if ed.IsWrapper(n) {
		if w, ok := n.(tree.Wrapper); ok && w.Attr("id") != "" {
			label = fmt.Sprintf("wrapper id=%s", w.Attr("id"))
		} else {
			label = "wrapper"
		}
	}
	tw.Line(depth, "%s", label)
	for _, c := range n.Children() {
		dumpNode(tw, depth+1, c, ed)
	}
}
