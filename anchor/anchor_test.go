package anchor

import (
	"hilite/tree"
)

// rec is a minimal annotation record for tests.
type rec struct {
	key  string
	id   string
	off  int
	qlen int
}

func (r *rec) AnchorKey() string { return r.key }
func (r *rec) ID() string        { return r.id }
func (r *rec) CharOffset() int   { return r.off }
func (r *rec) QuoteLength() int  { return r.qlen }

// singleLeafDoc is a container with one text leaf.
func singleLeafDoc(text string) *tree.Element {
	root := tree.NewElement("doc")
	root.AppendElement("p").AppendText(text)
	return root
}

// threeLeafDoc spreads text over three paragraph leaves:
// "Hello " / "brave new" / " world".
func threeLeafDoc() *tree.Element {
	root := tree.NewElement("doc")
	root.AppendElement("p").AppendText("Hello ")
	root.AppendElement("p").AppendText("brave new")
	root.AppendElement("p").AppendText(" world")
	return root
}

func countWrappers(ed tree.Editor, n tree.Node) int {
	count := 0
	if ed.IsWrapper(n) {
		count++
	}
	for _, c := range n.Children() {
		count += countWrappers(ed, c)
	}
	return count
}
