package tree

import (
	"errors"
	"testing"
)

func TestMemoryWrapRange(t *testing.T) {
	t.Run("interior_slice", func(t *testing.T) {
		root := NewElement("doc")
		p := root.AppendElement("p")
		p.AppendText("Hello world")

		ed := NewMemoryEditor()
		w, err := ed.WrapRange(p.Children()[0], 6, 11)
		if err != nil {
			t.Fatalf("WrapRange: %v", err)
		}
		if !ed.IsWrapper(w) {
			t.Fatal("result not recognized as a wrapper")
		}
		kids := p.Children()
		if len(kids) != 2 {
			t.Fatalf("expected 2 children after split, got %d", len(kids))
		}
		if kids[0].Text() != "Hello " {
			t.Fatalf("prefix = %q", kids[0].Text())
		}
		if kids[1] != Node(w) || w.Children()[0].Text() != "world" {
			t.Fatalf("wrapper holds %q", w.Children()[0].Text())
		}
		if w.Parent() != Node(p) {
			t.Fatal("wrapper not parented to the split leaf's parent")
		}
	})

	t.Run("multibyte_offsets_are_runes", func(t *testing.T) {
		root := NewElement("doc")
		p := root.AppendElement("p")
		p.AppendText("héllo wörld")

		w, err := NewMemoryEditor().WrapRange(p.Children()[0], 6, 11)
		if err != nil {
			t.Fatalf("WrapRange: %v", err)
		}
		if got := w.Children()[0].Text(); got != "wörld" {
			t.Fatalf("wrapped text = %q", got)
		}
	})

	t.Run("bad_input", func(t *testing.T) {
		root := NewElement("doc")
		p := root.AppendElement("p")
		leaf := p.AppendText("abc")

		ed := NewMemoryEditor()
		if _, err := ed.WrapRange(leaf, 1, 9); !errors.Is(err, ErrBadRange) {
			t.Fatalf("expected ErrBadRange, got %v", err)
		}
		if _, err := ed.WrapRange(leaf, -1, 2); !errors.Is(err, ErrBadRange) {
			t.Fatalf("expected ErrBadRange, got %v", err)
		}
		if _, err := ed.WrapRange(p, 0, 1); !errors.Is(err, ErrNotLeaf) {
			t.Fatalf("expected ErrNotLeaf for an element, got %v", err)
		}
		if _, err := ed.WrapRange(&Text{data: "detached"}, 0, 1); !errors.Is(err, ErrNotLeaf) {
			t.Fatalf("expected ErrNotLeaf for a detached leaf, got %v", err)
		}
	})
}

func TestMemoryWrapNode(t *testing.T) {
	root := NewElement("doc")
	p := root.AppendElement("p")
	p.AppendText("before ")
	b := p.AppendElement("b")
	b.AppendText("bold")
	p.AppendText(" after")

	ed := NewMemoryEditor()
	w, err := ed.WrapNode(b)
	if err != nil {
		t.Fatalf("WrapNode: %v", err)
	}
	if !ed.IsWrapper(w) {
		t.Fatal("result not recognized as a wrapper")
	}
	if p.Children()[1] != Node(w) {
		t.Fatal("wrapper did not take the wrapped node's position")
	}
	if b.Parent() != Node(w) || w.Children()[0] != Node(b) {
		t.Fatal("wrapped node not reparented under the wrapper")
	}
	if root.String() != `<doc><p>before <span map[class:annotation]><b>bold</b></span> after</p></doc>` {
		t.Fatalf("render = %s", root.String())
	}
}

func TestMemoryIsWrapper(t *testing.T) {
	root := NewElement("doc")
	span := root.AppendElement(WrapperTag)
	ed := NewMemoryEditor()
	if ed.IsWrapper(span) {
		t.Fatal("span without the marker class must not count")
	}
	span.SetAttr("class", MarkerClass)
	if !ed.IsWrapper(span) {
		t.Fatal("marked span not recognized")
	}
	if ed.IsWrapper(root.AppendText("text")) {
		t.Fatal("text leaf must not count")
	}
}
