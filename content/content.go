// Package content prepares documents for annotation and drives the binder
// over them.
package content

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"hilite/anchor"
	"hilite/note"
	"hilite/tree"
)

// Document is a parsed XML document together with the annotation binder
// scoped to its root container.
type Document struct {
	SrcName string
	Doc     *etree.Document
	Root    tree.Node
	Binder  *anchor.Binder

	// flattened text of the root container; wrapping preserves it, so one
	// snapshot taken at prepare time stays valid
	text string
}

// Prepare reads and parses an XML document and sets up annotation state
// over its root element.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	// Be liberal in what we accept - annotated sources are often produced by
	// tools that do not follow the XML standard to the letter
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read document '%s': %w", srcName, err)
	}
	rootElem := doc.Root()
	if rootElem == nil {
		return nil, fmt.Errorf("document '%s' has no root element", srcName)
	}

	root := tree.FromEtree(rootElem)
	d := &Document{
		SrcName: srcName,
		Doc:     doc,
		Root:    root,
		Binder:  anchor.NewBinder(root, tree.NewEtreeEditor(), log),
		text:    anchor.Text(root),
	}
	log.Debug("Prepared document", zap.String("src", srcName), zap.Int("text_length", utf8.RuneCountInString(d.text)))
	return d, nil
}

// Text returns the flattened text of the document's root container.
func (d *Document) Text() string { return d.text }

// Annotate anchors the notes in order. Notes carrying a quote instead of an
// explicit span are located in the flattened text first. A note that cannot
// be anchored is skipped with a warning; failures are reported together and
// do not stop the rest.
func (d *Document) Annotate(notes []*note.Note, allowDegenerate bool, log *zap.Logger) error {
	var errs error
	for _, n := range notes {
		if err := d.anchorNote(n, allowDegenerate); err != nil {
			log.Warn("Skipping annotation", zap.String("key", n.Key), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if err := d.Binder.Apply(n); err != nil {
			log.Warn("Skipping annotation", zap.String("key", n.Key), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// anchorNote normalizes a note to an explicit rune span before it reaches
// the binder.
func (d *Document) anchorNote(n *note.Note, allowDegenerate bool) error {
	if n.Length == 0 && n.Quote != "" {
		off, ok := d.locateQuote(n.Quote)
		if !ok {
			return fmt.Errorf("quote not found in document text: %q", n.Quote)
		}
		n.Offset = off
		n.Length = utf8.RuneCountInString(n.Quote)
	}
	if n.QuoteLength() == 0 && !allowDegenerate {
		return fmt.Errorf("degenerate span at offset %d rejected by policy", n.Offset)
	}
	return nil
}

// locateQuote returns the rune offset of the first occurrence of q in the
// flattened text.
func (d *Document) locateQuote(q string) (int, bool) {
	b := strings.Index(d.text, q)
	if b < 0 {
		return 0, false
	}
	return utf8.RuneCountInString(d.text[:b]), true
}

// WriteTo serializes the annotated document.
func (d *Document) WriteTo(w io.Writer) error {
	if _, err := d.Doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}
