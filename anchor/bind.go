package anchor

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hilite/tree"
)

// Binder owns the association between annotation records and the wrapper
// nodes materializing them within one container. It keeps an explicit index
// from anchor key to wrappers, maintained incrementally, so updates never
// rescan the tree.
type Binder struct {
	root tree.Node
	ed   tree.Editor
	log  *zap.Logger

	byKey map[string][]tree.Wrapper
	bound map[tree.Node]Record
}

func NewBinder(root tree.Node, ed tree.Editor, log *zap.Logger) *Binder {
	return &Binder{
		root:  root,
		ed:    ed,
		log:   log,
		byKey: make(map[string][]tree.Wrapper),
		bound: make(map[tree.Node]Record),
	}
}

// Apply binds rec to the container. When wrappers bound to the same anchor
// key already exist, their record reference is swapped in place - no new
// wrapping, no tree mutation beyond restamping the id attribute. Otherwise
// the record's span is resolved and wrapped anew. Both span endpoints are
// resolved before any mutation, so a failing record leaves the tree
// untouched.
func (b *Binder) Apply(rec Record) error {
	if ws := b.byKey[rec.AnchorKey()]; len(ws) > 0 {
		for _, w := range ws {
			b.bound[w] = rec
			if rec.ID() != "" {
				w.SetAttr("id", rec.ID())
			}
		}
		b.log.Debug("Updated annotation in place",
			zap.String("key", rec.AnchorKey()), zap.Int("wrappers", len(ws)))
		return nil
	}

	s := rec.CharOffset()
	e := s + rec.QuoteLength()
	pos, err := Resolve(b.root, s, e)
	if err != nil {
		return fmt.Errorf("unable to resolve span [%d, %d): %w", s, e, err)
	}
	ws, err := Wrap(b.ed, b.root, pos[0], pos[1])
	if err != nil {
		return fmt.Errorf("unable to wrap span [%d, %d): %w", s, e, err)
	}
	for _, w := range ws {
		b.bound[w] = rec
		if rec.ID() != "" {
			w.SetAttr("id", rec.ID())
		}
	}
	b.byKey[rec.AnchorKey()] = ws
	b.log.Debug("Anchored annotation",
		zap.String("key", rec.AnchorKey()), zap.Int("start", s), zap.Int("end", e), zap.Int("wrappers", len(ws)))
	return nil
}

// ApplyAll applies records in order. A record that fails to anchor is
// skipped with a warning and does not stop the rest; failures are reported
// together.
func (b *Binder) ApplyAll(recs ...Record) error {
	var errs error
	for _, rec := range recs {
		if err := b.Apply(rec); err != nil {
			b.log.Warn("Skipping annotation", zap.String("key", rec.AnchorKey()), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Wrapped returns the wrappers currently bound to the anchor key, nil when
// the key has never been applied.
func (b *Binder) Wrapped(key string) []tree.Wrapper {
	return b.byKey[key]
}

// Covering collects the annotations covering n - a wrapper, or the leaf the
// user interacted with - by walking upward while each consecutive ancestor
// is a recognized wrapper. The walk stops at the first non-wrapper ancestor;
// reaching the root is normal termination, not an error. Records are
// ordered ascending by quote length (most specific first); equal lengths
// keep discovery order, innermost first.
func (b *Binder) Covering(n tree.Node) []Record {
	var recs []Record
	cur := n
	if b.ed.IsWrapper(cur) {
		if rec, ok := b.bound[cur]; ok {
			recs = append(recs, rec)
		}
	}
	for cur = cur.Parent(); cur != nil && b.ed.IsWrapper(cur); cur = cur.Parent() {
		if rec, ok := b.bound[cur]; ok {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].QuoteLength() < recs[j].QuoteLength()
	})
	return recs
}
