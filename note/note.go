// Package note defines the annotation records applied to documents and
// their YAML wire form.
package note

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

// Note is one annotation: a span over the flattened document text plus a
// stable identity. It satisfies anchor.Record.
//
// Offset and Length are rune-based. A note may carry Quote instead of
// Length; content anchoring then locates the quote in the flattened text
// and fills Offset/Length before the note reaches the binder.
type Note struct {
	Key    string `yaml:"anchor_key" validate:"required"`
	Ref    string `yaml:"id,omitempty"`
	Offset int    `yaml:"offset,omitempty" validate:"gte=0"`
	Length int    `yaml:"length,omitempty" validate:"gte=0"`
	Quote  string `yaml:"quote,omitempty"`
}

func (n *Note) AnchorKey() string { return n.Key }
func (n *Note) ID() string        { return n.Ref }
func (n *Note) CharOffset() int   { return n.Offset }

func (n *Note) QuoteLength() int {
	if n.Length > 0 {
		return n.Length
	}
	return utf8.RuneCountInString(n.Quote)
}

type set struct {
	Annotations []*Note `yaml:"annotations" validate:"required,dive,required"`
}

// Load reads a YAML note set. Unknown fields are rejected so malformed
// files fail loudly instead of silently dropping annotations.
func Load(r io.Reader) ([]*Note, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s set
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("unable to decode annotations: %w", err)
	}
	if err := gencfg.Validate(&s); err != nil {
		return nil, fmt.Errorf("unable to validate annotations: %w", err)
	}
	for i, n := range s.Annotations {
		if n.Length == 0 && n.Quote == "" {
			return nil, fmt.Errorf("annotation %d (%s): neither length nor quote given", i, n.Key)
		}
	}
	return s.Annotations, nil
}

// FillIDs assigns generated identifiers to notes lacking one, so wrapper id
// attributes are always available downstream.
func FillIDs(notes []*Note, log *zap.Logger) error {
	for _, n := range notes {
		if n.Ref != "" {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("unable to generate annotation ID: %w", err)
		}
		n.Ref = id.String()
		log.Debug("Annotation has no ID, generating", zap.String("key", n.Key), zap.Stringer("id", id))
	}
	return nil
}
