package note

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLoad(t *testing.T) {
	t.Run("good_set", func(t *testing.T) {
		src := `
annotations:
  - anchor_key: a1
    id: note-1
    offset: 4
    length: 5
  - anchor_key: a2
    quote: "brown fox"
`
		notes, err := Load(strings.NewReader(src))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(notes) != 2 {
			t.Fatalf("expected 2 notes, got %d", len(notes))
		}
		if notes[0].AnchorKey() != "a1" || notes[0].ID() != "note-1" || notes[0].CharOffset() != 4 || notes[0].QuoteLength() != 5 {
			t.Fatalf("first note decoded as %+v", notes[0])
		}
		// quote stands in for a missing length, counted in runes
		if notes[1].QuoteLength() != 9 {
			t.Fatalf("second note quote length = %d", notes[1].QuoteLength())
		}
	})

	t.Run("unknown_field", func(t *testing.T) {
		src := `
annotations:
  - anchor_key: a1
    length: 5
    color: red
`
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Fatal("expected unknown field to be rejected")
		}
	})

	t.Run("missing_anchor_key", func(t *testing.T) {
		src := `
annotations:
  - offset: 4
    length: 5
`
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Fatal("expected validation failure for missing anchor_key")
		}
	})

	t.Run("no_span", func(t *testing.T) {
		src := `
annotations:
  - anchor_key: a1
    offset: 4
`
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Fatal("expected failure when neither length nor quote is given")
		}
	})
}

func TestQuoteLength(t *testing.T) {
	n := &Note{Key: "a", Length: 7, Quote: "unrelated text"}
	if n.QuoteLength() != 7 {
		t.Fatalf("explicit length must win, got %d", n.QuoteLength())
	}
	n = &Note{Key: "a", Quote: "héllo"}
	if n.QuoteLength() != 5 {
		t.Fatalf("quote length must count runes, got %d", n.QuoteLength())
	}
}

func TestFillIDs(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	notes := []*Note{
		{Key: "a1", Ref: "keep-me", Length: 3},
		{Key: "a2", Length: 3},
	}
	if err := FillIDs(notes, log); err != nil {
		t.Fatalf("FillIDs: %v", err)
	}
	if notes[0].Ref != "keep-me" {
		t.Fatalf("existing id overwritten with %q", notes[0].Ref)
	}
	if notes[1].Ref == "" {
		t.Fatal("missing id not filled")
	}
	if _, err := uuid.Parse(notes[1].Ref); err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", notes[1].Ref, err)
	}
}
