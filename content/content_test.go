package content

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hilite/note"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func prepare(t *testing.T, src string) *Document {
	t.Helper()
	d, err := Prepare(context.Background(), strings.NewReader(src), "test.xml", testLogger(t))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return d
}

func TestPrepare(t *testing.T) {
	d := prepare(t, `<doc><p>The quick brown fox</p><p> jumps over</p></doc>`)
	if got := d.Text(); got != "The quick brown fox jumps over" {
		t.Fatalf("flattened text = %q", got)
	}

	t.Run("no_root", func(t *testing.T) {
		if _, err := Prepare(context.Background(), strings.NewReader("  "), "empty.xml", testLogger(t)); err == nil {
			t.Fatal("expected an error for a document without a root element")
		}
	})

	t.Run("canceled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Prepare(ctx, strings.NewReader("<doc/>"), "doc.xml", testLogger(t)); err == nil {
			t.Fatal("expected context cancellation error")
		}
	})
}

func TestAnnotate(t *testing.T) {
	log := testLogger(t)

	t.Run("explicit_span_and_quote", func(t *testing.T) {
		d := prepare(t, `<doc><p>The quick brown fox jumps over</p></doc>`)
		notes := []*note.Note{
			{Key: "a1", Ref: "id-1", Offset: 4, Length: 5},
			{Key: "a2", Ref: "id-2", Quote: "brown fox"},
		}
		if err := d.Annotate(notes, false, log); err != nil {
			t.Fatalf("Annotate: %v", err)
		}
		// quote anchoring fills the explicit span in place
		if notes[1].Offset != 10 || notes[1].Length != 9 {
			t.Fatalf("quote note normalized to [%d, %d)", notes[1].Offset, notes[1].Offset+notes[1].Length)
		}
		if got := d.Text(); got != "The quick brown fox jumps over" {
			t.Fatalf("flattened text changed to %q", got)
		}

		var out strings.Builder
		if err := d.WriteTo(&out); err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		for _, want := range []string{
			`<span class="annotation" id="id-1">quick</span>`,
			`<span class="annotation" id="id-2">brown fox</span>`,
		} {
			if !strings.Contains(out.String(), want) {
				t.Fatalf("serialized document missing %s:\n%s", want, out.String())
			}
		}
	})

	t.Run("quote_not_found", func(t *testing.T) {
		d := prepare(t, `<doc><p>some text</p></doc>`)
		err := d.Annotate([]*note.Note{{Key: "a1", Quote: "missing"}}, false, log)
		if err == nil {
			t.Fatal("expected an error for an unlocatable quote")
		}
		if !strings.Contains(err.Error(), "quote not found") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("degenerate_policy", func(t *testing.T) {
		d := prepare(t, `<doc><p>some text</p></doc>`)
		n := []*note.Note{{Key: "a1", Offset: 4, Length: 0}}
		if err := d.Annotate(n, false, log); err == nil {
			t.Fatal("expected degenerate span to be rejected")
		}

		d = prepare(t, `<doc><p>some text</p></doc>`)
		if err := d.Annotate(n, true, log); err != nil {
			t.Fatalf("degenerate span allowed by policy still failed: %v", err)
		}
	})

	t.Run("failures_do_not_stop_the_rest", func(t *testing.T) {
		d := prepare(t, `<doc><p>The quick brown fox</p></doc>`)
		notes := []*note.Note{
			{Key: "a1", Offset: 0, Length: 3},
			{Key: "bad", Offset: 100, Length: 5},
			{Key: "a2", Offset: 4, Length: 5},
		}
		if err := d.Annotate(notes, false, log); err == nil {
			t.Fatal("expected aggregated error")
		}
		if d.Binder.Wrapped("a1") == nil || d.Binder.Wrapped("a2") == nil {
			t.Fatal("good annotations must still anchor")
		}
		if d.Binder.Wrapped("bad") != nil {
			t.Fatal("failed annotation must not be indexed")
		}
	})

	t.Run("reapplied_key_updates_in_place", func(t *testing.T) {
		d := prepare(t, `<doc><p>The quick brown fox</p></doc>`)
		if err := d.Annotate([]*note.Note{{Key: "a1", Ref: "v1", Offset: 4, Length: 5}}, false, log); err != nil {
			t.Fatalf("Annotate: %v", err)
		}
		if err := d.Annotate([]*note.Note{{Key: "a1", Ref: "v2", Offset: 4, Length: 5}}, false, log); err != nil {
			t.Fatalf("Annotate update: %v", err)
		}
		ws := d.Binder.Wrapped("a1")
		if len(ws) != 1 || ws[0].Attr("id") != "v2" {
			t.Fatal("reapplied annotation did not update the existing wrapper")
		}

		var out strings.Builder
		if err := d.WriteTo(&out); err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		if strings.Count(out.String(), "annotation") != 1 {
			t.Fatalf("update created extra wrappers:\n%s", out.String())
		}
	})
}
