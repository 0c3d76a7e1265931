// Package text provides sentence segmentation over flattened document
// text, producing rune spans suitable for annotation anchoring.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter prepares a sentence tokenizer for the requested language.
// Only the English punkt model ships with the tokenizer module; any other
// language falls back to it with a warning. A nil Splitter is usable and
// treats the whole input as a single sentence.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	base, confidence := lang.Base()
	if confidence != language.No && base.String() != "en" {
		log.Warn("No sentence tokenizer model for language, falling back to English",
			zap.Stringer("tag", lang), zap.String("language", display.English.Languages().Name(lang)))
	}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentence tokenizer, turning off sentence splitting", zap.Error(err))
		return nil
	}
	return &Splitter{tokenizer}
}

// Split returns the slice of sentences. Their concatenation covers the
// whole input: sentence trailing spaces, which the tokenizer attaches to
// the following sentence, are moved back to the sentence they follow.
func (s *Splitter) Split(in string) []string {
	var out []string
	if s == nil {
		// tokenizer is off
		return append(out, in)
	}

	for _, sentence := range s.Tokenize(in) {
		out = append(out, sentence.Text)
	}

	for i := range len(out) - 1 {
		for idx, sym := range out[i+1] {
			if !unicode.IsSpace(sym) {
				out[i] = out[i] + out[i+1][0:idx]
				out[i+1] = out[i+1][idx:]
				break
			}
		}
	}
	return out
}

// Span is one sentence's rune bounds within the input text, surrounding
// whitespace excluded.
type Span struct {
	Start int
	End   int
}

// Spans locates each sentence in the input and reports its rune span.
// Sentences that cannot be located back in the input or that are all
// whitespace are skipped.
func (s *Splitter) Spans(in string) []Span {
	var spans []Span

	bytePos, runePos := 0, 0
	for _, sent := range s.Split(in) {
		rel := strings.Index(in[bytePos:], sent)
		if rel < 0 {
			continue
		}
		runePos += utf8.RuneCountInString(in[bytePos : bytePos+rel])
		start := runePos
		n := utf8.RuneCountInString(sent)
		bytePos += rel + len(sent)
		runePos = start + n

		lead := n - utf8.RuneCountInString(strings.TrimLeftFunc(sent, unicode.IsSpace))
		trail := n - utf8.RuneCountInString(strings.TrimRightFunc(sent, unicode.IsSpace))
		if start+lead >= start+n-trail {
			// nothing but whitespace
			continue
		}
		spans = append(spans, Span{Start: start + lead, End: start + n - trail})
	}
	return spans
}
