package glyph

import (
	"errors"
	"fmt"
	"strings"
)

// Rank is the width class of a hanging glyph.
type Rank int

const (
	// Double marks are pulled by the width of a double quotation mark.
	Double Rank = iota
	// Single marks are pulled by the width of a single quotation mark.
	Single
)

// Ranks lists every rank in classification order.
var Ranks = []Rank{Double, Single}

// String returns the rank name used in CSS class names.
func (r Rank) String() string {
	switch r {
	case Double:
		return "double"
	case Single:
		return "single"
	default:
		return fmt.Sprintf("Rank(%d)", int(r))
	}
}

// PullClass is the class of the span wrapped around the glyph itself.
func (r Rank) PullClass() string { return "pull-" + r.String() }

// PushClass is the class of the empty counter-margin span.
func (r Rank) PushClass() string { return "push-" + r.String() }

// ErrEmptyEncoding is returned by [NewTable] when a glyph has an empty
// encoding. An empty encoding would be a prefix of every word.
var ErrEmptyEncoding = errors.New("glyph: empty encoding")

// Glyph is a recognised punctuation mark.
type Glyph struct {
	Rank      Rank
	Literal   rune
	Name      string
	Encodings []string // literal form first, then entity spellings
}

// match returns the longest encoding of g that prefixes s.
func (g Glyph) match(s string) (string, bool) {
	best := ""
	for _, enc := range g.Encodings {
		if len(enc) > len(best) && strings.HasPrefix(s, enc) {
			best = enc
		}
	}
	return best, best != ""
}

// Match is the result of a successful classification.
type Match struct {
	Glyph    Glyph
	Encoding string // the encoding found at the start of the input
	Len      int    // byte length of Encoding
}

// Table is an ordered, immutable set of glyphs.
type Table struct {
	glyphs []Glyph
}

// NewTable validates glyphs and returns a table ordered by rank, keeping the
// given order within a rank. Every glyph's literal form is added to its
// encodings when missing.
func NewTable(glyphs ...Glyph) (*Table, error) {
	t := &Table{glyphs: make([]Glyph, 0, len(glyphs))}
	for _, r := range Ranks {
		for _, g := range glyphs {
			if g.Rank != r {
				continue
			}
			g, err := normalize(g)
			if err != nil {
				return nil, err
			}
			t.glyphs = append(t.glyphs, g)
		}
	}
	if len(t.glyphs) != len(glyphs) {
		return nil, fmt.Errorf("glyph: unknown rank in table")
	}
	return t, nil
}

// MustTable is like [NewTable] but panics on error.
func MustTable(glyphs ...Glyph) *Table {
	t, err := NewTable(glyphs...)
	if err != nil {
		panic(err)
	}
	return t
}

func normalize(g Glyph) (Glyph, error) {
	lit := string(g.Literal)
	encs := make([]string, 0, len(g.Encodings)+1)
	hasLiteral := false
	for _, enc := range g.Encodings {
		if enc == "" {
			return Glyph{}, fmt.Errorf("%w: %s", ErrEmptyEncoding, g.Name)
		}
		if enc == lit {
			hasLiteral = true
		}
		encs = append(encs, enc)
	}
	if !hasLiteral {
		encs = append([]string{lit}, encs...)
	}
	g.Encodings = encs
	return g, nil
}

// Classify reports the first glyph, double-width before single-width, one of
// whose encodings is a prefix of s. Matching is case-sensitive.
func (t *Table) Classify(s string) (Match, bool) {
	if s == "" {
		return Match{}, false
	}
	for _, g := range t.glyphs {
		if enc, ok := g.match(s); ok {
			return Match{Glyph: g, Encoding: enc, Len: len(enc)}, true
		}
	}
	return Match{}, false
}

// Glyphs returns a copy of the table in classification order.
func (t *Table) Glyphs() []Glyph {
	out := make([]Glyph, len(t.glyphs))
	copy(out, t.glyphs)
	return out
}

// Rank returns the glyphs of rank r in table order.
func (t *Table) Rank(r Rank) []Glyph {
	var out []Glyph
	for _, g := range t.glyphs {
		if g.Rank == r {
			out = append(out, g)
		}
	}
	return out
}

// Len returns the number of glyphs in the table.
func (t *Table) Len() int { return len(t.glyphs) }
