package hanging

import (
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"strings"

	"golang.org/x/net/html"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/glyph"
	"github.com/matzehuels/letterpress/pkg/markup"
)

// Stats counts what one filter run did.
type Stats struct {
	Leaves int `json:"leaves"` // text leaves visited
	Words  int `json:"words"`  // non-empty words seen
	Pulled int `json:"pulled"` // marks wrapped in pull spans
	Pushed int `json:"pushed"` // push spans emitted
	Double int `json:"double"` // double-width pulls
	Single int `json:"single"` // single-width pulls
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Leaves += o.Leaves
	s.Words += o.Words
	s.Pulled += o.Pulled
	s.Pushed += o.Pushed
	s.Double += o.Double
	s.Single += o.Single
}

// Config customises a [Filter]. Zero fields select the defaults.
type Config struct {
	// Glyphs is the glyph table. Defaults to glyph.Default().
	Glyphs *glyph.Table

	// Ignore lists additional elements to leave alone. The built-in ignore
	// list always applies.
	Ignore markup.IgnoreSpec

	// Escape escapes plain text before parsing when escaping is requested.
	// Defaults to html.EscapeString.
	Escape func(string) string
}

// Filter rewrites HTML fragments with hanging punctuation spans.
type Filter struct {
	glyphs *glyph.Table
	ignore markup.IgnoreSpec
	escape func(string) string
}

// New creates a filter from cfg.
func New(cfg Config) *Filter {
	f := &Filter{
		glyphs: cfg.Glyphs,
		ignore: markup.DefaultIgnore().Merge(cfg.Ignore),
		escape: cfg.Escape,
	}
	if f.glyphs == nil {
		f.glyphs = glyph.Default()
	}
	if f.escape == nil {
		f.escape = html.EscapeString
	}
	return f
}

var defaultFilter = New(Config{})

// Default returns the filter with built-in settings.
func Default() *Filter { return defaultFilter }

// Hanging runs the default filter. See [Filter.Hanging].
func Hanging(input string, escape bool) (template.HTML, error) {
	return defaultFilter.Hanging(input, escape)
}

// Hanging rewrites input and marks the result safe for verbatim output.
// When escape is true, input is treated as plain text and escaped first.
// Input that cannot be parsed yields an error with code PARSE_ERROR and no
// output.
func (f *Filter) Hanging(input string, escape bool) (template.HTML, error) {
	out, _, err := f.Apply(input, escape)
	return out, err
}

// Apply is like [Filter.Hanging] and also reports what was rewritten.
func (f *Filter) Apply(input string, escape bool) (template.HTML, Stats, error) {
	var st Stats
	if err := markup.Check(input); err != nil {
		return "", st, lperrors.Wrap(lperrors.ErrCodeParse, err, "cannot parse fragment")
	}
	if escape {
		input = f.escape(input)
	}
	if tooShort(input) {
		return template.HTML(input), st, nil
	}

	frag, err := markup.ParseFragment(input)
	if err != nil {
		return "", st, lperrors.Wrap(lperrors.ErrCodeParse, err, "cannot parse fragment")
	}
	markup.Walk(frag.Root, f.ignore.Skip, func(leaf *html.Node) {
		f.rewriteLeaf(leaf, &st)
	})

	out, err := frag.String()
	if err != nil {
		return "", st, lperrors.Wrap(lperrors.ErrCodeInternal, err, "cannot serialize fragment")
	}
	return template.HTML(out), st, nil
}

// Ignore returns the effective ignore list.
func (f *Filter) Ignore() markup.IgnoreSpec { return f.ignore }

// Glyphs returns the filter's glyph table.
func (f *Filter) Glyphs() *glyph.Table { return f.glyphs }

// Fingerprint identifies the filter's behaviour. Two filters with the same
// fingerprint produce the same output for the same input.
func (f *Filter) Fingerprint() string {
	var b strings.Builder
	for _, g := range f.glyphs.Glyphs() {
		b.WriteString(g.Rank.String())
		b.WriteByte(0)
		b.WriteString(strings.Join(g.Encodings, "\x00"))
		b.WriteByte('\n')
	}
	for _, part := range [][]string{f.ignore.Tags, f.ignore.ClassPrefixes, f.ignore.Classes} {
		b.WriteString(strings.Join(part, "\x00"))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
