// Package markdown renders Markdown to the HTML fragments the hanging filter
// consumes.
//
// Rendering uses goldmark with GitHub Flavored Markdown. With
// [Options.Typographer] set, straight quotes become curly quotes and
// guillemets as literal characters, so every opening mark is one the glyph
// table recognises. Soft line breaks are written as spaces because the
// filter only starts words after a space.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options configures a [Renderer].
type Options struct {
	// Typographer replaces straight quotes, dashes and ellipses with their
	// typographic forms.
	Typographer bool

	// Unsafe passes raw HTML in the Markdown source through to the output.
	Unsafe bool
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer.
func New(opts Options) *Renderer {
	exts := []goldmark.Extender{extension.GFM}
	if opts.Typographer {
		exts = append(exts, extension.NewTypographer(
			extension.WithTypographicSubstitutions(literalSubstitutions()),
		))
	}

	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithASTTransformers(
			util.Prioritized(softBreakSpaces{}, 999),
		)),
	}
	if opts.Unsafe {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Renderer{md: goldmark.New(gmOpts...)}
}

// softBreakSpaces replaces soft line breaks in running text with a space.
type softBreakSpaces struct{}

func (softBreakSpaces) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var breaks []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindCodeSpan {
			return ast.WalkSkipChildren, nil
		}
		if t, ok := n.(*ast.Text); ok && t.SoftLineBreak() && !t.HardLineBreak() && !t.IsRaw() {
			breaks = append(breaks, t)
		}
		return ast.WalkContinue, nil
	})
	for _, t := range breaks {
		t.SetSoftLineBreak(false)
		parent := t.Parent()
		parent.InsertAfter(parent, t, ast.NewString([]byte(" ")))
	}
}

// literalSubstitutions emits literal characters instead of the default
// entity references.
func literalSubstitutions() extension.TypographicSubstitutions {
	subs := make(extension.TypographicSubstitutions)
	subs[extension.LeftSingleQuote] = []byte("‘")
	subs[extension.RightSingleQuote] = []byte("’")
	subs[extension.LeftDoubleQuote] = []byte("“")
	subs[extension.RightDoubleQuote] = []byte("”")
	subs[extension.EnDash] = []byte("–")
	subs[extension.EmDash] = []byte("—")
	subs[extension.Ellipsis] = []byte("…")
	subs[extension.LeftAngleQuote] = []byte("«")
	subs[extension.RightAngleQuote] = []byte("»")
	subs[extension.Apostrophe] = []byte("’")
	return subs
}

// Render converts src to an HTML fragment.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
