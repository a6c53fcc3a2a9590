package markup

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("markup: invalid UTF-8")

	// ErrNulByte is returned for input containing NUL bytes.
	ErrNulByte = errors.New("markup: NUL byte in input")
)

// Fragment is a parsed HTML fragment. Root is a document node whose children
// are the fragment's top-level nodes.
type Fragment struct {
	Root *html.Node
}

// bodyContext is the element a fragment is parsed in.
func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// Check reports whether s can be parsed at all.
func Check(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	if strings.IndexByte(s, 0) >= 0 {
		return ErrNulByte
	}
	return nil
}

// ParseFragment parses s as the content of a <body> element.
func ParseFragment(s string) (*Fragment, error) {
	if err := Check(s); err != nil {
		return nil, err
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), bodyContext())
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Fragment{Root: root}, nil
}

// Render writes the fragment's top-level nodes to w.
func (f *Fragment) Render(w io.Writer) error {
	for c := f.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String serialises the fragment.
func (f *Fragment) String() (string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsRoot reports whether n is the synthetic root of a fragment, i.e. it has
// no addressable position of its own.
func IsRoot(n *html.Node) bool {
	return n != nil && n.Parent == nil
}
