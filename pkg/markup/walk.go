package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textOnly holds elements whose content the parser keeps as plain or raw
// text. Markup written into them would show up as literal text.
var textOnly = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Textarea:  true,
	atom.Title:     true,
	atom.Xmp:       true,
}

// holdsMarkup reports whether n's text children are rendered as HTML.
// Elements outside the HTML namespace (svg, math) do not qualify.
func holdsMarkup(n *html.Node) bool {
	return n.Namespace == "" && !textOnly[n.DataAtom]
}

// Walk visits every text leaf below root in document order. An element for
// which skip returns true is not entered, and neither is an element whose
// content is not markup (textarea, title, raw text elements, svg and math).
// visit may change a leaf's Type and Data in place but must not restructure
// the tree.
func Walk(root *html.Node, skip func(*html.Node) bool, visit func(*html.Node)) {
	switch root.Type {
	case html.TextNode:
		if root.Parent != nil && root.Parent.Type == html.ElementNode && !holdsMarkup(root.Parent) {
			return
		}
		visit(root)
		return
	case html.ElementNode:
		if !holdsMarkup(root) || (skip != nil && skip(root)) {
			return
		}
	case html.DocumentNode:
	default:
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, skip, visit)
	}
}

// Texts collects the text leaves Walk would visit.
func Texts(root *html.Node, skip func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, skip, func(n *html.Node) { out = append(out, n) })
	return out
}
