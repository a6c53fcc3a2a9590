package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// IsText reports whether n is a text-bearing leaf: a text node, or a raw node
// left behind by an earlier rewrite.
func IsText(n *html.Node) bool {
	return n != nil && (n.Type == html.TextNode || n.Type == html.RawNode)
}

// HasAdjacentText reports whether rendered text precedes the leaf n in the
// tree, so that a mark at the start of n continues a line instead of
// starting one. Rules, first match wins:
//
//  1. the previous sibling ends in a text leaf
//  2. n has no parent, or its parent is the fragment root: no
//  3. the parent's previous sibling is a text leaf with visible content
func HasAdjacentText(n *html.Node) bool {
	if prev := n.PrevSibling; prev != nil && IsText(prev.LastChild) {
		return true
	}
	p := n.Parent
	if p == nil || IsRoot(p) {
		return false
	}
	if pp := p.PrevSibling; IsText(pp) && strings.TrimSpace(pp.Data) != "" {
		return true
	}
	return false
}
