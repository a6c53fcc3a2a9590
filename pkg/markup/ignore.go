package markup

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// IgnoreSpec selects elements whose subtrees are never rewritten.
type IgnoreSpec struct {
	Tags          []string // lower-case tag names
	ClassPrefixes []string // class token prefixes, also matched against the raw attribute
	Classes       []string // exact class tokens
}

// DefaultIgnore returns the built-in ignore list: code-like and metadata
// elements, previously generated pull/push spans and small caps.
func DefaultIgnore() IgnoreSpec {
	return IgnoreSpec{
		Tags:          []string{"head", "code", "kbd", "pre", "samp", "script", "style", "tt", "xmp"},
		ClassPrefixes: []string{"pull-", "push-"},
		Classes:       []string{"small-caps"},
	}
}

// Merge returns s extended with the entries of other that s lacks.
func (s IgnoreSpec) Merge(other IgnoreSpec) IgnoreSpec {
	return IgnoreSpec{
		Tags:          union(s.Tags, other.Tags),
		ClassPrefixes: union(s.ClassPrefixes, other.ClassPrefixes),
		Classes:       union(s.Classes, other.Classes),
	}
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Skip reports whether the element n and its subtree must be left alone.
func (s IgnoreSpec) Skip(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if slices.Contains(s.Tags, n.Data) {
		return true
	}
	class, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, p := range s.ClassPrefixes {
		if strings.HasPrefix(class, p) {
			return true
		}
	}
	for _, tok := range strings.Fields(class) {
		if slices.Contains(s.Classes, tok) {
			return true
		}
		for _, p := range s.ClassPrefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
