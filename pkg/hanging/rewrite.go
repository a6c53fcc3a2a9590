package hanging

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/letterpress/pkg/glyph"
	"github.com/matzehuels/letterpress/pkg/markup"
)

// collapseSpaces replaces runs of U+0020 with a single space. Other
// whitespace is left alone.
func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// rewriteLeaf applies the hang rules to every word of a text leaf. A leaf
// in which no rule fired stays a text node with collapsed spacing; otherwise
// it becomes a raw node holding the rewritten, escaped markup.
func (f *Filter) rewriteLeaf(leaf *html.Node, st *Stats) {
	text := collapseSpaces(leaf.Data)
	leaf.Data = text
	st.Leaves++
	if tooShort(text) {
		return
	}

	var adj *bool
	adjacent := func() bool {
		if adj == nil {
			v := markup.HasAdjacentText(leaf)
			adj = &v
		}
		return *adj
	}

	words := strings.Split(text, " ")
	out := make([]string, len(words))
	changed := false
	for i, w := range words {
		var prev *string
		if i > 0 {
			prev = &out[i-1]
		}
		res, rank, o := f.processWord(w, prev, adjacent)
		out[i] = res
		if w != "" {
			st.Words++
		}
		if !o.pulled() {
			continue
		}
		changed = true
		st.Pulled++
		if o.pushed() {
			st.Pushed++
		}
		if rank == glyph.Double {
			st.Double++
		} else {
			st.Single++
		}
	}

	if !changed {
		return
	}
	leaf.Type = html.RawNode
	leaf.Data = strings.Join(out, " ")
}
