package hanging

import (
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"

	"github.com/matzehuels/letterpress/pkg/glyph"
)

// minHangLength is the number of user-perceived characters below which text
// cannot meaningfully hang.
const minHangLength = 2

// outcome records what the rule engine did with one word.
type outcome int

const (
	untouched  outcome = iota
	pulledOnly         // mark at a column edge
	pushedPrev         // push span appended to the previous word
	pushedLead         // push span placed before the pull span
)

func (o outcome) pulled() bool { return o != untouched }
func (o outcome) pushed() bool { return o == pushedPrev || o == pushedLead }

// wrap returns an inline span with the given class around already-escaped
// content.
func wrap(class, content string) string {
	return `<span class="` + class + `">` + content + `</span>`
}

func tooShort(s string) bool {
	return uniseg.GraphemeClusterCount(s) < minHangLength
}

// processWord rewrites a single word and returns it as escaped markup. prev
// is the already-rewritten previous word of the same leaf, nil for the first
// word. adjacent is consulted only for a first word that starts with a mark.
func (f *Filter) processWord(word string, prev *string, adjacent func() bool) (string, glyph.Rank, outcome) {
	if tooShort(word) {
		return html.EscapeString(word), 0, untouched
	}
	m, ok := f.glyphs.Classify(word)
	if !ok {
		return html.EscapeString(word), 0, untouched
	}

	rank := m.Glyph.Rank
	pulled := wrap(rank.PullClass(), html.EscapeString(word[:m.Len]))
	rest := html.EscapeString(word[m.Len:])
	push := wrap(rank.PushClass(), "")

	switch {
	case prev != nil:
		*prev += push
		return pulled + rest, rank, pushedPrev
	case adjacent():
		return push + pulled + rest, rank, pushedLead
	default:
		return pulled + rest, rank, pulledOnly
	}
}
