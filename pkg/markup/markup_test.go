package markup

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *Fragment {
	t.Helper()
	f, err := ParseFragment(s)
	if err != nil {
		t.Fatalf("ParseFragment(%q): %v", s, err)
	}
	return f
}

func leafData(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Data
	}
	return out
}

func TestParseFragmentRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<p>para</p>", "<p>para</p>"},
		{"<em>word</em> tail", "<em>word</em> tail"},
		{`say "hi"`, "say &#34;hi&#34;"},
		{"a &amp; b", "a &amp; b"},
		{"&ldquo;x", "“x"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := mustParse(t, tt.in).String()
		if err != nil {
			t.Fatalf("String(): %v", err)
		}
		if got != tt.want {
			t.Errorf("round trip %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFragmentKeepsSiblingLinks(t *testing.T) {
	f := mustParse(t, `<em>word</em>"next`)
	last := f.Root.LastChild
	if last == nil || last.Type != html.TextNode {
		t.Fatalf("last child = %+v", last)
	}
	if last.PrevSibling == nil || last.PrevSibling.Data != "em" {
		t.Error("top-level nodes should stay linked as siblings")
	}
	if !IsRoot(last.Parent) {
		t.Error("top-level nodes should hang off the fragment root")
	}
}

func TestParseFragmentErrors(t *testing.T) {
	if _, err := ParseFragment("bad \xff byte"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("invalid UTF-8: err = %v", err)
	}
	if _, err := ParseFragment("nul \x00 byte"); !errors.Is(err, ErrNulByte) {
		t.Errorf("NUL byte: err = %v", err)
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	f := mustParse(t, `<p>one <b>two</b></p><pre>skip</pre><div><code>no</code>three</div>`)
	got := leafData(Texts(f.Root, DefaultIgnore().Skip))
	want := []string{"one ", "two", "three"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("leaves = %q, want %q", got, want)
	}
}

func TestWalkNilSkipVisitsEverything(t *testing.T) {
	f := mustParse(t, `a<code>b</code>`)
	if got := len(Texts(f.Root, nil)); got != 2 {
		t.Errorf("visited %d leaves, want 2", got)
	}
}

func TestWalkSkipsComments(t *testing.T) {
	f := mustParse(t, `a<!-- "note" -->b`)
	if got := leafData(Texts(f.Root, nil)); strings.Join(got, "") != "ab" {
		t.Errorf("leaves = %q", got)
	}
}

func TestWalkSkipsTextOnlyElements(t *testing.T) {
	f := mustParse(t, `a<textarea>b</textarea><title>c</title><noscript>d</noscript><svg><text>e</text></svg>f`)
	if got := leafData(Texts(f.Root, nil)); strings.Join(got, "") != "af" {
		t.Errorf("leaves = %q, want only a and f", got)
	}
}

func TestWalkSkippedRoot(t *testing.T) {
	f := mustParse(t, `<code>x</code>`)
	code := f.Root.FirstChild
	if got := Texts(code, DefaultIgnore().Skip); len(got) != 0 {
		t.Errorf("skipped root should yield no leaves, got %q", leafData(got))
	}
}

func TestIgnoreSpecSkip(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<code>x</code>", true},
		{"<kbd>x</kbd>", true},
		{"<samp>x</samp>", true},
		{"<tt>x</tt>", true},
		{"<xmp>x</xmp>", true},
		{"<pre>x</pre>", true},
		{`<span class="pull-double">x</span>`, true},
		{`<span class="push-single">x</span>`, true},
		{`<span class="note pull-single">x</span>`, true},
		{`<span class="small-caps">x</span>`, true},
		{`<span class="a small-caps b">x</span>`, true},
		{`<span class="small-caps-ish">x</span>`, false},
		{`<span class="pulled">x</span>`, false},
		{`<span id="pull-double">x</span>`, false},
		{"<em>x</em>", false},
		{"<p>x</p>", false},
	}
	spec := DefaultIgnore()
	for _, tt := range tests {
		n := mustParse(t, tt.in).Root.FirstChild
		if got := spec.Skip(n); got != tt.want {
			t.Errorf("Skip(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIgnoreSpecSkipNonElements(t *testing.T) {
	spec := DefaultIgnore()
	if spec.Skip(nil) {
		t.Error("nil should not be skipped")
	}
	if spec.Skip(&html.Node{Type: html.TextNode, Data: "code"}) {
		t.Error("text nodes should not be skipped")
	}
}

func TestIgnoreSpecMerge(t *testing.T) {
	merged := DefaultIgnore().Merge(IgnoreSpec{Tags: []string{"var", "code"}, Classes: []string{"verbatim"}})
	n := mustParse(t, "<var>x</var>").Root.FirstChild
	if !merged.Skip(n) {
		t.Error("merged spec should skip <var>")
	}
	count := 0
	for _, tag := range merged.Tags {
		if tag == "code" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("code appears %d times after merge", count)
	}
	if len(DefaultIgnore().Tags) != 9 {
		t.Error("Merge must not modify the receiver's defaults")
	}
}

func TestHasAdjacentText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		leaf string
		want bool
	}{
		{"previous sibling ends in text", `<em>word</em>"next`, `"next`, true},
		{"previous sibling ends in element", `<em><img></em>"next`, `"next`, false},
		{"previous sibling is empty", `<em></em>"next`, `"next`, false},
		{"top level, no sibling", `"start`, `"start`, false},
		{"parent preceded by text", `word <em>"quoted</em>`, `"quoted`, true},
		{"parent preceded by whitespace", ` <em>"quoted</em>`, `"quoted`, false},
		{"parent preceded by element", `<b>x</b><em>"quoted</em>`, `"quoted`, false},
		{"parent is first", `<p>"para</p>`, `"para`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustParse(t, tt.in)
			var leaf *html.Node
			for _, n := range Texts(f.Root, nil) {
				if n.Data == tt.leaf {
					leaf = n
				}
			}
			if leaf == nil {
				t.Fatalf("leaf %q not found", tt.leaf)
			}
			if got := HasAdjacentText(leaf); got != tt.want {
				t.Errorf("HasAdjacentText = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasAdjacentTextSeesRewrittenLeaves(t *testing.T) {
	f := mustParse(t, `said <em>"x</em>`)
	said := f.Root.FirstChild
	said.Type = html.RawNode
	said.Data = `said<span class="push-double"></span> `
	leaf := f.Root.LastChild.FirstChild
	if !HasAdjacentText(leaf) {
		t.Error("raw nodes from earlier rewrites count as text")
	}
}

func TestRenderRawNode(t *testing.T) {
	f := mustParse(t, "x")
	f.Root.FirstChild.Type = html.RawNode
	f.Root.FirstChild.Data = `<span class="pull-double">&#34;</span>x`
	got, err := f.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != `<span class="pull-double">&#34;</span>x` {
		t.Errorf("raw node rendered as %q", got)
	}
}
