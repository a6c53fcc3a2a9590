// Package hanging implements hanging punctuation (optical margin alignment)
// for HTML fragments.
//
// # Overview
//
// A quotation mark at the start of a line pushes the visible edge of the text
// inward. The filter wraps such marks in spans that stylesheets pull into the
// margin, so the letters line up with the rest of the column:
//
//	out, err := hanging.Hanging(`He said "hello" to me.`, false)
//	// He said<span class="push-double"></span> <span class="pull-double">&#34;</span>hello&#34; to me.
//
// The generated classes are pull-double, push-double, pull-single and
// push-single. A typical stylesheet:
//
//	.pull-double { margin-left: -0.46em; }
//	.push-double { margin-right: 0.46em; }
//	.pull-single { margin-left: -0.27em; }
//	.push-single { margin-right: 0.27em; }
//
// # Algorithm
//
// The fragment is parsed with golang.org/x/net/html and every text leaf
// outside ignored elements (see [markup.DefaultIgnore]) is split into words
// on single spaces, after runs of spaces have been collapsed. A word that
// starts with a glyph from the [glyph.Table] has the glyph wrapped in a pull
// span. The counter-margin push span goes to the end of the previous word in
// the same leaf; when the word is the first of its leaf, the push span is
// placed in front of the pull span only if [markup.HasAdjacentText] finds text
// just before the leaf. Otherwise the mark sits at a real column edge and
// needs no compensation.
//
// Only U+0020 separates words. A mark after a tab, a newline or a no-break
// space is part of the preceding word and does not hang.
//
// Elements whose content is plain or raw text (textarea, title, script,
// noscript and the like) and svg or math content are never rewritten.
//
// Output of the filter contains only ignored spans around the marks, so
// running it twice gives the same result as running it once.
//
// # Templates
//
// [Filter.FuncMap] registers the filter as "hanging" for html/template.
// Plain strings are escaped before processing and values that are already
// template.HTML are not, which mirrors conditional escaping in template
// engines with autoescape:
//
//	t := template.Must(template.New("page").
//	    Funcs(hanging.Default().FuncMap()).
//	    Parse(`<p>{{ .Body | hanging }}</p>`))
//
// # Concurrency
//
// A [Filter] is immutable and every call parses its own tree, so a single
// Filter may be used from any number of goroutines.
package hanging
