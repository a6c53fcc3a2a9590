// Package pkg holds the letterpress libraries.
//
// # Overview
//
// Letterpress rewrites HTML fragments so that leading quotation marks hang
// into the margin. Each pulled mark is wrapped in a pull span and the word
// before it receives a matching push span; CSS gives them negative and
// positive margins.
//
// # Data Flow
//
//	Markdown or HTML fragment
//	         ↓
//	    [markdown] package (optional GFM rendering)
//	         ↓
//	    [markup] package (parse, ignore rules, text leaves)
//	         ↓
//	    [hanging] package (classify words against [glyph] tables)
//	         ↓
//	    template.HTML
//
// [pipeline] wraps the flow with validation, caching and observability. The
// CLI and the HTTP server both run through it.
//
// # Quick Start
//
//	out, err := hanging.Hanging(`He said "hello"`, false)
//
// In templates:
//
//	tmpl := template.New("page").Funcs(hanging.Default().FuncMap())
//	// {{ .Body | hanging }}
//
// # Packages
//
// [glyph] - Punctuation tables: which marks hang, their entity spellings and
// their span classes.
//
// [markup] - Fragment parsing, the ignore list and text-leaf traversal.
//
// [hanging] - The filter itself.
//
// [markdown] - Goldmark rendering with an optional typographer.
//
// [pipeline] - Validated, cached runs with timing and statistics.
//
// [cache] - Result cache backends: file, Redis and MongoDB.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
package pkg
