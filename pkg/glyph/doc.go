// Package glyph catalogues the punctuation marks that hang into the margin.
//
// # Overview
//
// Hanging punctuation only applies to a small, fixed set of marks: quotation
// marks, guillemets and primes that can open a word. Each mark is a [Glyph]
// with a [Rank] that decides how far it is pulled out of the text column:
//
//   - [Double]: double-width marks such as " “ „ « and ″
//   - [Single]: single-width marks such as ' ‘ ‚ ‹ and ′
//
// The rank name is part of the generated CSS class ("pull-double",
// "push-single", ...) and therefore a stable public contract.
//
// # Encodings
//
// A glyph is recognised in its literal form as well as every HTML entity
// spelling of it (named, decimal and hexadecimal). Callers may mix encodings
// in the same document; all of them classify to the same glyph:
//
//	m, ok := glyph.Default().Classify("&ldquo;Hello")
//	// ok == true, m.Glyph.Literal == '“', m.Len == 7
//
// # Priority
//
// [Table.Classify] tries every double-width glyph before any single-width
// glyph and returns the first match in table order. Within one glyph the
// longest matching encoding wins.
//
// # Concurrency
//
// A [Table] is immutable once built. The table returned by [Default] is
// constructed once at package initialisation and may be shared freely.
package glyph
