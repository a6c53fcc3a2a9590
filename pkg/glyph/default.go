package glyph

var defaultTable = MustTable(
	Glyph{Rank: Double, Literal: '"', Name: "quotation mark",
		Encodings: []string{"&quot;", "&QUOT;", "&#34;", "&#x22;"}},
	Glyph{Rank: Double, Literal: '“', Name: "left double quotation mark",
		Encodings: []string{"&ldquo;", "&#8220;", "&#x201C;", "&#x201c;"}},
	Glyph{Rank: Double, Literal: '”', Name: "right double quotation mark",
		Encodings: []string{"&rdquo;", "&#8221;", "&#x201D;", "&#x201d;"}},
	Glyph{Rank: Double, Literal: '„', Name: "double low-9 quotation mark",
		Encodings: []string{"&bdquo;", "&#8222;", "&#x201E;", "&#x201e;"}},
	Glyph{Rank: Double, Literal: '«', Name: "left-pointing double angle quotation mark",
		Encodings: []string{"&laquo;", "&#171;", "&#xAB;", "&#xab;"}},
	Glyph{Rank: Double, Literal: '»', Name: "right-pointing double angle quotation mark",
		Encodings: []string{"&raquo;", "&#187;", "&#xBB;", "&#xbb;"}},
	Glyph{Rank: Double, Literal: '″', Name: "double prime",
		Encodings: []string{"&Prime;", "&#8243;", "&#x2033;"}},

	Glyph{Rank: Single, Literal: '\'', Name: "apostrophe",
		Encodings: []string{"&apos;", "&#39;", "&#x27;"}},
	Glyph{Rank: Single, Literal: '‘', Name: "left single quotation mark",
		Encodings: []string{"&lsquo;", "&#8216;", "&#x2018;"}},
	Glyph{Rank: Single, Literal: '’', Name: "right single quotation mark",
		Encodings: []string{"&rsquo;", "&#8217;", "&#x2019;"}},
	Glyph{Rank: Single, Literal: '‚', Name: "single low-9 quotation mark",
		Encodings: []string{"&sbquo;", "&#8218;", "&#x201A;", "&#x201a;"}},
	Glyph{Rank: Single, Literal: '‹', Name: "single left-pointing angle quotation mark",
		Encodings: []string{"&lsaquo;", "&#8249;", "&#x2039;"}},
	Glyph{Rank: Single, Literal: '›', Name: "single right-pointing angle quotation mark",
		Encodings: []string{"&rsaquo;", "&#8250;", "&#x203A;", "&#x203a;"}},
	Glyph{Rank: Single, Literal: '′', Name: "prime",
		Encodings: []string{"&prime;", "&#8242;", "&#x2032;"}},
)

// Default returns the built-in glyph table.
func Default() *Table { return defaultTable }
