package glyph

import (
	"encoding/json"
	"fmt"
)

// MarshalText encodes the rank by name.
func (r Rank) MarshalText() ([]byte, error) {
	switch r {
	case Double, Single:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("glyph: unknown rank %d", int(r))
}

// UnmarshalText decodes a rank name.
func (r *Rank) UnmarshalText(text []byte) error {
	switch string(text) {
	case "double":
		*r = Double
	case "single":
		*r = Single
	default:
		return fmt.Errorf("glyph: unknown rank %q", text)
	}
	return nil
}

type glyphJSON struct {
	Rank      Rank     `json:"rank"`
	Literal   string   `json:"literal"`
	Name      string   `json:"name"`
	Encodings []string `json:"encodings"`
	PullClass string   `json:"pull_class"`
	PushClass string   `json:"push_class"`
}

// MarshalJSON writes the literal as a string and adds the span classes.
func (g Glyph) MarshalJSON() ([]byte, error) {
	return json.Marshal(glyphJSON{
		Rank:      g.Rank,
		Literal:   string(g.Literal),
		Name:      g.Name,
		Encodings: g.Encodings,
		PullClass: g.Rank.PullClass(),
		PushClass: g.Rank.PushClass(),
	})
}
