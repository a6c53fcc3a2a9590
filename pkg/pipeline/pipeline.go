// Package pipeline runs the hanging filter with caching for the CLI and the
// HTTP API.
//
// Both entry points go through a [Runner] so they share validation, cache
// keys, the optional Markdown stage and observability events.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:     `He said "hello" to me.`,
//	    Markdown: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
package pipeline

import (
	"html/template"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/letterpress/pkg/cache"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/hanging"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration for one filter run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Text     string `json:"text"`
	Escape   bool   `json:"escape,omitempty"`   // treat Text as plain text
	Markdown bool   `json:"markdown,omitempty"` // render Text as Markdown first
	Refresh  bool   `json:"refresh,omitempty"`  // bypass the cache lookup

	// Runtime options (not serialized)
	MaxInputBytes int         `json:"-"`
	Logger        *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// HTML is the rewritten fragment.
	HTML template.HTML `json:"html"`

	// Stats counts what the filter did. On a cache hit these are the
	// stats of the run that populated the entry.
	Stats hanging.Stats `json:"stats"`

	// Timing contains stage durations.
	Timing Timing `json:"-"`

	// CacheHit reports whether HTML came from the cache.
	CacheHit bool `json:"cached"`

	// InputHash is the SHA-256 of Text.
	InputHash string `json:"input_hash"`
}

// Timing contains pipeline execution durations.
type Timing struct {
	Markdown time.Duration
	Filter   time.Duration
	Total    time.Duration
}

// cachedResult is what the runner stores per cache entry.
type cachedResult struct {
	HTML  string        `json:"html"`
	Stats hanging.Stats `json:"stats"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxInputBytes <= 0 {
		o.MaxInputBytes = lperrors.DefaultMaxInputBytes
	}
	if err := lperrors.ValidateInput(o.Text, o.MaxInputBytes); err != nil {
		return err
	}
	if o.Escape && o.Markdown {
		return lperrors.New(lperrors.ErrCodeInvalidInput, "escape and markdown cannot be combined")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns cache key options for this run.
func (o *Options) KeyOpts(fingerprint string) cache.FragmentKeyOpts {
	return cache.FragmentKeyOpts{
		Escape:      o.Escape,
		Markdown:    o.Markdown,
		Fingerprint: fingerprint,
	}
}
