package pipeline

import (
	"context"
	"encoding/json"
	"html/template"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/letterpress/pkg/cache"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/hanging"
	"github.com/matzehuels/letterpress/pkg/markdown"
	"github.com/matzehuels/letterpress/pkg/observability"
)

// keyType labels cache events emitted by the runner.
const keyType = "fragment"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Filter   *hanging.Filter
	Markdown *markdown.Renderer
	Logger   *log.Logger

	// MaxInputBytes applies to runs whose options leave it unset.
	MaxInputBytes int

	// TTL is the lifetime of stored results. Zero means no expiry.
	TTL time.Duration
}

// NewRunner creates a runner. Nil arguments select defaults: a NullCache
// (caching disabled), a DefaultKeyer, the default filter and log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, filter *hanging.Filter, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if filter == nil {
		filter = hanging.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:         c,
		Keyer:         keyer,
		Filter:        filter,
		Markdown:      markdown.New(markdown.Options{Typographer: true}),
		Logger:        logger,
		MaxInputBytes: lperrors.DefaultMaxInputBytes,
		TTL:           cache.TTLFragment,
	}
}

// Execute validates opts, consults the cache and otherwise runs the
// optional Markdown stage and the hanging filter.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.MaxInputBytes <= 0 {
		opts.MaxInputBytes = r.MaxInputBytes
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{InputHash: cache.Hash([]byte(opts.Text))}
	key := r.Keyer.FragmentKey(result.InputHash, opts.KeyOpts(r.Filter.Fingerprint()))

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, opts.Logger); ok {
			result.HTML = template.HTML(cached.HTML)
			result.Stats = cached.Stats
			result.CacheHit = true
			result.Timing.Total = time.Since(start)
			opts.Logger.Debug("cache hit", "key", key)
			return result, nil
		}
	}

	observability.Pipeline().OnHangStart(ctx, len(opts.Text), opts.Markdown)

	src := opts.Text
	if opts.Markdown {
		mdStart := time.Now()
		md := r.Markdown
		if md == nil {
			md = markdown.New(markdown.Options{Typographer: true})
		}
		rendered, err := md.Render(src)
		result.Timing.Markdown = time.Since(mdStart)
		observability.Pipeline().OnMarkdownComplete(ctx, len(src), result.Timing.Markdown, err)
		if err != nil {
			return nil, lperrors.Wrap(lperrors.ErrCodeParse, err, "cannot render markdown")
		}
		src = rendered
	}

	filterStart := time.Now()
	out, stats, err := r.Filter.Apply(src, opts.Escape)
	result.Timing.Filter = time.Since(filterStart)
	observability.Pipeline().OnHangComplete(ctx, stats.Pulled, stats.Pushed, result.Timing.Filter, err)
	if err != nil {
		return nil, err
	}
	result.HTML = out
	result.Stats = stats

	r.store(ctx, key, cachedResult{HTML: string(out), Stats: stats}, opts.Logger)

	result.Timing.Total = time.Since(start)
	opts.Logger.Info("hung fragment",
		"bytes", len(opts.Text),
		"pulled", stats.Pulled,
		"pushed", stats.Pushed,
		"duration", result.Timing.Total)

	return result, nil
}

// Hang runs Execute and returns only the rewritten fragment.
func (r *Runner) Hang(ctx context.Context, opts Options) (template.HTML, error) {
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// lookup reads and decodes a cached result. Backend failures and corrupt
// entries are reported as misses.
func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (cachedResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		observability.Cache().OnCacheError(ctx, keyType, err)
		return cachedResult{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return cachedResult{}, false
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		logger.Debug("discarding corrupt cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return cachedResult{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return cached, true
}

func (r *Runner) store(ctx context.Context, key string, res cachedResult, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "err", err)
		observability.Cache().OnCacheError(ctx, keyType, err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
