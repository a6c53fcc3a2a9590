package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/letterpress/pkg/cache"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/hanging"
	"github.com/matzehuels/letterpress/pkg/markup"
	"github.com/matzehuels/letterpress/pkg/observability"
)

const scenario1 = `He said "hello" to me.`

const scenario1Out = `He said<span class="push-double"></span> <span class="pull-double">&#34;</span>hello&#34; to me.`

// memCache is an in-memory cache.Cache that counts calls.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	ttl    time.Duration
	getErr error
	setErr error
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.ttl = ttl
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: scenario1}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options: %v", err)
	}
	if opts.MaxInputBytes != lperrors.DefaultMaxInputBytes {
		t.Errorf("MaxInputBytes = %d", opts.MaxInputBytes)
	}
	if opts.Logger == nil {
		t.Error("Logger default not set")
	}

	tests := []struct {
		name string
		opts Options
		code lperrors.Code
	}{
		{"too large", Options{Text: "abcdef", MaxInputBytes: 3}, lperrors.ErrCodeInputTooLarge},
		{"bad utf8", Options{Text: "a\xffb"}, lperrors.ErrCodeParse},
		{"nul", Options{Text: "a\x00b"}, lperrors.ErrCodeParse},
		{"escape and markdown", Options{Text: "x", Escape: true, Markdown: true}, lperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !lperrors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Text: scenario1})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.HTML) != scenario1Out {
		t.Errorf("HTML =\n%s\nwant\n%s", res.HTML, scenario1Out)
	}
	if res.Stats.Pulled != 1 || res.Stats.Pushed != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheHit {
		t.Error("null cache cannot hit")
	}
	if res.InputHash != cache.Hash([]byte(scenario1)) {
		t.Errorf("InputHash = %s", res.InputHash)
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil, nil)

	first, err := r.Execute(ctx, Options{Text: scenario1})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || c.sets != 1 {
		t.Fatalf("first run: hit=%v sets=%d", first.CacheHit, c.sets)
	}

	second, err := r.Execute(ctx, Options{Text: scenario1})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if second.HTML != first.HTML || second.Stats != first.Stats {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	// Different options use a different key.
	escaped, err := r.Execute(ctx, Options{Text: scenario1, Escape: true})
	if err != nil {
		t.Fatal(err)
	}
	if escaped.CacheHit {
		t.Error("escape=true should not share the unescaped entry")
	}

	// Refresh skips the lookup but updates the entry.
	gets := c.gets
	refreshed, err := r.Execute(ctx, Options{Text: scenario1, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit || c.gets != gets {
		t.Errorf("refresh: hit=%v gets=%d->%d", refreshed.CacheHit, gets, c.gets)
	}
}

func TestExecuteStoresWithRunnerTTL(t *testing.T) {
	tests := []struct {
		name string
		set  bool
		ttl  time.Duration
	}{
		{"default", false, cache.TTLFragment},
		{"custom", true, time.Hour},
		{"no expiry", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemCache()
			r := NewRunner(c, nil, nil, nil)
			if tt.set {
				r.TTL = tt.ttl
			}
			if _, err := r.Execute(context.Background(), Options{Text: scenario1}); err != nil {
				t.Fatal(err)
			}
			if c.ttl != tt.ttl {
				t.Errorf("stored with ttl %v, want %v", c.ttl, tt.ttl)
			}
		})
	}
}

func TestExecuteFingerprintSeparatesFilters(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()

	plain := NewRunner(c, nil, nil, nil)
	if _, err := plain.Execute(ctx, Options{Text: `<var>"x"</var> and "y"`}); err != nil {
		t.Fatal(err)
	}

	custom := hanging.New(hanging.Config{Ignore: markup.IgnoreSpec{Tags: []string{"var"}}})
	other := NewRunner(c, nil, custom, nil)
	res, err := other.Execute(ctx, Options{Text: `<var>"x"</var> and "y"`})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("a filter with a different ignore list must not reuse entries")
	}
}

func TestExecuteCacheFailuresAreMisses(t *testing.T) {
	c := newMemCache()
	c.getErr = errors.New("backend down")
	c.setErr = errors.New("backend down")
	r := NewRunner(c, nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{Text: scenario1})
	if err != nil {
		t.Fatalf("cache failure should not fail the run: %v", err)
	}
	if string(res.HTML) != scenario1Out {
		t.Errorf("HTML = %s", res.HTML)
	}
}

func TestExecuteCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil, nil)

	opts := Options{Text: scenario1}
	key := r.Keyer.FragmentKey(cache.Hash([]byte(scenario1)), opts.KeyOpts(r.Filter.Fingerprint()))
	c.data[key] = []byte("not json")

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || string(res.HTML) != scenario1Out {
		t.Errorf("corrupt entry should be recomputed: %+v", res)
	}
}

func TestExecuteMarkdown(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Text:     "He said \"hello\" to me.\n\n`\"code\"`\n",
		Markdown: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := string(res.HTML)
	if !strings.Contains(out, `<span class="pull-double">“</span>hello”`) {
		t.Errorf("typographer quotes should hang: %s", out)
	}
	if !strings.Contains(out, "<code>&#34;code&#34;</code>") {
		t.Errorf("code spans stay untouched: %s", out)
	}
}

func TestExecuteMarkdownWrappedLines(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Text:     "He said\n\"hello\" to me.\n",
		Markdown: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `<p>He said<span class="push-double"></span> <span class="pull-double">“</span>hello” to me.</p>`
	if !strings.Contains(string(res.HTML), want) {
		t.Errorf("got  %s\nwant %s", res.HTML, want)
	}
	if res.Stats.Pulled != 1 || res.Stats.Pushed != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteValidation(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	r.MaxInputBytes = 4

	_, err := r.Execute(context.Background(), Options{Text: scenario1})
	if !lperrors.Is(err, lperrors.ErrCodeInputTooLarge) {
		t.Errorf("got %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) OnHangStart(context.Context, int, bool) { h.add("start") }
func (h *recordingHooks) OnHangComplete(context.Context, int, int, time.Duration, error) {
	h.add("complete")
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.add("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.add("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.add("set") }

func TestExecuteHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)

	r := NewRunner(newMemCache(), nil, nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), Options{Text: scenario1}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"miss", "start", "complete", "set", "hit"}
	if strings.Join(h.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}
