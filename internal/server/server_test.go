package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/letterpress/pkg/cache"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/observability"
	"github.com/matzehuels/letterpress/pkg/pipeline"
)

const scenario1Out = `He said<span class="push-double"></span> <span class="pull-double">&#34;</span>hello&#34; to me.`

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(c, nil, nil, logger)
	return New(runner, logger, cfg).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body.Error
}

func TestRoutesRegistered(t *testing.T) {
	h := newTestServer(t, Config{})
	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/healthz"},
		{http.MethodGet, "/version"},
		{http.MethodGet, "/v1/glyphs"},
		{http.MethodPost, "/v1/hang"},
		{http.MethodPost, "/v1/hang/raw"},
	}
	for _, rt := range routes {
		t.Run(rt.path, func(t *testing.T) {
			if w := do(t, h, rt.method, rt.path, "{}"); w.Code == http.StatusNotFound {
				t.Errorf("route %s %s not registered", rt.method, rt.path)
			}
		})
	}

	w := do(t, h, http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != lperrors.ErrCodeNotFound {
		t.Errorf("unknown route: %d %s", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t, Config{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", w.Code, w.Body.String())
	}
}

func TestHang(t *testing.T) {
	h := newTestServer(t, Config{})

	body := `{"text": "He said \"hello\" to me."}`
	w := do(t, h, http.MethodPost, "/v1/hang", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp hangResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.HTML != scenario1Out {
		t.Errorf("html = %s", resp.HTML)
	}
	if resp.Cached || resp.Stats.Pulled != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if w.Header().Get(HeaderCache) != "miss" {
		t.Errorf("cache header = %s", w.Header().Get(HeaderCache))
	}

	w = do(t, h, http.MethodPost, "/v1/hang", body)
	resp = hangResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cached || resp.HTML != scenario1Out {
		t.Errorf("second request should hit: %+v", resp)
	}
}

func TestHangEscape(t *testing.T) {
	h := newTestServer(t, Config{})
	w := do(t, h, http.MethodPost, "/v1/hang", `{"text": "<b>\"x\"</b>", "escape": true}`)
	var resp hangResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.HTML, "<b>") {
		t.Errorf("escaped input must not contain tags: %s", resp.HTML)
	}
}

func TestHangMarkdownDefault(t *testing.T) {
	h := newTestServer(t, Config{Markdown: true})

	w := do(t, h, http.MethodPost, "/v1/hang", `{"text": "*hi* there"}`)
	var resp hangResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.HTML, "<em>hi</em>") {
		t.Errorf("markdown default not applied: %s", resp.HTML)
	}

	w = do(t, h, http.MethodPost, "/v1/hang", `{"text": "*hi* there", "markdown": false}`)
	resp = hangResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.HTML, "<em>") {
		t.Errorf("explicit markdown=false ignored: %s", resp.HTML)
	}
}

func TestHangErrors(t *testing.T) {
	h := newTestServer(t, Config{MaxInputBytes: 16})

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   lperrors.Code
	}{
		{"bad json", "/v1/hang", `{"text":`, http.StatusBadRequest, lperrors.ErrCodeInvalidInput},
		{"unknown field", "/v1/hang", `{"txt": "x"}`, http.StatusBadRequest, lperrors.ErrCodeInvalidInput},
		{"too large", "/v1/hang", `{"text": "` + strings.Repeat("a", 32) + `"}`, http.StatusRequestEntityTooLarge, lperrors.ErrCodeInputTooLarge},
		{"nul byte", "/v1/hang", `{"text": "a\u0000b"}`, http.StatusBadRequest, lperrors.ErrCodeParse},
		{"escape and markdown", "/v1/hang", `{"text": "x", "escape": true, "markdown": true}`, http.StatusBadRequest, lperrors.ErrCodeInvalidInput},
		{"raw bad bool", "/v1/hang/raw?escape=maybe", "x", http.StatusBadRequest, lperrors.ErrCodeInvalidInput},
		{"raw too large", "/v1/hang/raw", strings.Repeat("a", 32), http.StatusRequestEntityTooLarge, lperrors.ErrCodeInputTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.target, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if got := decodeError(t, w).Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestHangRaw(t *testing.T) {
	h := newTestServer(t, Config{})

	w := do(t, h, http.MethodPost, "/v1/hang/raw", `He said "hello" to me.`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %s", ct)
	}
	if w.Body.String() != scenario1Out {
		t.Errorf("body = %s", w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/v1/hang/raw?escape=1", `<i>"x"</i>`)
	if strings.Contains(w.Body.String(), "<i>") {
		t.Errorf("escape=1 ignored: %s", w.Body.String())
	}
}

func TestGlyphs(t *testing.T) {
	w := do(t, newTestServer(t, Config{}), http.MethodGet, "/v1/glyphs", "")
	var body struct {
		Glyphs []struct {
			Rank      string   `json:"rank"`
			Literal   string   `json:"literal"`
			Encodings []string `json:"encodings"`
		} `json:"glyphs"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Glyphs) == 0 || body.Glyphs[0].Rank != "double" || body.Glyphs[0].Literal != `"` {
		t.Errorf("glyphs = %+v", body.Glyphs)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, Config{})

	w := do(t, h, http.MethodGet, "/healthz", "")
	if _, err := uuid.Parse(w.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("generated id is not a uuid: %q", w.Header().Get(HeaderRequestID))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != id {
		t.Errorf("client id not kept: %s", rec.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not a uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) == "not a uuid" {
		t.Error("malformed client id should be replaced")
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *httpRecorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	h.statuses = append(h.statuses, status)
	h.mu.Unlock()
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)

	h := newTestServer(t, Config{})
	do(t, h, http.MethodGet, "/healthz", "")
	do(t, h, http.MethodPost, "/v1/hang", `{"text":`)

	if len(rec.statuses) != 2 || rec.statuses[0] != http.StatusOK || rec.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v", rec.statuses)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{lperrors.New(lperrors.ErrCodeParse, "x"), http.StatusBadRequest},
		{lperrors.New(lperrors.ErrCodeInputTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{lperrors.New(lperrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, nil, logger), logger, Config{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
