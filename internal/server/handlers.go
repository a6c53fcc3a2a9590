package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/letterpress/pkg/buildinfo"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/glyph"
	"github.com/matzehuels/letterpress/pkg/hanging"
	"github.com/matzehuels/letterpress/pkg/pipeline"
)

// HeaderCache reports "hit" or "miss" on hang responses.
const HeaderCache = "X-Letterpress-Cache"

type hangRequest struct {
	Text     string `json:"text"`
	Escape   bool   `json:"escape"`
	Markdown *bool  `json:"markdown"`
	Refresh  bool   `json:"refresh"`
}

type hangResponse struct {
	HTML   string        `json:"html"`
	Stats  hanging.Stats `json:"stats"`
	Cached bool          `json:"cached"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    lperrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) handleHang(w http.ResponseWriter, r *http.Request) {
	var req hangRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, bodyError(err, "invalid JSON body"))
		return
	}

	markdown := s.cfg.Markdown
	if req.Markdown != nil {
		markdown = *req.Markdown
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Text:          req.Text,
		Escape:        req.Escape,
		Markdown:      markdown,
		Refresh:       req.Refresh,
		MaxInputBytes: s.cfg.MaxInputBytes,
		Logger:        loggerFromContext(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set(HeaderCache, cacheHeader(res.CacheHit))
	respond(w, http.StatusOK, hangResponse{
		HTML:   string(res.HTML),
		Stats:  res.Stats,
		Cached: res.CacheHit,
	})
}

func (s *Server) handleHangRaw(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	escape, err := boolParam(q.Get("escape"), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	markdown, err := boolParam(q.Get("markdown"), s.cfg.Markdown)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	refresh, err := boolParam(q.Get("refresh"), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, r, bodyError(err, "cannot read body"))
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Text:          string(body),
		Escape:        escape,
		Markdown:      markdown,
		Refresh:       refresh,
		MaxInputBytes: s.cfg.MaxInputBytes,
		Logger:        loggerFromContext(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(HeaderCache, cacheHeader(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, string(res.HTML))
}

func (s *Server) handleGlyphs(w http.ResponseWriter, r *http.Request) {
	table := glyph.Default()
	if s.runner != nil && s.runner.Filter != nil {
		table = s.runner.Filter.Glyphs()
	}
	respond(w, http.StatusOK, map[string]any{"glyphs": table.Glyphs()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, buildinfo.Get())
}

// fail writes err as a JSON error body and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := lperrors.GetCode(err)
	if code == "" {
		code = lperrors.ErrCodeInternal
	}
	msg := lperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "err", err)
		msg = "internal error"
	}
	respondError(w, status, code, msg)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch lperrors.GetCode(err) {
	case lperrors.ErrCodeInvalidInput, lperrors.ErrCodeParse,
		lperrors.ErrCodeInvalidConfig, lperrors.ErrCodeInvalidBackend:
		return http.StatusBadRequest
	case lperrors.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case lperrors.ErrCodeNotFound, lperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case lperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// bodyError classifies a failure reading or decoding the request body.
func bodyError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return lperrors.New(lperrors.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
	}
	return lperrors.Wrap(lperrors.ErrCodeInvalidInput, err, "%s", msg)
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, lperrors.New(lperrors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code lperrors.Code, message string) {
	respond(w, status, errorBody{Error: apiError{Code: code, Message: message}})
}
