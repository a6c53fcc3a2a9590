package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline and cache events at debug level. Registered by
// --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnMarkdownComplete(_ context.Context, inputBytes int, d time.Duration, err error) {
	h.logger.Debug("markdown rendered", "bytes", inputBytes, "duration", d, "err", err)
}

func (h *logHooks) OnHangStart(_ context.Context, inputBytes int, markdown bool) {
	h.logger.Debug("hanging", "bytes", inputBytes, "markdown", markdown)
}

func (h *logHooks) OnHangComplete(_ context.Context, pulled, pushed int, d time.Duration, err error) {
	h.logger.Debug("hung", "pulled", pulled, "pushed", pushed, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *logHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.logger.Debug("cache error", "type", keyType, "err", err)
}
