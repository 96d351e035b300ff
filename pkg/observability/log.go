package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger. Requests log at info level
// (server errors at error level); everything else logs at debug level, with
// failed edits and renders raised to warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks writing to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetEditHooks(h)
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnEdit(_ context.Context, session, op string, rows, stitches int, err error) {
	if err != nil {
		h.logger.Warn("edit rejected", "session", session, "op", op, "err", err)
		return
	}
	h.logger.Debug("edit", "session", session, "op", op, "rows", rows, "stitches", stitches)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string, status int, d time.Duration) {
	level := log.InfoLevel
	if status >= 500 {
		level = log.ErrorLevel
	}
	h.logger.Log(level, "request", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}
