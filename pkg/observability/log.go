package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug-level structured log line, so
// --verbose shows cache traffic and algorithm timings alongside the
// command's own output.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l, prefixed "obs".
func NewLogHooks(l *log.Logger) LogHooks {
	return LogHooks{logger: l.WithPrefix("obs")}
}

func (h LogHooks) OnColorStart(_ context.Context, algorithm string, nodeCount int) {
	h.logger.Debug("color start", "algorithm", algorithm, "nodes", nodeCount)
}

func (h LogHooks) OnColorComplete(_ context.Context, algorithm string, chromatic int, valid bool, d time.Duration) {
	h.logger.Debug("color done", "algorithm", algorithm, "colors", chromatic, "valid", valid, "elapsed", d.Round(time.Microsecond))
}

func (h LogHooks) OnHistory(_ context.Context, action string, cursor, length int) {
	h.logger.Debug("history", "action", action, "cursor", cursor, "len", length)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d.Round(time.Microsecond))
}
