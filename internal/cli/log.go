// Package cli implements the fourcolor command-line interface.
//
// Commands read graphs from JSON files, built-in samples named
// "sample:<name>" or http(s) URLs, color them through a cached
// [pipeline.Runner], and write colorings, statistics and renders. The CLI is
// built using cobra and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - color: Compute a coloring with a chosen algorithm and color budget
//   - validate: Check a coloring file against a graph
//   - stats: Print graph statistics including the chromatic number
//   - render: Draw a colored graph as SVG, PNG or DOT
//   - interactive: Edit a coloring in the terminal with undo/redo
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the log_level config key applies. log_format switches between the
// human-readable text output and json or logfmt lines for log collectors.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/franzenjb/fourcolor/pkg/config"
)

// newLogger creates a text logger writing to w at level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// formatter maps a log_format value to a charmbracelet/log formatter.
// Machine formats use RFC 3339 timestamps.
func formatter(format string) (log.Formatter, string) {
	switch format {
	case config.LogFormatJSON:
		return log.JSONFormatter, time.RFC3339
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter, time.RFC3339
	default:
		return log.TextFormatter, "15:04:05.00"
	}
}

// applyLogFormat switches l to the configured output format.
func applyLogFormat(l *log.Logger, format string) {
	f, timeFormat := formatter(format)
	l.SetFormatter(f)
	l.SetTimeFormat(timeFormat)
}

// progress times one step and logs its completion with the elapsed time
// as a structured field.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with an "elapsed" field rounded to the millisecond, followed
// by any extra key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
