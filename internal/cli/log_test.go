package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/franzenjb/fourcolor/pkg/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("colored") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("step") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("step") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestApplyLogFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, log.InfoLevel)
		applyLogFormat(l, config.LogFormatJSON)
		l.Info("Colored graph", "algorithm", "dsatur", "colors", 3)

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("not JSON: %q", buf.String())
		}
		if rec["msg"] != "Colored graph" || rec["algorithm"] != "dsatur" || rec["colors"] != float64(3) {
			t.Errorf("record = %v", rec)
		}
	})

	t.Run("logfmt", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, log.InfoLevel)
		applyLogFormat(l, config.LogFormatLogfmt)
		l.Info("Loaded graph", "nodes", 7)
		if out := buf.String(); !strings.Contains(out, "msg=\"Loaded graph\"") || !strings.Contains(out, "nodes=7") {
			t.Errorf("logfmt output = %q", out)
		}
	})
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	applyLogFormat(logger, config.LogFormatJSON)

	newProgress(logger).done("Colored graph", "nodes", 8)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if rec["msg"] != "Colored graph" || rec["nodes"] != float64(8) {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["elapsed"]; !ok {
		t.Error("missing elapsed field")
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("no logger in context should give log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	loggerFromContext(ctx).Info("hello")
	if buf.Len() == 0 {
		t.Error("attached logger did not write")
	}
}
