package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franzenjb/fourcolor/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Algorithm != "dsatur" || cfg.MaxColors != 4 || cfg.HistorySize != 20 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "fourcolor", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := `
algorithm = "backtracking"
max_colors = 5
timeout = "2s"
palette = ["#000000", "#ffffff"]

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[server]
addr = ":9090"
allowed_origins = ["http://localhost:3000"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Algorithm != "backtracking" || cfg.MaxColors != 5 {
		t.Errorf("coloring fields = %q, %d", cfg.Algorithm, cfg.MaxColors)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if len(cfg.Palette) != 2 {
		t.Errorf("Palette = %v", cfg.Palette)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Prefix != "fourcolor:" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.HistorySize != 20 {
		t.Errorf("unset field lost its default: HistorySize = %d", cfg.HistorySize)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FOURCOLOR_ALGORITHM", "greedy")
	t.Setenv("FOURCOLOR_MAX_COLORS", "3")
	t.Setenv("FOURCOLOR_TIMEOUT", "500ms")
	t.Setenv("FOURCOLOR_ALLOWED_ORIGINS", "a.example, b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "greedy" || cfg.MaxColors != 3 || cfg.Timeout != 500*time.Millisecond {
		t.Errorf("env not applied: %+v", cfg)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}

	t.Setenv("FOURCOLOR_MAX_STEPS", "lots")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad int env: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		toml string
		ok   bool
	}{
		{"empty", "", true},
		{"unknown algorithm", `algorithm = "magic"`, false},
		{"negative colors", `max_colors = -2`, false},
		{"zero history", `history_size = 0`, false},
		{"redis without url", "[cache]\nbackend = \"redis\"", false},
		{"mongo without uri", "[session]\nbackend = \"mongo\"", false},
		{"unknown backend", "[session]\nbackend = \"s3\"", false},
		{"cache off", "[cache]\nbackend = \"none\"", true},
		{"json logs", `log_format = "json"`, true},
		{"unknown log format", `log_format = "xml"`, false},
		{"syntax error", "max_colors = ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if (err == nil) != tt.ok {
				t.Errorf("Parse err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestColoringDefaults(t *testing.T) {
	cfg := Default()
	cfg.Timeout = time.Second
	o := cfg.ColoringDefaults()
	if o.Algorithm != cfg.Algorithm || o.MaxColors != cfg.MaxColors || o.Timeout != time.Second {
		t.Errorf("ColoringDefaults = %+v", o)
	}
}
