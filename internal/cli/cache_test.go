package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/config"
	"github.com/franzenjb/fourcolor/pkg/errors"
)

// testCLI returns a CLI with a preloaded config whose cache and session
// directories live under t.TempDir.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	cfg.Session.Dir = t.TempDir()
	c := New(io.Discard, LogInfo)
	c.cfg = &cfg
	return c
}

func TestFileCacheDir(t *testing.T) {
	c := testCLI(t)
	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != c.cfg.Cache.Dir {
		t.Errorf("fileCacheDir() = %q, want %q", dir, c.cfg.Cache.Dir)
	}

	c.cfg.Cache.Backend = config.BackendRedis
	if _, err := c.fileCacheDir(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("redis backend: err = %v, want UNSUPPORTED", err)
	}
}

func TestCacheClear(t *testing.T) {
	c := testCLI(t)
	fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"coloring:a", "coloring:b", "stats:c"} {
		if err := fc.Set(ctx, k, []byte(k), cache.ColoringTTL); err != nil {
			t.Fatal(err)
		}
	}
	if counts, _ := fc.Stats(); total(counts) != 3 {
		t.Fatalf("entries before clear = %v, want 3", counts)
	}

	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if counts, _ := fc.Stats(); total(counts) != 0 {
		t.Errorf("entries after clear = %v, want none", counts)
	}
	if _, hit, _ := fc.Get(ctx, "coloring:a"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestCachePrune(t *testing.T) {
	c := testCLI(t)
	fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	fc.Set(ctx, "coloring:keep", []byte("k"), cache.ColoringTTL)
	fc.Set(ctx, "coloring:gone", []byte("g"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	root := c.RootCommand()
	root.SetArgs([]string{"cache", "prune"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	if counts, _ := fc.Stats(); counts["coloring"] != 1 {
		t.Errorf("after prune: %v", counts)
	}
	if _, hit, _ := fc.Get(ctx, "coloring:keep"); !hit {
		t.Error("live entry was pruned")
	}
}
