package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	fcerrors "github.com/franzenjb/fourcolor/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty cache Get = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if !hit || err != nil || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v; want v, true, nil", data, hit, err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}

	c.Set(ctx, "a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should drop every entry")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should recreate the directory: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheKinds(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	keyer := NewDefaultKeyer()
	c.Set(ctx, keyer.ColoringKey("g1", ColoringKeyOpts{Algorithm: "dsatur"}), []byte("a"), ColoringTTL)
	c.Set(ctx, keyer.ColoringKey("g2", ColoringKeyOpts{Algorithm: "greedy"}), []byte("b"), time.Minute)
	c.Set(ctx, keyer.StatsKey("g1"), []byte("c"), StatsTTL)
	c.Set(ctx, "fetch:https://example.org/map.json", []byte("d"), time.Minute)
	c.Set(ctx, "../escape", []byte("e"), 0)

	if rel, _ := filepath.Rel(c.Dir(), c.path("../escape")); strings.HasPrefix(rel, "..") {
		t.Fatalf("key escaped the cache dir: %s", rel)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"coloring": 2, "stats": 1, "fetch": 1, "other": 1}
	for kind, n := range want {
		if stats[kind] != n {
			t.Errorf("Stats()[%s] = %d, want %d (all: %v)", kind, stats[kind], n, stats)
		}
	}

	// Two one-minute entries expire; a corrupt file is swept too.
	clock = clock.Add(time.Hour)
	os.MkdirAll(filepath.Dir(c.path(keyer.StatsKey("broken"))), 0o755)
	os.WriteFile(c.path(keyer.StatsKey("broken")), []byte("{"), 0o644)

	removed, err := c.Prune(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("Prune removed %d, want 3", removed)
	}
	stats, _ = c.Stats()
	if stats["coloring"] != 1 || stats["fetch"] != 0 || stats["stats"] != 1 {
		t.Errorf("after prune: %v", stats)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ck1 := k.ColoringKey("g1", ColoringKeyOpts{Algorithm: "dsatur", MaxColors: 4})
	ck2 := k.ColoringKey("g1", ColoringKeyOpts{Algorithm: "dsatur", MaxColors: 3})
	ck3 := k.ColoringKey("g2", ColoringKeyOpts{Algorithm: "dsatur", MaxColors: 4})
	if ck1 == ck2 || ck1 == ck3 {
		t.Error("Different graphs or options should produce different keys")
	}
	if !strings.HasPrefix(ck1, "coloring:") {
		t.Errorf("ColoringKey prefix: %s", ck1)
	}
	if ck1 != k.ColoringKey("g1", ColoringKeyOpts{Algorithm: "dsatur", MaxColors: 4}) {
		t.Error("ColoringKey should be deterministic")
	}

	if !strings.HasPrefix(k.StatsKey("g1"), "stats:") {
		t.Errorf("StatsKey prefix: %s", k.StatsKey("g1"))
	}

	ak1 := k.ArtifactKey("g1", "c1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("g1", "c1", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestRedisCacheKeys(t *testing.T) {
	c, err := NewRedisCacheFromURL("redis://localhost:6379/2", "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got := c.key("stats:abc"); got != "fourcolor:stats:abc" {
		t.Errorf("key = %s", got)
	}

	if _, err := NewRedisCacheFromURL("mysql://nope", ""); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if !errors.Is(classify(redis.Nil), errMiss) {
		t.Error("redis.Nil should map to a miss")
	}
	if fcerrors.IsTransient(classify(redis.Nil)) {
		t.Error("a miss must not be retried")
	}
	netErr := classify(fmt.Errorf("dial: %w", timeoutErr{}))
	if !fcerrors.IsTransient(netErr) || !errors.Is(netErr, ErrUnavailable) {
		t.Errorf("network error should be transient and unavailable: %v", netErr)
	}
	plain := errors.New("WRONGTYPE")
	if classify(plain) != plain {
		t.Error("other errors pass through")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	redisRetryDelay = time.Millisecond
	defer func() { redisRetryDelay = 100 * time.Millisecond }()

	// Nothing listens on port 1, so every command fails to dial.
	c, err := NewRedisCacheFromURL("redis://127.0.0.1:1/0", "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, hit, err := c.Get(ctx, "coloring:abc"); hit || !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get = hit %v, err %v; want ErrUnavailable", hit, err)
	}
}
