package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func sample(t *testing.T, name string) graph.Graph {
	t.Helper()
	g, ok := graph.Sample(name)
	if !ok {
		t.Fatalf("sample %q missing", name)
	}
	return g
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", opts.Algorithm, DefaultAlgorithm)
	}
	if opts.MaxColors != coloring.DefaultMaxColors {
		t.Errorf("MaxColors = %d", opts.MaxColors)
	}
	if opts.MaxSteps != coloring.DefaultMaxSteps || opts.Seed != coloring.DefaultSeed {
		t.Errorf("MaxSteps = %d, Seed = %d", opts.MaxSteps, opts.Seed)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != before.Algorithm || opts.MaxColors != before.MaxColors {
		t.Error("second ValidateAndSetDefaults changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown algorithm", Options{Algorithm: "quantum"}, errors.ErrCodeInvalidAlgorithm},
		{"negative colors", Options{MaxColors: -1}, errors.ErrCodeInvalidInput},
		{"too many colors", Options{MaxColors: 1000}, errors.ErrCodeInvalidInput},
		{"negative steps", Options{MaxSteps: -5}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	opts := Options{Algorithm: " Welsh-Powell ", Formats: []string{".SVG", "dot"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("lenient names rejected: %v", err)
	}
	if opts.Formats[0] != "svg" {
		t.Errorf("format not normalized: %v", opts.Formats)
	}
}

func TestColoringKeyOpts(t *testing.T) {
	a := Options{Algorithm: "dsatur", MaxColors: 4}
	b := a
	b.Constraints = []coloring.Constraint{coloring.Pin("WA", 0)}
	c := a
	c.Palette = []string{"#000000"}

	ka, kb, kc := a.ColoringKeyOpts(), b.ColoringKeyOpts(), c.ColoringKeyOpts()
	if ka.Constraints != "" {
		t.Errorf("no constraints should give empty hash, got %q", ka.Constraints)
	}
	if kb.Constraints == "" || kb.Constraints == kc.Constraints {
		t.Errorf("constraint hashes should differ: %q vs %q", kb.Constraints, kc.Constraints)
	}
}

func TestColorCaching(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	g := sample(t, "australia")

	first, hit, err := r.ColorWithCacheInfo(ctx, g, Options{})
	if err != nil || hit {
		t.Fatalf("first run: hit=%v err=%v", hit, err)
	}
	if !first.Valid || first.Chromatic != 3 {
		t.Errorf("australia: valid=%v chromatic=%d", first.Valid, first.Chromatic)
	}

	second, hit, err := r.ColorWithCacheInfo(ctx, g, Options{})
	if err != nil || !hit {
		t.Fatalf("second run: hit=%v err=%v", hit, err)
	}
	if !second.Equal(first) {
		t.Errorf("cached assignment differs:\n%+v\n%+v", second, first)
	}

	_, hit, _ = r.ColorWithCacheInfo(ctx, g, Options{Refresh: true})
	if hit {
		t.Error("Refresh should bypass the cache")
	}
	_, hit, _ = r.ColorWithCacheInfo(ctx, g, Options{Algorithm: "greedy"})
	if hit {
		t.Error("different algorithm must not share a cache entry")
	}
}

func TestExhaustedNotCached(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)

	var g graph.Graph
	ids := []string{"a", "b", "c", "d", "e", "f"}
	for i, u := range ids {
		g.Nodes = append(g.Nodes, graph.Node{ID: u})
		for _, v := range ids[i+1:] {
			g.Edges = append(g.Edges, graph.Edge{Source: u, Target: v})
		}
	}

	opts := Options{Algorithm: coloring.NameBacktracking, MaxColors: 5, MaxSteps: 1}
	a, err := r.Color(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Exhausted {
		t.Fatal("expected an exhausted search")
	}
	if mc.sets != 0 {
		t.Errorf("exhausted result was cached (%d sets)", mc.sets)
	}
}

func TestCustomPalette(t *testing.T) {
	g := sample(t, "triangle")
	a, err := Color(context.Background(), g, Options{Palette: []string{"#000000", "#111111", "#222222", "#333333"}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Palette[0] != "#000000" {
		t.Errorf("palette = %v", a.Palette)
	}
}

func TestColorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Color(ctx, sample(t, "k4"), Options{}); err == nil {
		t.Error("canceled context should fail")
	}
}

func TestStatsCaching(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	g := sample(t, "petersen")

	st, hit, err := r.StatsWithCacheInfo(ctx, g)
	if err != nil || hit {
		t.Fatalf("first: hit=%v err=%v", hit, err)
	}
	if st.Nodes != 10 || st.Edges != 15 || st.Chromatic != 3 {
		t.Errorf("petersen stats = %+v", st)
	}
	if st.MinDegree != 3 || st.MaxDegree != 3 {
		t.Errorf("degrees = %d..%d, want 3..3", st.MinDegree, st.MaxDegree)
	}

	again, hit, err := r.StatsWithCacheInfo(ctx, g)
	if err != nil || !hit || again != st {
		t.Errorf("second: %+v hit=%v err=%v", again, hit, err)
	}
}

func TestRenderDOTCaching(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	g := sample(t, "triangle")
	a, _ := r.Color(ctx, g, Options{})

	opts := Options{Formats: []string{"dot"}, Labels: true}
	out, hit, err := r.RenderWithCacheInfo(ctx, g, a, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	if !strings.HasPrefix(string(out["dot"]), "graph G {") {
		t.Errorf("dot = %s", out["dot"])
	}

	_, hit, _ = r.RenderWithCacheInfo(ctx, g, a, opts)
	if !hit {
		t.Error("second render should hit")
	}

	a.Colors["a"] = a.Colors["b"]
	_, hit, _ = r.RenderWithCacheInfo(ctx, g, a, opts)
	if hit {
		t.Error("changed coloring must miss")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sample(t, "two-triangles"), Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.GraphHash == "" || len(res.Artifacts["dot"]) == 0 {
		t.Errorf("missing hash or artifact: %+v", res)
	}
	if !res.Coloring.Valid || len(res.Conflicts) != 0 {
		t.Errorf("coloring invalid: %+v", res.Coloring)
	}
	if res.Stats.Chromatic != 3 {
		t.Errorf("chromatic number = %d, want 3", res.Stats.Chromatic)
	}
	if res.CacheInfo.ColoringHit {
		t.Error("null cache cannot hit")
	}

	bad := graph.Graph{Nodes: []graph.Node{{ID: ""}}}
	if _, err := r.Execute(context.Background(), bad, Options{}); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("invalid graph err = %v", err)
	}
}
