package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeColoring = "coloring"
	keyTypeStats    = "stats"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute colors g, validates the result, computes statistics and renders
// every requested format.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := graph.Validate(g); err != nil {
		return nil, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	result := &Result{Graph: g, GraphHash: hash}

	// Stage 1: Color
	start := time.Now()
	a, hit, err := r.ColorWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	result.Coloring = a
	result.Conflicts = coloring.Conflicts(g.Model(), a)
	result.Timing.ColorTime = time.Since(start)
	result.CacheInfo.ColoringHit = hit

	r.Logger.Info("colored graph",
		"algorithm", a.Algorithm,
		"chromatic", a.Chromatic,
		"valid", a.Valid,
		"duration", result.Timing.ColorTime)

	// Stage 2: Stats
	start = time.Now()
	st, hit, err := r.StatsWithCacheInfo(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	result.Stats = st
	result.Timing.StatsTime = time.Since(start)
	result.CacheInfo.StatsHit = hit

	r.Logger.Info("computed statistics",
		"nodes", st.Nodes,
		"edges", st.Edges,
		"chromatic_number", st.Chromatic,
		"duration", result.Timing.StatsTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, a, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Timing.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Timing.RenderTime)

	return result, nil
}

// ColorWithCacheInfo colors g with caching and returns cache hit info.
//
// Assignments cut short by the backtracking budget are not cached, since a
// time limit makes them depend on machine load.
func (r *Runner) ColorWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (coloring.Assignment, bool, error) {
	if err := opts.ValidateForColor(); err != nil {
		return coloring.Assignment{}, false, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return coloring.Assignment{}, false, err
	}
	key := r.Keyer.ColoringKey(hash, opts.ColoringKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, keyTypeColoring); ok {
			if a, err := graph.ReadColoring(bytes.NewReader(data)); err == nil {
				return a, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
	}

	a, err := Color(ctx, g, opts)
	if err != nil {
		return coloring.Assignment{}, false, err
	}

	if !a.Exhausted {
		var buf bytes.Buffer
		if err := graph.WriteColoring(a, &buf); err == nil {
			r.set(ctx, key, keyTypeColoring, buf.Bytes(), cache.ColoringTTL)
		}
	}
	return a, false, nil
}

// Color is a convenience wrapper that calls ColorWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Color(ctx context.Context, g graph.Graph, opts Options) (coloring.Assignment, error) {
	a, _, err := r.ColorWithCacheInfo(ctx, g, opts)
	return a, err
}

// StatsWithCacheInfo computes graph statistics with caching. The chromatic
// number is the expensive part and the reason this stage is cached.
func (r *Runner) StatsWithCacheInfo(ctx context.Context, g graph.Graph) (engine.Statistics, bool, error) {
	hash, err := GraphHash(g)
	if err != nil {
		return engine.Statistics{}, false, err
	}
	key := r.Keyer.StatsKey(hash)

	if data, ok := r.get(ctx, key, keyTypeStats); ok {
		var st engine.Statistics
		if err := json.Unmarshal(data, &st); err == nil {
			return st, true, nil
		}
	}

	e := engine.New(engine.WithLogger(r.Logger))
	e.LoadGraph(g.Adjacency())
	st, err := e.Statistics()
	if err != nil {
		return engine.Statistics{}, false, err
	}

	if data, err := json.Marshal(st); err == nil {
		r.set(ctx, key, keyTypeStats, data, cache.StatsTTL)
	}
	return st, false, nil
}

// Stats is a convenience wrapper that calls StatsWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Stats(ctx context.Context, g graph.Graph) (engine.Statistics, error) {
	st, _, err := r.StatsWithCacheInfo(ctx, g)
	return st, err
}

// RenderWithCacheInfo renders a with caching and returns cache hit info.
// The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, a coloring.Assignment, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	colorData, err := json.Marshal(a)
	if err != nil {
		return nil, false, fmt.Errorf("serialize coloring for cache key: %w", err)
	}
	colorHash := cache.Hash(colorData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, colorHash, opts.ArtifactKeyOpts(format))
		data, ok := r.get(ctx, key, keyTypeArtifact)
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, g, a, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, colorHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, key, keyTypeArtifact, data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, a coloring.Assignment, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, a, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key and reports the outcome to the cache hooks. Backend errors
// count as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// GraphHash returns the content hash of g's canonical JSON encoding.
func GraphHash(g graph.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
