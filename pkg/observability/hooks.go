// Package observability emits events about coloring runs, history moves,
// cache operations and API requests to whichever hooks are registered.
//
// Hooks are registered by main, not by libraries, so the engine and the
// server never import a metrics backend. One value may implement any subset
// of [ColoringHooks], [CacheHooks] and [HTTPHooks]; [Register] installs it
// for each interface it satisfies:
//
//	observability.Register(observability.NewLogHooks(logger))
//
// Libraries call hooks to emit events:
//
//	observability.Coloring().OnColorStart(ctx, "dsatur", m.Len())
//	// ... color ...
//	observability.Coloring().OnColorComplete(ctx, "dsatur", a.Chromatic, a.Valid, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Coloring Hooks
// =============================================================================

// ColoringHooks receives events from the coloring engine.
type ColoringHooks interface {
	// Algorithm runs
	OnColorStart(ctx context.Context, algorithm string, nodeCount int)
	OnColorComplete(ctx context.Context, algorithm string, chromatic int, valid bool, duration time.Duration)

	// OnHistory records a history move: load, push, undo, redo or reset.
	OnHistory(ctx context.Context, action string, cursor, length int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// Registry
// =============================================================================

// Noop implements every hook interface and ignores all events.
type Noop struct{}

func (Noop) OnColorStart(context.Context, string, int)                         {}
func (Noop) OnColorComplete(context.Context, string, int, bool, time.Duration) {}
func (Noop) OnHistory(context.Context, string, int, int)                       {}
func (Noop) OnCacheHit(context.Context, string)                                {}
func (Noop) OnCacheMiss(context.Context, string)                               {}
func (Noop) OnCacheSet(context.Context, string, int)                           {}
func (Noop) OnRequest(context.Context, string, string)                         {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)    {}

var (
	hooksMu       sync.RWMutex
	coloringHooks ColoringHooks = Noop{}
	cacheHooks    CacheHooks    = Noop{}
	httpHooks     HTTPHooks     = Noop{}
)

// Register installs h for every hook interface it implements and reports
// whether it matched any. Call it at startup, before engines are built or
// the server starts.
func Register(h any) bool {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	matched := false
	if c, ok := h.(ColoringHooks); ok {
		coloringHooks, matched = c, true
	}
	if c, ok := h.(CacheHooks); ok {
		cacheHooks, matched = c, true
	}
	if c, ok := h.(HTTPHooks); ok {
		httpHooks, matched = c, true
	}
	return matched
}

// Coloring returns the registered coloring hooks.
func Coloring() ColoringHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return coloringHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks.
func Reset() {
	Register(Noop{})
}
