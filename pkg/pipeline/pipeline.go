// Package pipeline runs the color → validate → stats → render pipeline
// shared by the CLI and the HTTP server.
//
// Each stage is cached by graph content hash plus the options that change
// its output, so recoloring an unchanged map with the same options is a
// cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Algorithm: "dsatur",
//	    Formats:   []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	a, err := runner.Color(ctx, g, opts)
//	st, err := runner.Stats(ctx, g)
//	artifacts, err := runner.Render(ctx, g, a, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultAlgorithm is the strategy used when Options.Algorithm is empty.
const DefaultAlgorithm = coloring.NameDSATUR

// DefaultFormat is the render format used when Options.Formats is empty.
const DefaultFormat = render.FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Coloring options
	Algorithm   string                `json:"algorithm,omitempty"`
	MaxColors   int                   `json:"max_colors,omitempty"`
	Constraints []coloring.Constraint `json:"constraints,omitempty"`
	Randomize   bool                  `json:"randomize,omitempty"`
	Seed        uint64                `json:"seed,omitempty"`
	MaxSteps    int                   `json:"max_steps,omitempty"`
	Timeout     time.Duration         `json:"-"`
	Palette     []string              `json:"palette,omitempty"` // Base palette override
	Refresh     bool                  `json:"refresh,omitempty"` // Skip cache reads

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     graph.Graph
	GraphHash string

	Coloring  coloring.Assignment
	Conflicts []coloring.Conflict
	Stats     engine.Statistics

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Timing    Timing
	CacheInfo CacheInfo
}

// Timing records how long each stage took.
type Timing struct {
	ColorTime  time.Duration
	StatsTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ColoringHit bool
	StatsHit    bool
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateAlgorithm checks that name is a registered algorithm. Unlike the
// engine, the pipeline rejects unknown names instead of falling back.
func ValidateAlgorithm(name string) error {
	if _, ok := coloring.Lookup(name); !ok {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q (must be one of: %v)", name, coloring.Names())
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForColor(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForColor validates and sets defaults for the coloring stage.
func (o *Options) ValidateForColor() error {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if err := errors.ValidateMaxColors(o.MaxColors); err != nil {
		return err
	}
	if o.MaxColors == 0 {
		o.MaxColors = coloring.DefaultMaxColors
	}
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_steps must not be negative")
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = coloring.DefaultMaxSteps
	}
	if o.Seed == 0 {
		o.Seed = coloring.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = parsed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ColoringOptions returns the options passed to the coloring algorithms.
func (o *Options) ColoringOptions() coloring.Options {
	return coloring.Options{
		Algorithm:   o.Algorithm,
		MaxColors:   o.MaxColors,
		Constraints: o.Constraints,
		Randomize:   o.Randomize,
		Seed:        o.Seed,
		MaxSteps:    o.MaxSteps,
		Timeout:     o.Timeout,
	}
}

// ColoringKeyOpts returns cache key options for the coloring stage.
func (o *Options) ColoringKeyOpts() cache.ColoringKeyOpts {
	k := cache.ColoringKeyOpts{
		Algorithm: o.Algorithm,
		MaxColors: o.MaxColors,
		Randomize: o.Randomize,
		Seed:      o.Seed,
		MaxSteps:  o.MaxSteps,
	}
	if len(o.Constraints) > 0 || len(o.Palette) > 0 {
		data, _ := json.Marshal(struct {
			C []coloring.Constraint
			P []string
		}{o.Constraints, o.Palette})
		k.Constraints = cache.Hash(data)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Labels: o.Labels}
}
