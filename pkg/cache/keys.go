package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// ColoringKey identifies an assignment computed for a graph.
	ColoringKey(graphHash string, opts ColoringKeyOpts) string

	// StatsKey identifies graph statistics, chromatic number included.
	StatsKey(graphHash string) string

	// ArtifactKey identifies a rendered graph in one output format.
	ArtifactKey(graphHash, coloringHash string, opts ArtifactKeyOpts) string
}

// ColoringKeyOpts are the options that change an algorithm's output.
// Timeout is left out since only exhausted runs depend on it and those are
// never cached.
type ColoringKeyOpts struct {
	Algorithm   string `json:"algorithm"`
	MaxColors   int    `json:"max_colors"`
	Randomize   bool   `json:"randomize"`
	Seed        uint64 `json:"seed"`
	MaxSteps    int    `json:"max_steps"`
	Constraints string `json:"constraints"` // hash of constraints and palette
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Hash returns the hex SHA-256 of data. Graphs, colorings and constraint
// lists are hashed from their canonical JSON.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces "kind:sha256" keys, the hash taken over the JSON
// encoding of every key part.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ColoringKey(graphHash string, opts ColoringKeyOpts) string {
	return digest("coloring", graphHash, opts)
}

func (DefaultKeyer) StatsKey(graphHash string) string {
	return digest("stats", graphHash)
}

func (DefaultKeyer) ArtifactKey(graphHash, coloringHash string, opts ArtifactKeyOpts) string {
	return digest("artifact", graphHash, coloringHash, opts)
}

func digest(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
