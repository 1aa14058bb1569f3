package graph

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes and validates JSON bytes.
func UnmarshalGraph(data []byte) (Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	return writeJSON(g, w)
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return writeJSON(g, w) })
}

// ReadGraph decodes a JSON graph from an io.Reader and validates node IDs.
//
// Edges referencing unknown nodes are kept here; the adjacency model drops
// them when the graph is loaded.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	if err := Validate(g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadGraphFile reads a JSON file and returns the decoded Graph.
func ReadGraphFile(path string) (Graph, error) {
	var g Graph
	err := readFile(path, func(r io.Reader) error {
		var err error
		g, err = ReadGraph(r)
		return err
	})
	return g, err
}

// Validate checks every node ID. Duplicate IDs are not an error; the first
// occurrence wins when the graph is loaded.
func Validate(g Graph) error {
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
	}
	return nil
}

// =============================================================================
// Coloring Serialization API
// =============================================================================

// WriteColoring writes an assignment, with per-node fill colors, as JSON.
func WriteColoring(a coloring.Assignment, w io.Writer) error {
	return writeJSON(NewColoring(a), w)
}

// WriteColoringFile writes an assignment to a JSON file.
func WriteColoringFile(a coloring.Assignment, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteColoring(a, w) })
}

// ReadColoring decodes an assignment. Only the "colors" mapping is
// required; the palette, chromatic count and validity are recomputed by
// callers through coloring.Evaluate.
func ReadColoring(r io.Reader) (coloring.Assignment, error) {
	var c Coloring
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return coloring.Assignment{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode coloring")
	}
	if c.Colors == nil {
		return coloring.Assignment{}, errors.New(errors.ErrCodeInvalidFormat, "coloring has no \"colors\" object")
	}
	return c.Assignment, nil
}

// ReadColoringFile reads an assignment from a JSON file.
func ReadColoringFile(path string) (coloring.Assignment, error) {
	var a coloring.Assignment
	err := readFile(path, func(r io.Reader) error {
		var err error
		a, err = ReadColoring(r)
		return err
	})
	return a, err
}

// ReadConstraintsFile reads {"constraints": [...]} from a JSON file.
func ReadConstraintsFile(path string) ([]coloring.Constraint, error) {
	var set ConstraintSet
	err := readFile(path, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(&set); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode constraints")
		}
		return nil
	})
	return set.Constraints, err
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}
