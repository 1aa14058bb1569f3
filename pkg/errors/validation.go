package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds node and session identifiers accepted from users.
const maxIDLength = 256

// ValidateNodeID validates a node identifier taken from a graph document or
// a URL path segment.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// IDs that pass here but are absent from the loaded graph are still accepted
// by the engine; they simply never match an adjacency row.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	return nil
}

// sessionIDRegex matches the canonical UUID form used for session IDs.
var sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSessionID validates a session identifier. Session IDs are
// lowercase UUIDs; anything else could escape the file store directory.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}

// maxColors matches coloring.MaxColorLimit.
const maxColors = 256

// ValidateMaxColors validates a color budget. Zero selects the default.
func ValidateMaxColors(k int) error {
	if k < 0 {
		return New(ErrCodeInvalidInput, "max colors cannot be negative: %d", k)
	}
	if k > maxColors {
		return New(ErrCodeInvalidInput, "max colors too large (max %d): %d", maxColors, k)
	}
	return nil
}

// ValidateColorIndex validates a hand-assigned color. Negative values clear
// a node and are accepted.
func ValidateColorIndex(c int) error {
	if c >= maxColors {
		return New(ErrCodeInvalidInput, "color index too large (max %d): %d", maxColors-1, c)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
