package cli

import (
	"testing"

	"github.com/franzenjb/fourcolor/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"spaces and empties", " svg , ,dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid png", []string{"png"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"svg", "png", "dot"}, false},
		{"extension form", []string{".SVG"}, false},
		{"pdf unsupported", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "maps/europe.json", "maps/europe"},
		{"", "sample:australia", "australia"},
		{"out/map.svg", "map.json", "out/map"},
		{"out/map.dot", "map.json", "out/map"},
		{"out/map", "map.json", "out/map"},
		{"out/map.v2", "map.json", "out/map.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("out/custom.image", "map.json", []string{"png"})
	if single["png"] != "out/custom.image" {
		t.Errorf("single format with explicit file = %v", single)
	}

	multi := outputPaths("out/map.svg", "map.json", []string{"svg", "png"})
	if multi["svg"] != "out/map.svg" || multi["png"] != "out/map.png" {
		t.Errorf("multiple formats = %v", multi)
	}

	derived := outputPaths("", "sample:petersen", []string{"dot"})
	if derived["dot"] != "petersen.dot" {
		t.Errorf("derived = %v", derived)
	}
}
