package coloring

import (
	"math"
	"regexp"
	"testing"
)

func TestValidate(t *testing.T) {
	m := complete(3)
	tests := []struct {
		name   string
		colors map[string]int
		want   bool
		nconf  int
	}{
		{"Proper", map[string]int{"n0": 0, "n1": 1, "n2": 2}, true, 0},
		{"OneClash", map[string]int{"n0": 0, "n1": 0, "n2": 2}, false, 1},
		{"AllSame", map[string]int{"n0": 1, "n1": 1, "n2": 1}, false, 3},
		{"PartialIsFine", map[string]int{"n0": 0}, true, 0},
		{"EmptyIsFine", map[string]int{}, true, 0},
		{"UnknownIDsIgnored", map[string]int{"n0": 0, "ghost": 0}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{Colors: tt.colors}
			if got := Validate(m, a); got != tt.want {
				t.Errorf("Validate = %v, want %v", got, tt.want)
			}
			if got := Conflicts(m, a); len(got) != tt.nconf {
				t.Errorf("len(Conflicts) = %d, want %d: %v", len(got), tt.nconf, got)
			}
		})
	}
}

func TestConflictsOrder(t *testing.T) {
	m := cycle(4)
	a := Assignment{Colors: map[string]int{"n0": 1, "n1": 1, "n2": 1, "n3": 0}}
	got := Conflicts(m, a)
	want := []Conflict{{A: "n0", B: "n1", Color: 1}, {A: "n1", B: "n2", Color: 1}}
	if len(got) != len(want) {
		t.Fatalf("Conflicts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Conflicts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEvaluate(t *testing.T) {
	m := cycle(4)
	a := Evaluate(m, map[string]int{"n0": 0, "n1": 5, "n2": 0, "n3": -1})

	if _, ok := a.Colors["n3"]; ok {
		t.Error("negative index should be dropped")
	}
	if len(a.Palette) != 6 {
		t.Errorf("len(Palette) = %d, want 6", len(a.Palette))
	}
	if a.Chromatic != 2 || !a.Valid {
		t.Errorf("Chromatic = %d, Valid = %v; want 2, true", a.Chromatic, a.Valid)
	}
	if a.Hex("n1") != a.Palette[5] || a.Hex("n3") != "" {
		t.Errorf("Hex lookups wrong: %q %q", a.Hex("n1"), a.Hex("n3"))
	}
}

func TestEvaluateIndexBounds(t *testing.T) {
	m := cycle(4)
	tests := []struct {
		name       string
		index      int
		wantLen    int
		wantValid  bool
		wantHexSet bool
	}{
		{"last palette slot", MaxColorLimit - 1, MaxColorLimit, true, true},
		{"past the limit", MaxColorLimit, MaxColorLimit, false, false},
		{"huge", 1 << 50, MaxColorLimit, false, false},
		{"max int", math.MaxInt, MaxColorLimit, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate(m, map[string]int{"n0": 0, "n1": tt.index})
			if len(a.Palette) != tt.wantLen || a.Valid != tt.wantValid {
				t.Errorf("len(Palette) = %d, Valid = %v; want %d, %v", len(a.Palette), a.Valid, tt.wantLen, tt.wantValid)
			}
			if (a.Hex("n1") != "") != tt.wantHexSet {
				t.Errorf("Hex(n1) = %q", a.Hex("n1"))
			}
		})
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestPalette(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 3, 4, 6, 12} {
		p := Palette(n)
		if len(p) != max(n, 0) {
			t.Errorf("len(Palette(%d)) = %d", n, len(p))
		}
		seen := map[string]bool{}
		for i, c := range p {
			if !hexColor.MatchString(c) {
				t.Errorf("Palette(%d)[%d] = %q, not a hex color", n, i, c)
			}
			if i < len(BasePalette) && c != BasePalette[i] {
				t.Errorf("Palette(%d)[%d] = %q, want base %q", n, i, c, BasePalette[i])
			}
			if seen[c] {
				t.Errorf("Palette(%d) repeats %q", n, c)
			}
			seen[c] = true
		}
	}

	p := Palette(2)
	p[0] = "#000000"
	if BasePalette[0] == "#000000" {
		t.Error("Palette must not alias BasePalette")
	}
}

func TestAssignmentClone(t *testing.T) {
	a := Greedy{}.Color(complete(3), Options{})
	b := a.Clone()
	b.Colors["n0"] = 9
	b.Palette[0] = "#000000"
	if a.Colors["n0"] == 9 || a.Palette[0] == "#000000" {
		t.Error("Clone shares state with the original")
	}
	if !a.Equal(a.Clone()) {
		t.Error("clone not equal to original")
	}
	if z := (Assignment{}).Clone(); z.Colors == nil || z.Palette == nil {
		t.Error("Clone of zero value should allocate empty collections")
	}
}
