package catalog

import (
	"errors"
	"testing"

	"love-booth/core"
)

func TestResolve_KnownLayouts(t *testing.T) {
	cases := []struct {
		id    string
		count int
		kind  core.OutputKind
	}{
		{"strip-3", 3, core.VerticalStrip},
		{"strip-4", 4, core.VerticalStrip},
		{"grid-4", 4, core.Grid2x2},
		{"wide-3", 3, core.WideStack},
	}
	for _, tc := range cases {
		l, err := Resolve(tc.id)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.id, err)
		}
		if l.PhotoCount != tc.count {
			t.Errorf("Resolve(%q).PhotoCount = %d, want %d", tc.id, l.PhotoCount, tc.count)
		}
		if l.Kind != tc.kind {
			t.Errorf("Resolve(%q).Kind = %v, want %v", tc.id, l.Kind, tc.kind)
		}
	}
}

func TestResolve_PhotoCountInvariant(t *testing.T) {
	for _, l := range All() {
		if l.PhotoCount != 3 && l.PhotoCount != 4 {
			t.Errorf("layout %q has photo count %d, want 3 or 4", l.ID, l.PhotoCount)
		}
	}
}

func TestResolve_StableAcrossCalls(t *testing.T) {
	for _, l := range All() {
		a, err := Resolve(l.ID)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", l.ID, err)
		}
		b, err := Resolve(l.ID)
		if err != nil {
			t.Fatalf("Resolve(%q) failed on second call: %v", l.ID, err)
		}
		if a != b {
			t.Errorf("Resolve(%q) not stable: %+v != %+v", l.ID, a, b)
		}
	}
}

func TestResolve_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, l := range All() {
		if seen[l.ID] {
			t.Errorf("duplicate layout id %q", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("strip-5")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Resolve(unknown) = %v, want ErrNotFound", err)
	}
}
