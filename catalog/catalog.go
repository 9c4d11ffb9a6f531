// Package catalog is the fixed registry of strip layouts. Four layouts
// exist; the table never changes at runtime.
package catalog

import (
	"fmt"

	"love-booth/core"
)

var layouts = []core.Layout{
	{ID: "strip-3", PhotoCount: 3, Kind: core.VerticalStrip},
	{ID: "strip-4", PhotoCount: 4, Kind: core.VerticalStrip},
	{ID: "grid-4", PhotoCount: 4, Kind: core.Grid2x2},
	{ID: "wide-3", PhotoCount: 3, Kind: core.WideStack},
}

// Resolve looks a layout up by ID.
func Resolve(id string) (core.Layout, error) {
	for _, l := range layouts {
		if l.ID == id {
			return l, nil
		}
	}
	return core.Layout{}, fmt.Errorf("%w: layout %q", core.ErrNotFound, id)
}

// All returns the catalog in declaration order. The slice is a copy; the
// catalog itself cannot be mutated through it.
func All() []core.Layout {
	out := make([]core.Layout, len(layouts))
	copy(out, layouts)
	return out
}
