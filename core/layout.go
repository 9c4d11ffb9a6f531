package core

type (
	// OutputKind selects the geometry family a layout renders into.
	OutputKind int

	// Layout is a named geometry template: how many photos a strip takes
	// and which shape the composite comes out as. Layouts are defined once
	// at startup and never mutated.
	Layout struct {
		ID         string     `json:"id"`
		PhotoCount int        `json:"photoCount"`
		Kind       OutputKind `json:"kind"`
	}
)

const (
	// VerticalStrip stacks square cells top to bottom.
	VerticalStrip OutputKind = iota
	// Grid2x2 places four square cells row-major in a 2x2 grid.
	Grid2x2
	// WideStack stacks wide (landscape) cells top to bottom.
	WideStack
)

func (k OutputKind) String() string {
	switch k {
	case VerticalStrip:
		return "vertical-strip"
	case Grid2x2:
		return "grid-2x2"
	case WideStack:
		return "wide-stack"
	}
	return "unknown"
}
