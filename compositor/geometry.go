package compositor

import (
	"image"

	"love-booth/core"
)

// Scale is the upscale factor from logical layout units to output pixels,
// targeting roughly 300 DPI for the nominal print sizes.
const Scale = 4

// Logical geometry, in pre-scale pixels.
const (
	basePadding = 40
	baseGap     = 20

	stripCell = 600 // square cells, vertical strips
	gridCell  = 450 // square cells, 2x2 grid
	wideCellW = 800 // landscape cells, wide stack
	wideCellH = 300
)

// Plan is the computed pixel geometry for one layout: canvas size and the
// placement rectangle of every photo cell, in frame-set order.
type Plan struct {
	Width  int
	Height int
	Cells  []image.Rectangle
}

// PlanLayout computes the output geometry for a layout. Vertical and wide
// layouts stack cells top to bottom; the grid places index i at column i%2,
// row i/2, with a gap ring around each cell.
func PlanLayout(layout core.Layout) Plan {
	pad := basePadding * Scale
	gap := baseGap * Scale
	n := layout.PhotoCount

	switch layout.Kind {
	case core.Grid2x2:
		cell := gridCell * Scale
		side := 2*pad + 2*cell + 4*gap
		cells := make([]image.Rectangle, n)
		for i := range cells {
			col, row := i%2, i/2
			x := pad + gap + col*(cell+2*gap)
			y := pad + gap + row*(cell+2*gap)
			cells[i] = image.Rect(x, y, x+cell, y+cell)
		}
		return Plan{Width: side, Height: side, Cells: cells}

	case core.WideStack:
		cw, ch := wideCellW*Scale, wideCellH*Scale
		return stackPlan(n, cw, ch, pad, gap)

	default: // core.VerticalStrip
		cell := stripCell * Scale
		return stackPlan(n, cell, cell, pad, gap)
	}
}

func stackPlan(n, cellW, cellH, pad, gap int) Plan {
	cells := make([]image.Rectangle, n)
	y := pad
	for i := range cells {
		cells[i] = image.Rect(pad, y, pad+cellW, y+cellH)
		y += cellH + gap
	}
	return Plan{
		Width:  2*pad + cellW,
		Height: 2*pad + n*cellH + (n-1)*gap,
		Cells:  cells,
	}
}
