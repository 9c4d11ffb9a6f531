// Package compositor renders a complete frame set into one print-ready
// composite. Rendering is pure: identical (frames, layout, mode) inputs
// produce byte-identical PNG output.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"

	"love-booth/core"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Render composites the encoded frames into the layout's geometry, applies
// the color treatment and the watermark, and serializes to lossless PNG.
//
// The frames are expected to be pre-validated by acquisition; a decode
// failure here is an unexpected-state error and aborts the whole composite
// rather than skipping the frame.
func Render(frameData [][]byte, layout core.Layout, mode core.ColorMode) ([]byte, error) {
	if len(frameData) != layout.PhotoCount {
		return nil, fmt.Errorf("%w: have %d frames, layout %q needs %d",
			core.ErrFrameSetIncomplete, len(frameData), layout.ID, layout.PhotoCount)
	}

	plan := PlanLayout(layout)
	canvas := imaging.New(plan.Width, plan.Height, white)

	for i, data := range frameData {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", core.ErrDecodeFailure, i, err)
		}
		cell := plan.Cells[i]
		fitted := imaging.Fill(img, cell.Dx(), cell.Dy(), imaging.Center, imaging.Lanczos)
		canvas = imaging.Paste(canvas, fitted, cell.Min)
	}

	if mode == core.Monochrome {
		monochrome(canvas)
	}
	if err := drawWatermark(canvas, plan, mode); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

// monochrome replaces every pixel's R, G and B with their uniform average
// (R+G+B)/3 in place, leaving alpha untouched. Deliberately not a weighted
// luminance formula; output-equivalence checks depend on this exact
// definition. Idempotent: once R=G=B the average is a no-op.
func monochrome(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		avg := uint8((uint16(pix[i]) + uint16(pix[i+1]) + uint16(pix[i+2])) / 3)
		pix[i], pix[i+1], pix[i+2] = avg, avg, avg
	}
}
