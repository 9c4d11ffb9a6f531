package compositor

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"love-booth/core"
)

const (
	watermarkText = "Love Booth"
	// Logical point size; scaled with the canvas so the mark keeps its
	// proportion inside the bottom padding band.
	watermarkPt = 28
)

// Accent colors for the watermark: pink in color mode, neutral gray in
// monochrome (drawn after the pixel transform, so it keeps its tint).
var (
	accentPink = color.NRGBA{R: 236, G: 72, B: 153, A: 255}
	accentGray = color.NRGBA{R: 107, G: 114, B: 128, A: 255}
)

var (
	faceOnce sync.Once
	wmFace   font.Face
	faceErr  error
)

func watermarkFace() (font.Face, error) {
	faceOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			faceErr = err
			return
		}
		wmFace, faceErr = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    watermarkPt * Scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return wmFace, faceErr
}

// drawWatermark renders the booth mark centered horizontally, vertically
// centered in the bottom padding band.
func drawWatermark(canvas *image.NRGBA, plan Plan, mode core.ColorMode) error {
	face, err := watermarkFace()
	if err != nil {
		return err
	}

	accent := accentPink
	if mode == core.Monochrome {
		accent = accentGray
	}

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(accent),
		Face: face,
	}

	pad := basePadding * Scale
	bandCenter := plan.Height - pad/2
	metrics := face.Metrics()

	advance := d.MeasureString(watermarkText)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(plan.Width) - advance) / 2,
		Y: fixed.I(bandCenter) + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(watermarkText)
	return nil
}
