// Package frames acquires the booth's photos: it normalizes every source
// image to the same square raster and sequences captures and uploads into a
// session's frame set.
package frames

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"love-booth/core"
)

// FrameSize is the side of every normalized frame. Both the capture and the
// upload path produce exactly this raster regardless of source aspect ratio.
const FrameSize = 1000

// Normalize center-crops the largest square out of img and resamples it to
// FrameSize x FrameSize with Lanczos.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Fill(img, FrameSize, FrameSize, imaging.Center, imaging.Lanczos)
}

// EncodeFrame serializes a normalized frame to lossless PNG bytes, the
// opaque encoding the frame set stores.
func EncodeFrame(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeFrame decodes one stored frame set entry.
func DecodeFrame(encoded []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecodeFailure, err)
	}
	return img, nil
}
