package frames

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_SquareOutputFromAnyAspect(t *testing.T) {
	cases := []struct{ w, h int }{
		{1000, 1000}, // already square
		{1600, 900},  // landscape
		{900, 1600},  // portrait
		{30, 2000},   // extreme
	}
	for _, tc := range cases {
		got := Normalize(solidImage(tc.w, tc.h, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
		b := got.Bounds()
		if b.Dx() != FrameSize || b.Dy() != FrameSize {
			t.Errorf("Normalize(%dx%d) = %dx%d, want %dx%d",
				tc.w, tc.h, b.Dx(), b.Dy(), FrameSize, FrameSize)
		}
	}
}

func TestEncodeDecodeFrame_RoundTrip(t *testing.T) {
	src := Normalize(solidImage(640, 480, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))
	encoded, err := EncodeFrame(src)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	img, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != FrameSize || b.Dy() != FrameSize {
		t.Fatalf("decoded frame is %dx%d, want %dx%d", b.Dx(), b.Dy(), FrameSize, FrameSize)
	}
}

func TestDecodeFrame_Garbage(t *testing.T) {
	if _, err := DecodeFrame([]byte("not an image")); err == nil {
		t.Fatal("DecodeFrame(garbage) should fail")
	}
}
