package frames

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"love-booth/core"
)

func testLayout(count int) core.Layout {
	return core.Layout{ID: fmt.Sprintf("strip-%d", count), PhotoCount: count, Kind: core.VerticalStrip}
}

func goodFile(t *testing.T, name string) File {
	t.Helper()
	return File{Name: name, Data: pngBytes(t, solidImage(320, 240, color.NRGBA{R: 80, G: 90, B: 100, A: 255}))}
}

func goodBatch(t *testing.T, n int) []File {
	t.Helper()
	files := make([]File, n)
	for i := range files {
		files[i] = goodFile(t, fmt.Sprintf("photo-%d.png", i))
	}
	return files
}

func TestIntakeBatch_Accepts(t *testing.T) {
	sess := core.NewSession("s1", testLayout(3))
	if err := IntakeBatch(sess, goodBatch(t, 3)); err != nil {
		t.Fatalf("IntakeBatch failed: %v", err)
	}
	if !sess.Complete() {
		t.Fatalf("session has %d frames, want complete set of 3", sess.FrameCount())
	}
	for i, f := range sess.Frames() {
		img, err := DecodeFrame(f)
		if err != nil {
			t.Fatalf("stored frame %d does not decode: %v", i, err)
		}
		if img.Bounds().Dx() != FrameSize {
			t.Errorf("stored frame %d is %dpx wide, want %d", i, img.Bounds().Dx(), FrameSize)
		}
	}
}

func TestIntakeBatch_WrongSize(t *testing.T) {
	for _, n := range []int{0, 2, 4} {
		sess := core.NewSession("s1", testLayout(3))
		err := IntakeBatch(sess, goodBatch(t, n))
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("IntakeBatch with %d files = %v, want ErrInvalidInput", n, err)
		}
		if sess.FrameCount() != 0 {
			t.Errorf("rejected batch of %d left %d frames behind", n, sess.FrameCount())
		}
	}
}

func TestIntakeBatch_UnrecognizedTypeRejectsWholeBatch(t *testing.T) {
	sess := core.NewSession("s1", testLayout(3))
	files := goodBatch(t, 3)
	files[1] = File{Name: "notes.pdf", Data: []byte("%PDF-1.4 nope")}
	err := IntakeBatch(sess, files)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("IntakeBatch with a PDF = %v, want ErrInvalidInput", err)
	}
	if sess.FrameCount() != 0 {
		t.Fatalf("rejected batch left %d frames behind", sess.FrameCount())
	}
}

func TestIntakeBatch_ExtensionFallback(t *testing.T) {
	// A tiny payload sniffs as text/plain; the .png extension should still
	// get it past the type check, after which decoding drops it.
	sess := core.NewSession("s1", testLayout(3))
	files := goodBatch(t, 3)
	files[2] = File{Name: "corrupt.png", Data: []byte("hello")}
	err := IntakeBatch(sess, files)
	var bde *BatchDecodeError
	if !errors.As(err, &bde) {
		t.Fatalf("IntakeBatch with a corrupt member = %v, want BatchDecodeError", err)
	}
	if bde.Succeeded != 2 || bde.Want != 3 {
		t.Fatalf("BatchDecodeError = %d/%d, want 2/3", bde.Succeeded, bde.Want)
	}
	if !errors.Is(err, core.ErrDecodeFailure) {
		t.Fatal("BatchDecodeError should unwrap to ErrDecodeFailure")
	}
}

func TestIntakeBatch_ReplacesEarlierFrames(t *testing.T) {
	sess := core.NewSession("s1", testLayout(3))
	if err := sess.AddFrame([]byte("stale")); err != nil {
		t.Fatalf("seed frame: %v", err)
	}
	if err := IntakeBatch(sess, goodBatch(t, 3)); err != nil {
		t.Fatalf("IntakeBatch failed: %v", err)
	}
	if sess.FrameCount() != 3 {
		t.Fatalf("session has %d frames, want 3", sess.FrameCount())
	}
}
