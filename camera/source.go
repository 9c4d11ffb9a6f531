package camera

import (
	"image"
	"sync"

	"love-booth/core"
)

type (
	// FrameSource hands the booth the current still frame of whatever is
	// producing pictures: a live stream owned by the shell, or a frame the
	// shell posted over the wire. Release must be idempotent and must drop
	// any buffered preview the source created.
	FrameSource interface {
		Frame() (image.Image, error)
		Release()
	}

	// StillSource wraps one already-decoded frame. This is the shape the
	// HTTP capture path produces: the shell grabs the video frame and the
	// core treats it as the stream's output at capture time.
	StillSource struct {
		mu       sync.Mutex
		img      image.Image
		released bool
	}
)

func NewStillSource(img image.Image) *StillSource {
	return &StillSource{img: img}
}

func (s *StillSource) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || s.img == nil {
		return nil, core.ErrDecodeFailure
	}
	return s.img, nil
}

// Release discards the buffered frame. Safe to call more than once.
func (s *StillSource) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.img = nil
}
