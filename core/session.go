package core

import (
	"fmt"
	"sync"
	"time"
)

type (
	// ColorMode selects the rendering treatment. Session-scoped and
	// mutable; it is not stored with the frames.
	ColorMode int

	// Phase is the top-level booth state. Preview is only reachable once
	// the frame set is complete, so it carries no separate payload: the
	// session itself is the payload.
	Phase int

	// Session is one booth run: a chosen layout, the frames collected so
	// far, and the active color treatment. Frames are opaque encoded
	// images (PNG bytes after normalization), addressable by index, held
	// only in memory.
	Session struct {
		ID        string    `json:"id"`
		Layout    Layout    `json:"layout"`
		CreatedAt time.Time `json:"createdAt"`

		mu     sync.Mutex
		frames [][]byte
		mode   ColorMode
	}
)

const (
	Color ColorMode = iota
	Monochrome
)

const (
	PhaseCapturing Phase = iota
	PhasePreview
)

func (m ColorMode) String() string {
	if m == Monochrome {
		return "monochrome"
	}
	return "color"
}

// ParseColorMode maps the wire value back to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "color":
		return Color, nil
	case "monochrome":
		return Monochrome, nil
	}
	return Color, fmt.Errorf("%w: unknown color mode %q", ErrInvalidInput, s)
}

func NewSession(id string, layout Layout) *Session {
	return &Session{
		ID:        id,
		Layout:    layout,
		CreatedAt: time.Now(),
		frames:    make([][]byte, 0, layout.PhotoCount),
	}
}

// AddFrame appends one encoded frame. Rejected once the set is complete.
func (s *Session) AddFrame(encoded []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) >= s.Layout.PhotoCount {
		return ErrFrameSetComplete
	}
	s.frames = append(s.frames, encoded)
	return nil
}

// DeleteFrame removes the frame at index, preserving the relative order of
// the rest. A complete set becomes recapturable again.
func (s *Session) DeleteFrame(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.frames) {
		return fmt.Errorf("%w: frame index %d out of range", ErrNotFound, index)
	}
	s.frames = append(s.frames[:index], s.frames[index+1:]...)
	return nil
}

// ReplaceFrames installs a complete batch at once, replacing anything
// collected so far. Batches are all-or-nothing: the length must equal the
// layout's photo count.
func (s *Session) ReplaceFrames(frames [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(frames) != s.Layout.PhotoCount {
		return fmt.Errorf("%w: got %d frames, layout needs %d",
			ErrInvalidInput, len(frames), s.Layout.PhotoCount)
	}
	s.frames = frames
	return nil
}

// Frames returns a snapshot of the collected frames in capture order.
func (s *Session) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *Session) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Complete reports whether the set holds exactly PhotoCount frames and is
// eligible for compositing.
func (s *Session) Complete() bool {
	return s.FrameCount() == s.Layout.PhotoCount
}

// Phase derives the booth phase from the frame set. There is no way to
// reach preview with an incomplete set.
func (s *Session) Phase() Phase {
	if s.Complete() {
		return PhasePreview
	}
	return PhaseCapturing
}

func (s *Session) ColorMode() ColorMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) SetColorMode(m ColorMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}
