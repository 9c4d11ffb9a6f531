package frames

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"love-booth/camera"
	"love-booth/core"
)

// tickFunc produces a per-second tick channel plus a stop function. Tests
// inject their own; production uses time.Ticker.
type tickFunc func(d time.Duration) (<-chan time.Time, func())

func tickerTicks(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Coordinator sequences countdown captures. At most one countdown runs per
// session; a countdown always completes once started and fires exactly one
// capture on reaching zero.
type Coordinator struct {
	mu     sync.Mutex
	active map[string]bool
	notify core.Notifier
	tick   tickFunc
}

func NewCoordinator(notify core.Notifier) *Coordinator {
	return &Coordinator{
		active: make(map[string]bool),
		notify: notify,
		tick:   tickerTicks,
	}
}

// ValidCountdown reports whether seconds is one of the user-selectable
// delays, in whole seconds.
func ValidCountdown(seconds int) bool {
	return seconds == 3 || seconds == 5 || seconds == 10
}

// Active reports whether a countdown is currently running for the session.
func (c *Coordinator) Active(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[sessionID]
}

// Capture runs a countdown of the given length, then captures the source's
// current frame, normalizes it and appends it to the session. It blocks for
// the whole countdown; callers that must not block run it in a goroutine.
//
// Rejections (no countdown starts): invalid delay, frame set already
// complete, or another countdown active for the session. Every failure is
// also pushed to the shell as an error toast, so detached callers never
// swallow it.
func (c *Coordinator) Capture(sess *core.Session, src camera.FrameSource, seconds int) error {
	if err := c.capture(sess, src, seconds); err != nil {
		c.notify.Toast(sess.ID, "error", err.Error())
		return err
	}
	return nil
}

func (c *Coordinator) capture(sess *core.Session, src camera.FrameSource, seconds int) error {
	if !ValidCountdown(seconds) {
		return fmt.Errorf("%w: countdown %ds (choose 3, 5 or 10)", core.ErrInvalidInput, seconds)
	}
	if sess.Complete() {
		return core.ErrFrameSetComplete
	}

	c.mu.Lock()
	if c.active[sess.ID] {
		c.mu.Unlock()
		return core.ErrCountdownActive
	}
	c.active[sess.ID] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.active, sess.ID)
		c.mu.Unlock()
	}()

	ticks, stop := c.tick(time.Second)
	defer stop()
	for remaining := seconds; remaining > 0; remaining-- {
		c.notify.CountdownTick(sess.ID, remaining)
		<-ticks
	}
	c.notify.CountdownTick(sess.ID, 0)

	img, err := src.Frame()
	if err != nil {
		return fmt.Errorf("%w: capture source: %v", core.ErrDecodeFailure, err)
	}
	encoded, err := EncodeFrame(Normalize(img))
	if err != nil {
		return err
	}
	if err := sess.AddFrame(encoded); err != nil {
		// The set filled up some other way while we counted down.
		return err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"frames":     sess.FrameCount(),
		"want":       sess.Layout.PhotoCount,
	}).Info("Frame captured")
	c.notify.FrameAdded(sess.ID, sess.FrameCount(), sess.Layout.PhotoCount)
	return nil
}
