package frames

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"testing"
	"time"

	"love-booth/camera"
	"love-booth/core"
)

type recordNotifier struct {
	mu     sync.Mutex
	ticks  []int
	added  []int
	toasts []string
}

func (r *recordNotifier) CountdownTick(_ string, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *recordNotifier) FrameAdded(_ string, count, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, count)
}

func (r *recordNotifier) PrintState(string, string) {}

func (r *recordNotifier) Toast(_ string, level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, level+": "+msg)
}

func (r *recordNotifier) toastLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.toasts))
	copy(out, r.toasts)
	return out
}

func (r *recordNotifier) tickLog() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.ticks))
	copy(out, r.ticks)
	return out
}

// manualTicks drives the countdown from the test instead of wall time.
func manualTicks(ch chan time.Time) tickFunc {
	return func(time.Duration) (<-chan time.Time, func()) {
		return ch, func() {}
	}
}

func newTestCoordinator(rec *recordNotifier, ch chan time.Time) *Coordinator {
	c := NewCoordinator(rec)
	c.tick = manualTicks(ch)
	return c
}

func TestCapture_OneCapturePerCountdown(t *testing.T) {
	rec := &recordNotifier{}
	ch := make(chan time.Time)
	c := newTestCoordinator(rec, ch)
	sess := core.NewSession("s1", testLayout(3))
	src := camera.NewStillSource(solidImage(800, 600, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))

	done := make(chan error, 1)
	go func() { done <- c.Capture(sess, src, 3) }()
	for i := 0; i < 3; i++ {
		ch <- time.Now()
	}
	if err := <-done; err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if sess.FrameCount() != 1 {
		t.Fatalf("session has %d frames, want exactly 1", sess.FrameCount())
	}
	want := []int{3, 2, 1, 0}
	got := rec.tickLog()
	if len(got) != len(want) {
		t.Fatalf("tick log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tick log = %v, want %v", got, want)
		}
	}
}

func TestCapture_RejectsInvalidDelay(t *testing.T) {
	c := NewCoordinator(&recordNotifier{})
	sess := core.NewSession("s1", testLayout(3))
	src := camera.NewStillSource(solidImage(10, 10, color.NRGBA{A: 255}))
	for _, secs := range []int{0, 1, 4, 60} {
		if err := c.Capture(sess, src, secs); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("Capture with %ds = %v, want ErrInvalidInput", secs, err)
		}
	}
}

func TestCapture_NoOpWhenComplete(t *testing.T) {
	c := NewCoordinator(&recordNotifier{})
	sess := core.NewSession("s1", testLayout(3))
	if err := IntakeBatch(sess, goodBatch(t, 3)); err != nil {
		t.Fatalf("fill session: %v", err)
	}
	src := camera.NewStillSource(solidImage(10, 10, color.NRGBA{A: 255}))
	if err := c.Capture(sess, src, 3); !errors.Is(err, core.ErrFrameSetComplete) {
		t.Fatalf("Capture on complete set = %v, want ErrFrameSetComplete", err)
	}

	// Deleting one frame reopens the set.
	if err := sess.DeleteFrame(1); err != nil {
		t.Fatalf("DeleteFrame failed: %v", err)
	}
	ch := make(chan time.Time)
	c2 := newTestCoordinator(&recordNotifier{}, ch)
	done := make(chan error, 1)
	go func() { done <- c2.Capture(sess, src, 3) }()
	for i := 0; i < 3; i++ {
		ch <- time.Now()
	}
	if err := <-done; err != nil {
		t.Fatalf("Capture after delete failed: %v", err)
	}
	if !sess.Complete() {
		t.Fatal("set should be complete again after recapture")
	}
}

func TestCapture_RejectionReachesShell(t *testing.T) {
	rec := &recordNotifier{}
	c := NewCoordinator(rec)
	sess := core.NewSession("s1", testLayout(3))
	src := camera.NewStillSource(solidImage(10, 10, color.NRGBA{A: 255}))

	if err := c.Capture(sess, src, 7); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Capture with 7s = %v, want ErrInvalidInput", err)
	}
	toasts := rec.toastLog()
	if len(toasts) != 1 || toasts[0] != "error: "+fmt.Sprintf("%v: countdown 7s (choose 3, 5 or 10)", core.ErrInvalidInput) {
		t.Fatalf("rejection toast log = %v", toasts)
	}
}

func TestCapture_ActiveReporting(t *testing.T) {
	rec := &recordNotifier{}
	ch := make(chan time.Time)
	c := newTestCoordinator(rec, ch)
	sess := core.NewSession("s1", testLayout(3))
	src := camera.NewStillSource(solidImage(10, 10, color.NRGBA{A: 255}))

	if c.Active(sess.ID) {
		t.Fatal("idle coordinator reports an active countdown")
	}
	done := make(chan error, 1)
	go func() { done <- c.Capture(sess, src, 3) }()
	for !c.Active(sess.ID) {
		time.Sleep(time.Millisecond)
	}

	// A second capture is rejected while active, and the shell hears it.
	if err := c.Capture(sess, src, 3); !errors.Is(err, core.ErrCountdownActive) {
		t.Fatalf("overlapping Capture = %v, want ErrCountdownActive", err)
	}
	if toasts := rec.toastLog(); len(toasts) != 1 {
		t.Fatalf("overlap rejection toast log = %v", toasts)
	}

	for i := 0; i < 3; i++ {
		ch <- time.Now()
	}
	if err := <-done; err != nil {
		t.Fatalf("first Capture failed: %v", err)
	}
	if c.Active(sess.ID) {
		t.Fatal("coordinator still active after the countdown finished")
	}
}

func TestCapture_RejectsOverlappingCountdown(t *testing.T) {
	rec := &recordNotifier{}
	ch := make(chan time.Time)
	c := newTestCoordinator(rec, ch)
	sess := core.NewSession("s1", testLayout(3))
	src := camera.NewStillSource(solidImage(10, 10, color.NRGBA{A: 255}))

	done := make(chan error, 1)
	go func() { done <- c.Capture(sess, src, 3) }()

	// Wait until the first tick is recorded so the countdown is active.
	for len(rec.tickLog()) == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := c.Capture(sess, src, 3); !errors.Is(err, core.ErrCountdownActive) {
		t.Fatalf("overlapping Capture = %v, want ErrCountdownActive", err)
	}

	for i := 0; i < 3; i++ {
		ch <- time.Now()
	}
	if err := <-done; err != nil {
		t.Fatalf("first Capture failed: %v", err)
	}
	if sess.FrameCount() != 1 {
		t.Fatalf("session has %d frames, want 1", sess.FrameCount())
	}
}
