// Package export turns a finished booth session into a downloadable file.
// An export either succeeds completely or reports a plain failure; nothing
// escapes its boundary.
package export

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"love-booth/compositor"
	"love-booth/core"
)

// Result describes a delivered export. URL is empty for delivery
// strategies that save directly (kiosk).
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
}

// Exporter renders and delivers composites, one at a time: an in-flight
// export suppresses new requests until it completes or fails.
type Exporter struct {
	inflight atomic.Bool
	deliver  Deliverer
	now      func() time.Time
}

func NewExporter(deliver Deliverer) *Exporter {
	return &Exporter{deliver: deliver, now: time.Now}
}

// Filename builds the timestamp-qualified download name.
func Filename(now time.Time) string {
	return fmt.Sprintf("love-booth-%d.png", now.UnixMilli())
}

// InFlight reports whether an export is currently running.
func (e *Exporter) InFlight() bool {
	return e.inflight.Load()
}

// Export regenerates the composite for the session's current color mode and
// delivers it exactly once. All failures (overlap, incomplete set, render
// or delivery errors) come back as ok=false; nothing panics past here.
func (e *Exporter) Export(sess *core.Session) (Result, bool) {
	if !e.inflight.CompareAndSwap(false, true) {
		logrus.WithField("session_id", sess.ID).Warn("Export already in flight, request dropped")
		return Result{}, false
	}
	defer e.inflight.Store(false)

	log := logrus.WithField("session_id", sess.ID)

	data, err := compositor.Render(sess.Frames(), sess.Layout, sess.ColorMode())
	if err != nil {
		log.WithField("error", err).Error("Export render failed")
		return Result{}, false
	}

	filename := Filename(e.now())
	url, err := e.deliver.Deliver(filename, data)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err, "filename": filename}).Error("Export delivery failed")
		return Result{}, false
	}

	log.WithFields(logrus.Fields{"filename": filename, "bytes": len(data)}).Info("Export delivered")
	return Result{Filename: filename, URL: url}, true
}
