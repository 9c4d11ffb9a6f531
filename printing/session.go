package printing

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"love-booth/compositor"
	"love-booth/core"
)

type (
	// FallbackPrinter opens the system print dialog pathway with a freshly
	// generated composite, returning the URL of the print view context.
	FallbackPrinter interface {
		Open(boothID string, composite []byte) (url string, err error)
	}

	// Result is what one print request came to.
	Result struct {
		Outcome     Outcome `json:"outcome"`
		FallbackURL string  `json:"fallbackUrl,omitempty"`
	}

	// Session drives the print state machine. It owns at most one
	// peripheral link at a time and keeps the peripheral reference across
	// prints so a still-live link is reused without rescanning.
	Session struct {
		id       string
		adapter  Adapter
		fallback FallbackPrinter
		notify   core.Notifier

		mu         sync.Mutex
		state      State
		peripheral Peripheral
	}
)

func NewSession(adapter Adapter, fallback FallbackPrinter, notify core.Notifier) *Session {
	return &Session{
		id:       uuid.NewString(),
		adapter:  adapter,
		fallback: fallback,
		notify:   notify,
		state:    StateIdle,
	}
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(boothID string, next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"print_session": s.id,
		"booth_id":      boothID,
		"state":         next.String(),
	}).Info("Print state")
	s.notify.PrintState(boothID, next.String())
}

// Print runs one print request for a completed booth session.
//
// The composite is regenerated here; there is no cache shared with export.
// Requests while a print is in progress are ignored (OutcomeBusy). A
// platform without peripheral support fails immediately with no state
// change. Everything past a successful scan degrades to the system print
// dialog instead of failing.
func (s *Session) Print(ctx context.Context, booth *core.Session) (Result, error) {
	s.mu.Lock()
	if s.state.inProgress() {
		s.mu.Unlock()
		return Result{Outcome: OutcomeBusy}, nil
	}
	peripheral := s.peripheral
	reuse := peripheral != nil && peripheral.Connected()
	if !reuse && !s.adapter.Supported() {
		s.mu.Unlock()
		return Result{Outcome: OutcomeUnsupported}, core.ErrCapabilityUnsupported
	}
	// Claim the machine before releasing the lock.
	if reuse {
		s.state = StatePrinting
	} else {
		s.state = StateScanning
	}
	s.mu.Unlock()

	if !reuse {
		s.notify.PrintState(booth.ID, StateScanning.String())
		p, err := s.adapter.RequestPeripheral(ctx)
		if err != nil {
			if errors.Is(err, core.ErrScanCancelled) {
				s.setState(booth.ID, StateIdle)
				s.notify.Toast(booth.ID, "info", "printer selection cancelled")
				return Result{Outcome: OutcomeCancelled}, nil
			}
			// Straight into the fallback; the busy guard stays up for
			// the whole attempt.
			return s.fallBack(booth, nil, err)
		}
		peripheral = p

		s.setState(booth.ID, StateConnecting)
		if err := peripheral.Connect(ctx); err != nil {
			return s.fallBack(booth, nil, err)
		}
		s.setState(booth.ID, StatePrinting)
	} else {
		s.notify.PrintState(booth.ID, StatePrinting.String())
	}

	s.mu.Lock()
	s.peripheral = peripheral
	s.mu.Unlock()

	composite, err := compositor.Render(booth.Frames(), booth.Layout, booth.ColorMode())
	if err != nil {
		s.teardown(peripheral, booth.ID)
		s.setState(booth.ID, StateIdle)
		return Result{}, err
	}

	writable, err := findWritable(peripheral)
	if err != nil {
		s.teardown(peripheral, booth.ID)
		return s.fallBack(booth, composite, err)
	}
	if err := writeChunks(writable, composite); err != nil {
		s.teardown(peripheral, booth.ID)
		return s.fallBack(booth, composite, err)
	}

	// All chunks written: tear the link down, keep the reference.
	s.teardown(peripheral, booth.ID)
	s.setState(booth.ID, StateDone)
	s.setState(booth.ID, StateIdle)
	s.notify.Toast(booth.ID, "success", "sent to printer")
	return Result{Outcome: OutcomePrinted}, nil
}

func (s *Session) teardown(p Peripheral, boothID string) {
	if err := p.Disconnect(); err != nil {
		logrus.WithFields(logrus.Fields{
			"print_session": s.id,
			"booth_id":      boothID,
			"error":         err,
		}).Warn("Peripheral disconnect failed")
	}
}

// fallBack routes to the system print dialog. The overall operation is
// satisfied once the dialog context opens; only a suppressed pop-up (or a
// render failure) surfaces as an error.
func (s *Session) fallBack(booth *core.Session, composite []byte, cause error) (Result, error) {
	logrus.WithFields(logrus.Fields{
		"print_session": s.id,
		"booth_id":      booth.ID,
		"cause":         cause,
	}).Warn("Peripheral print failed, using system dialog")

	s.setState(booth.ID, StateFallbackPrint)
	defer s.setState(booth.ID, StateIdle)

	if composite == nil {
		var err error
		composite, err = compositor.Render(booth.Frames(), booth.Layout, booth.ColorMode())
		if err != nil {
			return Result{}, err
		}
	}

	url, err := s.fallback.Open(booth.ID, composite)
	if err != nil {
		return Result{Outcome: OutcomeFellBack}, err
	}
	s.notify.Toast(booth.ID, "info", "opening system print dialog")
	return Result{Outcome: OutcomeFellBack, FallbackURL: url}, nil
}
