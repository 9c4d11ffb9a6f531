package core

import "context"

type (
	// SessionStore is the persistence layer for booth sessions. Frames
	// never outlive the process, so implementations keep everything in
	// memory.
	SessionStore interface {
		Create(ctx context.Context, session *Session) error
		Get(ctx context.Context, id string) (*Session, error)
		Delete(ctx context.Context, id string) error
	}

	// Notifier pushes booth events to the UI shell. The shell renders them
	// as countdown overlays, toasts and print-progress indicators; the
	// core never blocks on it.
	Notifier interface {
		CountdownTick(sessionID string, remaining int)
		FrameAdded(sessionID string, count, want int)
		PrintState(sessionID string, state string)
		Toast(sessionID string, level, message string)
	}

	// NopNotifier discards all events. Used where no UI is attached.
	NopNotifier struct{}
)

func (NopNotifier) CountdownTick(string, int) {}
func (NopNotifier) FrameAdded(string, int, int) {}
func (NopNotifier) PrintState(string, string) {}
func (NopNotifier) Toast(string, string, string) {}
