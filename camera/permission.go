// Package camera models the capture collaborator: the permission lifecycle
// around a live stream and the frame sources the booth core consumes.
package camera

import (
	"fmt"

	"love-booth/core"
)

// PermissionState is a closed tagged union. Transitions go through Apply
// only, so impossible combinations ("granted" and "unavailable" at once)
// cannot be represented.
type PermissionState struct {
	kind    permissionKind
	failMsg string
}

type permissionKind int

const (
	kindPrompt permissionKind = iota
	kindRequesting
	kindGranted
	kindDenied
	kindBlocked
	kindUnavailable
	kindUnsupported
	kindFailed
)

// Events driving the permission machine.
type PermissionEvent int

const (
	EventRequest PermissionEvent = iota
	EventGrant
	EventDeny
	EventBlock
	EventUnavailable
	EventUnsupported
	EventFail
	EventRelease
	EventRetry
)

var (
	Prompt      = PermissionState{kind: kindPrompt}
	Requesting  = PermissionState{kind: kindRequesting}
	Granted     = PermissionState{kind: kindGranted}
	Denied      = PermissionState{kind: kindDenied}
	Blocked     = PermissionState{kind: kindBlocked}
	Unavailable = PermissionState{kind: kindUnavailable}
	Unsupported = PermissionState{kind: kindUnsupported}
)

// Failed carries the underlying error message for the status line.
func Failed(msg string) PermissionState {
	return PermissionState{kind: kindFailed, failMsg: msg}
}

// ParsePermissionEvent maps the wire value reported by the shell to an
// event.
func ParsePermissionEvent(s string) (PermissionEvent, error) {
	switch s {
	case "request":
		return EventRequest, nil
	case "grant":
		return EventGrant, nil
	case "deny":
		return EventDeny, nil
	case "block":
		return EventBlock, nil
	case "unavailable":
		return EventUnavailable, nil
	case "unsupported":
		return EventUnsupported, nil
	case "fail":
		return EventFail, nil
	case "release":
		return EventRelease, nil
	case "retry":
		return EventRetry, nil
	}
	return 0, fmt.Errorf("%w: unknown permission event %q", core.ErrInvalidInput, s)
}

// Apply is the transition function. Illegal transitions return an error and
// leave the caller's state unchanged.
func (s PermissionState) Apply(ev PermissionEvent, msg string) (PermissionState, error) {
	switch ev {
	case EventRequest:
		if s.kind == kindPrompt {
			return Requesting, nil
		}
	case EventGrant:
		if s.kind == kindRequesting {
			return Granted, nil
		}
	case EventDeny:
		if s.kind == kindRequesting {
			return Denied, nil
		}
	case EventBlock:
		if s.kind == kindRequesting {
			return Blocked, nil
		}
	case EventUnavailable:
		if s.kind == kindRequesting {
			return Unavailable, nil
		}
	case EventUnsupported:
		if s.kind == kindPrompt || s.kind == kindRequesting {
			return Unsupported, nil
		}
	case EventFail:
		if s.kind == kindRequesting {
			return Failed(msg), nil
		}
	case EventRelease:
		if s.kind == kindGranted {
			return Prompt, nil
		}
	case EventRetry:
		// Retry is release + re-request, offered only where the user can
		// actually fix the situation in-app.
		if s.CanRetry() {
			return Requesting, nil
		}
	}
	return s, fmt.Errorf("%w: permission event %d in state %q", core.ErrInvalidInput, ev, s.Status())
}

// CanRetry reports whether the UI should offer a retry affordance. Only a
// plain denial or a transient error is retryable in-app; a blocked
// permission needs platform settings.
func (s PermissionState) CanRetry() bool {
	return s.kind == kindDenied || s.kind == kindFailed
}

// Granted reports whether a live stream is held.
func (s PermissionState) IsGranted() bool {
	return s.kind == kindGranted
}

// Err maps the state to the failure taxonomy; nil for non-error states.
func (s PermissionState) Err() error {
	switch s.kind {
	case kindDenied:
		return core.ErrPermissionDenied
	case kindBlocked:
		return core.ErrPermissionBlocked
	case kindUnsupported, kindUnavailable:
		return core.ErrCapabilityUnsupported
	case kindFailed:
		return fmt.Errorf("camera: %s", s.failMsg)
	}
	return nil
}

// Status is the human-readable line the shell renders. Each variant gets a
// distinct message.
func (s PermissionState) Status() string {
	switch s.kind {
	case kindPrompt:
		return "camera access not requested yet"
	case kindRequesting:
		return "requesting camera access"
	case kindGranted:
		return "camera ready"
	case kindDenied:
		return "camera access denied, tap retry to ask again"
	case kindBlocked:
		return "camera access blocked, allow the camera in your settings"
	case kindUnavailable:
		return "no camera available on this device"
	case kindUnsupported:
		return "camera capture is not supported on this platform"
	case kindFailed:
		return "camera error: " + s.failMsg
	}
	return "unknown"
}
