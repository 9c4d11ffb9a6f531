package core

import "errors"

// Failure taxonomy. Every operation boundary converts one of these into
// either a user-facing notification or an automatic fallback; none of them
// is allowed to leave the user without a next action.
var (
	// ErrCapabilityUnsupported means the platform lacks a required feature
	// (camera, wireless peripherals).
	ErrCapabilityUnsupported = errors.New("capability not supported on this platform")

	// ErrPermissionDenied is recoverable via an in-app retry.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPermissionBlocked requires the user to change platform settings.
	ErrPermissionBlocked = errors.New("permission blocked")

	// ErrInvalidInput rejects a whole input batch (wrong photo count,
	// unsupported file type). The user is re-prompted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecodeFailure means a source image could not be decoded.
	ErrDecodeFailure = errors.New("image decode failed")

	// ErrTransportFailure is a peripheral link or write failure. Always
	// recoverable by falling back to the system print dialog.
	ErrTransportFailure = errors.New("peripheral transport failure")

	// ErrPopupBlocked asks the user to allow pop-ups for the fallback
	// print dialog.
	ErrPopupBlocked = errors.New("pop-up blocked")

	// ErrNotFound covers unknown layout IDs and expired sessions.
	ErrNotFound = errors.New("not found")
)

// Flow guards. These are expected-state rejections, not failures.
var (
	// ErrFrameSetComplete rejects captures once the set holds PhotoCount frames.
	ErrFrameSetComplete = errors.New("frame set already complete")

	// ErrFrameSetIncomplete rejects compositing before the set is full.
	ErrFrameSetIncomplete = errors.New("frame set not complete")

	// ErrCountdownActive rejects a capture while another countdown runs.
	ErrCountdownActive = errors.New("countdown already in progress")

	// ErrBusy rejects overlapping export/print requests. No queueing.
	ErrBusy = errors.New("operation already in progress")

	// ErrScanCancelled is the user backing out of device selection.
	// Informational, never surfaced as an error.
	ErrScanCancelled = errors.New("device selection cancelled")
)
