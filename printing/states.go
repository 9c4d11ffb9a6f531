package printing

// State is the print session's position in its lifecycle. Idle is reachable
// again from every terminal state.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateConnecting
	StatePrinting
	StateDone
	StateFallbackPrint
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateConnecting:
		return "connecting"
	case StatePrinting:
		return "printing"
	case StateDone:
		return "done"
	case StateFallbackPrint:
		return "fallback-print"
	}
	return "unknown"
}

// inProgress states reject new print requests. No queueing, no cancellation
// of the in-flight one. The fallback counts: it is still rendering and
// opening the dialog on behalf of the first request.
func (s State) inProgress() bool {
	return s == StateScanning || s == StateConnecting ||
		s == StatePrinting || s == StateFallbackPrint
}

// Outcome summarizes one print request for the caller.
type Outcome int

const (
	OutcomePrinted Outcome = iota
	OutcomeFellBack
	OutcomeCancelled
	OutcomeBusy
	OutcomeUnsupported
)

func (o Outcome) String() string {
	switch o {
	case OutcomePrinted:
		return "printed"
	case OutcomeFellBack:
		return "fallback"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeBusy:
		return "busy"
	case OutcomeUnsupported:
		return "unsupported"
	}
	return "unknown"
}
