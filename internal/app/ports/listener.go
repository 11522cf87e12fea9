package ports

import "statemark/internal/domain/state"

// Listener observes completed bookmark operations. Callbacks fire only after
// the full capture or restore path succeeded, in subscription order.
type Listener interface {
	OnBookmarked(loc state.Locator)
	OnRestored(snap state.Snapshot)
}

// Phase names one step of the controller state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCapturing Phase = "capturing"
	PhaseEncoding  Phase = "encoding"
	PhaseStoring   Phase = "storing"
	PhaseResolving Phase = "resolving"
	PhaseDecoding  Phase = "decoding"
	PhaseReplaying Phase = "replaying"
	PhaseNotifying Phase = "notifying"
)
