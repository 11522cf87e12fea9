package ports

import (
	"context"
	"time"

	"statemark/internal/domain/state"
)

// ChangeBatch groups the input mutations of one propagation batch. The runtime
// delivers one batch per update boundary, so a single user gesture touching
// several inputs arrives as one notification.
type ChangeBatch struct {
	Names []string
	At    time.Time
}

// InputRuntime is the reactive-runtime collaborator the bookmarking core
// borrows input state from.
type InputRuntime interface {
	// CurrentInputs returns a copy of all named input values.
	CurrentInputs(ctx context.Context) (state.Snapshot, error)

	// SetInput writes one input and schedules a change notification.
	SetInput(ctx context.Context, name string, value any) error

	// RestoreInputs writes every snapshot entry without emitting change
	// notifications, so a restore never re-triggers automatic capture.
	RestoreInputs(ctx context.Context, snap state.Snapshot) error

	// Changes delivers batched change notifications for automatic mode.
	Changes() <-chan ChangeBatch
}

// ContainerRegistry exposes container widgets registered under stable names.
// Structural selections (an active tab, a chosen panel) restore only for
// registered names; unregistered names keep their default selection.
type ContainerRegistry interface {
	IsContainer(name string) bool
	SelectContainer(name, selection string) bool
}
