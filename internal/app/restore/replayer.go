package restore

import (
	"context"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

// Replayer injects a decoded snapshot back into the reactive input space.
// Writes go through RestoreInputs, which emits no change notifications, so a
// replay never triggers another automatic capture. Snapshot entries naming a
// registered container re-select its active child; unregistered names keep
// their default selection.
type Replayer struct {
	Runtime    ports.InputRuntime
	Containers ports.ContainerRegistry
}

func (r Replayer) Apply(ctx context.Context, snap state.Snapshot) error {
	if r.Runtime == nil {
		return ErrInvalidRequest
	}
	if err := r.Runtime.RestoreInputs(ctx, snap); err != nil {
		return err
	}
	if r.Containers == nil {
		return nil
	}
	for name, v := range snap {
		selection, ok := v.(string)
		if !ok || !r.Containers.IsContainer(name) {
			continue
		}
		r.Containers.SelectContainer(name, selection)
	}
	return nil
}
