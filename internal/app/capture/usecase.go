package capture

import (
	"context"
	"errors"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

var ErrInvalidRequest = errors.New("invalid capture request")

// Mode selects the bookmarking strategy.
type Mode string

const (
	// ModeInline embeds the full token in the locator.
	ModeInline Mode = "inline"
	// ModeServer stores the token out-of-line and references it by identifier.
	ModeServer Mode = "server"
)

type Request struct {
	Exclusions *state.ExclusionSet
}

type Response struct {
	Locator  state.Locator
	Snapshot state.Snapshot
}

// UseCase runs the capture path: read the current input snapshot, filter it,
// encode it, and produce a locator. Any failure aborts without publishing a
// partial locator.
type UseCase struct {
	Runtime   ports.InputRuntime
	Bookmarks ports.BookmarkRepository
	Codec     state.Codec
	Mode      Mode
	Phase     func(ports.Phase)
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Runtime == nil {
		return Response{}, ErrInvalidRequest
	}
	if u.Mode == ModeServer && u.Bookmarks == nil {
		return Response{}, ErrInvalidRequest
	}

	u.enterPhase(ports.PhaseCapturing)
	snap, err := u.Runtime.CurrentInputs(ctx)
	if err != nil {
		return Response{}, err
	}
	if req.Exclusions != nil {
		snap = req.Exclusions.Apply(snap)
	}

	u.enterPhase(ports.PhaseEncoding)
	token, err := u.Codec.Encode(snap)
	if err != nil {
		return Response{}, err
	}

	if u.Mode != ModeServer {
		return Response{Locator: state.InlineLocator(token), Snapshot: snap}, nil
	}

	u.enterPhase(ports.PhaseStoring)
	id, err := u.Bookmarks.Store(ctx, token)
	if err != nil {
		return Response{}, err
	}
	return Response{Locator: state.RefLocator(id), Snapshot: snap}, nil
}

func (u UseCase) enterPhase(p ports.Phase) {
	if u.Phase != nil {
		u.Phase(p)
	}
}
