package restore

import (
	"context"
	"errors"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

var ErrInvalidRequest = errors.New("invalid restore request")

type Request struct {
	Locator state.Locator
}

type Response struct {
	Snapshot state.Snapshot
}

// UseCase runs the restore path: resolve the locator to a token, decode it,
// and replay the snapshot into the runtime. A failing resolve or decode aborts
// before any input is written, leaving inputs at their defaults.
type UseCase struct {
	Bookmarks ports.BookmarkRepository
	Codec     state.Codec
	Replay    Replayer
	Phase     func(ports.Phase)
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	token := req.Locator.Token
	if !req.Locator.Inline() {
		if u.Bookmarks == nil {
			return Response{}, ErrInvalidRequest
		}
		u.enterPhase(ports.PhaseResolving)
		var err error
		token, err = u.Bookmarks.Resolve(ctx, req.Locator.Ref)
		if err != nil {
			return Response{}, err
		}
	}

	u.enterPhase(ports.PhaseDecoding)
	snap, err := u.Codec.Decode(token)
	if err != nil {
		return Response{}, err
	}

	u.enterPhase(ports.PhaseReplaying)
	if err := u.Replay.Apply(ctx, snap); err != nil {
		return Response{}, err
	}
	return Response{Snapshot: snap}, nil
}

func (u UseCase) enterPhase(p ports.Phase) {
	if u.Phase != nil {
		u.Phase(p)
	}
}
