package restore

import (
	"context"
	"errors"
	"testing"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

func mustToken(t *testing.T, snap state.Snapshot) state.Token {
	t.Helper()
	token, err := state.Codec{}.Encode(snap)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	return token
}

func TestUseCase_InlineRestoreWritesInputs(t *testing.T) {
	snap := state.Snapshot{"omega": 1.0, "delta": 1.5708}
	rt := newFakeRuntime()
	uc := UseCase{Replay: Replayer{Runtime: rt}}

	out, err := uc.Execute(context.Background(), Request{Locator: state.InlineLocator(mustToken(t, snap))})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !out.Snapshot.Equal(snap) {
		t.Fatalf("snapshot mismatch: %v", out.Snapshot)
	}
	if !rt.inputs.Equal(snap) {
		t.Fatalf("runtime inputs mismatch: %v", rt.inputs)
	}
}

func TestUseCase_RefRestoreResolvesToken(t *testing.T) {
	snap := state.Snapshot{"omega": 2.0}
	repo := &fakeRepo{tokens: map[string]state.Token{"id-1": mustToken(t, snap)}}
	rt := newFakeRuntime()
	uc := UseCase{Bookmarks: repo, Replay: Replayer{Runtime: rt}}

	out, err := uc.Execute(context.Background(), Request{Locator: state.RefLocator("id-1")})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !out.Snapshot.Equal(snap) {
		t.Fatalf("snapshot mismatch: %v", out.Snapshot)
	}
}

func TestUseCase_DanglingRefLeavesInputsUntouched(t *testing.T) {
	repo := &fakeRepo{tokens: map[string]state.Token{}}
	rt := newFakeRuntime()
	uc := UseCase{Bookmarks: repo, Replay: Replayer{Runtime: rt}}

	_, err := uc.Execute(context.Background(), Request{Locator: state.RefLocator("nonexistent")})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(rt.inputs) != 0 {
		t.Fatalf("inputs written after failed resolve: %v", rt.inputs)
	}
}

func TestUseCase_MalformedTokenLeavesInputsUntouched(t *testing.T) {
	rt := newFakeRuntime()
	uc := UseCase{Replay: Replayer{Runtime: rt}}

	_, err := uc.Execute(context.Background(), Request{Locator: state.InlineLocator("!!!not-a-token!!!")})
	if !errors.Is(err, state.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	if len(rt.inputs) != 0 {
		t.Fatalf("inputs written after failed decode: %v", rt.inputs)
	}
}

func TestReplayer_ReselectsRegisteredContainer(t *testing.T) {
	snap := state.Snapshot{"tabset": "tabA", "omega": 1.0}
	rt := newFakeRuntime()
	rt.containers["tabset"] = "tabDefault"
	uc := UseCase{Replay: Replayer{Runtime: rt, Containers: rt}}

	if _, err := uc.Execute(context.Background(), Request{Locator: state.InlineLocator(mustToken(t, snap))}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if rt.containers["tabset"] != "tabA" {
		t.Fatalf("container not reselected: %v", rt.containers)
	}
}

func TestReplayer_UnregisteredContainerKeepsDefault(t *testing.T) {
	snap := state.Snapshot{"othertabs": "tabB"}
	rt := newFakeRuntime()
	rt.containers["tabset"] = "tabDefault"
	uc := UseCase{Replay: Replayer{Runtime: rt, Containers: rt}}

	if _, err := uc.Execute(context.Background(), Request{Locator: state.InlineLocator(mustToken(t, snap))}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if rt.containers["tabset"] != "tabDefault" {
		t.Fatalf("default selection lost: %v", rt.containers)
	}
	if len(rt.containers) != 1 {
		t.Fatalf("unregistered container created: %v", rt.containers)
	}
}

type fakeRuntime struct {
	inputs     state.Snapshot
	containers map[string]string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{inputs: state.Snapshot{}, containers: map[string]string{}}
}

func (r *fakeRuntime) CurrentInputs(_ context.Context) (state.Snapshot, error) {
	return r.inputs.Clone(), nil
}

func (r *fakeRuntime) SetInput(_ context.Context, name string, value any) error {
	r.inputs[name] = value
	return nil
}

func (r *fakeRuntime) RestoreInputs(_ context.Context, snap state.Snapshot) error {
	for k, v := range snap.Clone() {
		r.inputs[k] = v
	}
	return nil
}

func (r *fakeRuntime) Changes() <-chan ports.ChangeBatch {
	return nil
}

func (r *fakeRuntime) IsContainer(name string) bool {
	_, ok := r.containers[name]
	return ok
}

func (r *fakeRuntime) SelectContainer(name, selection string) bool {
	if _, ok := r.containers[name]; !ok {
		return false
	}
	r.containers[name] = selection
	return true
}

type fakeRepo struct {
	tokens map[string]state.Token
}

func (r *fakeRepo) Store(_ context.Context, _ state.Token) (string, error) {
	return "", ports.ErrStorage
}

func (r *fakeRepo) Resolve(_ context.Context, id string) (state.Token, error) {
	token, ok := r.tokens[id]
	if !ok {
		return "", ports.ErrNotFound
	}
	return token, nil
}
