package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

var ErrClosed = errors.New("runtime closed")

type Config struct {
	// BatchWindow is the propagation batch boundary: writes landing inside one
	// window coalesce into a single change notification.
	BatchWindow time.Duration
	Buffer      int
	Now         func() time.Time
}

func DefaultConfig() Config {
	return Config{
		BatchWindow: 50 * time.Millisecond,
		Buffer:      16,
		Now:         time.Now,
	}
}

// Runtime is an in-process reactive input space implementing
// ports.InputRuntime and ports.ContainerRegistry. Input writes are coalesced
// per batch window; restores bypass notification entirely.
type Runtime struct {
	cfg Config

	mu         sync.Mutex
	inputs     state.Snapshot
	containers map[string]string
	pending    map[string]struct{}
	timer      *time.Timer
	closed     bool

	changes chan ports.ChangeBatch
}

func New(cfg Config) *Runtime {
	def := DefaultConfig()
	if cfg.BatchWindow <= 0 {
		cfg.BatchWindow = def.BatchWindow
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Runtime{
		cfg:        cfg,
		inputs:     state.Snapshot{},
		containers: map[string]string{},
		pending:    map[string]struct{}{},
		changes:    make(chan ports.ChangeBatch, cfg.Buffer),
	}
}

func (r *Runtime) CurrentInputs(_ context.Context) (state.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.inputs.Clone(), nil
}

func (r *Runtime) SetInput(_ context.Context, name string, value any) error {
	if name == "" {
		return errors.New("empty input name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.inputs[name] = value
	r.pending[name] = struct{}{}
	if r.timer == nil {
		r.timer = time.AfterFunc(r.cfg.BatchWindow, r.flush)
	}
	return nil
}

func (r *Runtime) RestoreInputs(_ context.Context, snap state.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	for k, v := range snap.Clone() {
		r.inputs[k] = v
	}
	return nil
}

func (r *Runtime) Changes() <-chan ports.ChangeBatch {
	return r.changes
}

func (r *Runtime) RegisterContainer(name, defaultSelection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[name] = defaultSelection
}

func (r *Runtime) IsContainer(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.containers[name]
	return ok
}

func (r *Runtime) SelectContainer(name, selection string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.containers[name]; !ok {
		return false
	}
	r.containers[name] = selection
	return true
}

func (r *Runtime) ContainerSelection(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sel, ok := r.containers[name]
	return sel, ok
}

// Close stops batching and closes the change stream.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	close(r.changes)
}

func (r *Runtime) flush() {
	r.mu.Lock()
	if r.closed || len(r.pending) == 0 {
		r.timer = nil
		r.mu.Unlock()
		return
	}
	names := make([]string, 0, len(r.pending))
	for name := range r.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	r.pending = map[string]struct{}{}
	r.timer = nil
	batch := ports.ChangeBatch{Names: names, At: r.cfg.Now()}
	r.mu.Unlock()

	// The buffer absorbs bursts; a consumer lagging past it misses batches
	// rather than blocking input writes.
	select {
	case r.changes <- batch:
	default:
	}
}
