package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"statemark/internal/app/capture"
	"statemark/internal/app/ports"
	"statemark/internal/app/restore"
	"statemark/internal/domain/state"

	"github.com/rs/zerolog"
)

const defaultStoreTimeout = 5 * time.Second

type Config struct {
	Mode         capture.Mode
	StoreTimeout time.Duration
	Exclude      []string
	Log          *zerolog.Logger
}

// Controller owns the lifecycle of bookmark operations for one application
// session: the exclusion set, the capture and restore state machines, listener
// dispatch, and automatic capture. Operations never overlap; a trigger while
// another operation is in flight is rejected with ErrBusy.
type Controller struct {
	mu         sync.Mutex
	phase      ports.Phase
	sealed     bool
	exclusions *state.ExclusionSet
	listeners  []ports.Listener

	capture capture.UseCase
	restore restore.UseCase
	runtime ports.InputRuntime
	metrics ports.BookmarkMetrics
	cfg     Config
	log     zerolog.Logger
}

func New(runtime ports.InputRuntime, containers ports.ContainerRegistry, bookmarks ports.BookmarkRepository, metrics ports.BookmarkMetrics, cfg Config) *Controller {
	if cfg.Mode == "" {
		cfg.Mode = capture.ModeInline
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	log := zerolog.Nop()
	if cfg.Log != nil {
		log = *cfg.Log
	}
	c := &Controller{
		phase:      ports.PhaseIdle,
		exclusions: state.NewExclusionSet(cfg.Exclude...),
		runtime:    runtime,
		metrics:    metrics,
		cfg:        cfg,
		log:        log,
	}
	c.capture = capture.UseCase{
		Runtime:   runtime,
		Bookmarks: bookmarks,
		Mode:      cfg.Mode,
		Phase:     c.setPhase,
	}
	c.restore = restore.UseCase{
		Bookmarks: bookmarks,
		Replay:    restore.Replayer{Runtime: runtime, Containers: containers},
		Phase:     c.setPhase,
	}
	return c
}

// Exclude registers input names to omit from snapshots. The set seals at the
// first capture; later calls fail with ErrSealed.
func (c *Controller) Exclude(names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return ports.ErrSealed
	}
	c.exclusions.Exclude(names...)
	return nil
}

// Subscribe registers a listener. Listeners fire in subscription order, only
// after an operation completed successfully.
func (c *Controller) Subscribe(l ports.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) Phase() ports.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Bookmark runs one capture operation and returns the resulting locator.
func (c *Controller) Bookmark(ctx context.Context) (state.Locator, error) {
	excl, err := c.begin(ports.PhaseCapturing, true)
	if err != nil {
		return state.Locator{}, err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	defer cancel()
	resp, err := c.capture.Execute(opCtx, capture.Request{Exclusions: excl})
	if err != nil {
		return state.Locator{}, c.abort(err)
	}
	if err := ctx.Err(); err != nil {
		// Session terminated mid-operation: abandon, no callback.
		c.finish()
		return state.Locator{}, err
	}

	c.setPhase(ports.PhaseNotifying)
	for _, l := range c.subscribers() {
		l.OnBookmarked(resp.Locator)
	}
	c.finish()
	if c.metrics != nil {
		c.metrics.RecordBookmarked(string(c.cfg.Mode))
	}
	return resp.Locator, nil
}

// Restore resolves a locator, decodes it, and replays the snapshot.
func (c *Controller) Restore(ctx context.Context, loc state.Locator) (state.Snapshot, error) {
	if _, err := c.begin(ports.PhaseResolving, false); err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	defer cancel()
	resp, err := c.restore.Execute(opCtx, restore.Request{Locator: loc})
	if err != nil {
		return nil, c.abort(err)
	}
	if err := ctx.Err(); err != nil {
		c.finish()
		return nil, err
	}

	c.setPhase(ports.PhaseNotifying)
	for _, l := range c.subscribers() {
		l.OnRestored(resp.Snapshot)
	}
	c.finish()
	if c.metrics != nil {
		c.metrics.RecordRestored()
	}
	return resp.Snapshot, nil
}

// Run drives automatic mode: every change batch from the runtime triggers one
// capture. Batches arriving while a capture is in flight are dropped, so one
// user gesture yields one bookmark operation. Returns when ctx is done or the
// change stream closes.
func (c *Controller) Run(ctx context.Context) error {
	if c.runtime == nil {
		return capture.ErrInvalidRequest
	}
	ch := c.runtime.Changes()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := c.Bookmark(ctx); err != nil {
				if errors.Is(err, ports.ErrBusy) || errors.Is(err, context.Canceled) {
					continue
				}
				c.log.Warn().Err(err).Strs("inputs", batch.Names).Msg("automatic bookmark failed")
			}
		}
	}
}

// begin claims the state machine for one operation. Only a capture seals the
// exclusion set; restores leave it mutable.
func (c *Controller) begin(start ports.Phase, seal bool) (*state.ExclusionSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != ports.PhaseIdle {
		return nil, ports.ErrBusy
	}
	c.phase = start
	if seal {
		c.sealed = true
	}
	return c.exclusions, nil
}

// abort returns to Idle without dispatching listeners and normalizes the error.
func (c *Controller) abort(err error) error {
	stage := string(c.Phase())
	c.finish()
	if c.metrics != nil {
		c.metrics.RecordFailure(stage)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s deadline expired: %w", stage, ports.ErrStorage)
	}
	return err
}

func (c *Controller) finish() {
	c.setPhase(ports.PhaseIdle)
}

func (c *Controller) setPhase(p ports.Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

func (c *Controller) subscribers() []ports.Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.Listener, len(c.listeners))
	copy(out, c.listeners)
	return out
}
