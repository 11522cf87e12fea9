package inmemory

import "sync"

type Snapshot struct {
	BookmarkTotal   uint64            `json:"bookmark_total"`
	Bookmarked      uint64            `json:"bookmarked"`
	Restored        uint64            `json:"restored"`
	Failures        uint64            `json:"failures"`
	ByMode          map[string]uint64 `json:"by_mode"`
	FailuresByStage map[string]uint64 `json:"failures_by_stage"`
}

type Recorder struct {
	mu         sync.Mutex
	bookmarked uint64
	restored   uint64
	failures   uint64
	byMode     map[string]uint64
	byStage    map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byMode:  map[string]uint64{},
		byStage: map[string]uint64{},
	}
}

func (r *Recorder) RecordBookmarked(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookmarked++
	r.byMode[mode]++
}

func (r *Recorder) RecordRestored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restored++
}

func (r *Recorder) RecordFailure(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
	r.byStage[stage]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Bookmarked:      r.bookmarked,
		Restored:        r.restored,
		Failures:        r.failures,
		BookmarkTotal:   r.bookmarked + r.restored + r.failures,
		ByMode:          make(map[string]uint64, len(r.byMode)),
		FailuresByStage: make(map[string]uint64, len(r.byStage)),
	}
	for k, v := range r.byMode {
		out.ByMode[k] = v
	}
	for k, v := range r.byStage {
		out.FailuresByStage[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
