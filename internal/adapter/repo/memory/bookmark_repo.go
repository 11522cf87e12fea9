package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"

	"github.com/google/uuid"
)

// BookmarkRepo keeps stored records in process memory. Suited to tests and
// single-process inline deployments that still want reference locators.
type BookmarkRepo struct {
	mu      sync.RWMutex
	records map[string]ports.StoredRecord
	now     func() time.Time
}

func NewBookmarkRepo() *BookmarkRepo {
	return &BookmarkRepo{
		records: map[string]ports.StoredRecord{},
		now:     time.Now,
	}
}

func (r *BookmarkRepo) Store(ctx context.Context, token state.Token) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := newBookmarkID()
	for {
		if _, exists := r.records[id]; !exists {
			break
		}
		id = newBookmarkID()
	}
	r.records[id] = ports.StoredRecord{ID: id, Token: token, CreatedAt: r.now().UTC()}
	return id, nil
}

func (r *BookmarkRepo) Resolve(ctx context.Context, id string) (state.Token, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return "", ports.ErrNotFound
	}
	return rec.Token, nil
}

func newBookmarkID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
