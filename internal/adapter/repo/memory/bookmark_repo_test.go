package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"
)

func TestBookmarkRepo_StoreAndResolve(t *testing.T) {
	repo := NewBookmarkRepo()
	ctx := context.Background()

	id, err := repo.Store(ctx, state.Token("T"))
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if id == "" {
		t.Fatalf("empty identifier")
	}

	token, err := repo.Resolve(ctx, id)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if token != "T" {
		t.Fatalf("token mismatch: %q", token)
	}

	if _, err := repo.Resolve(ctx, "nonexistent"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkRepo_ConcurrentStoresYieldDistinctIDs(t *testing.T) {
	repo := NewBookmarkRepo()
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Store(ctx, state.Token("T"))
			if err != nil {
				t.Errorf("Store error: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
	for id := range seen {
		if _, err := repo.Resolve(ctx, id); err != nil {
			t.Fatalf("Resolve %q: %v", id, err)
		}
	}
}

func TestBookmarkRepo_CancelledContext(t *testing.T) {
	repo := NewBookmarkRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Store(ctx, state.Token("T")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
