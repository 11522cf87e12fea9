package ports

import (
	"context"
	"time"

	"statemark/internal/domain/state"
)

// StoredRecord is one server-mode bookmark: identifier to token, written once,
// never mutated.
type StoredRecord struct {
	ID        string
	Token     state.Token
	CreatedAt time.Time
}

// BookmarkRepository persists tokens out-of-line. Store must yield an
// identifier unique within the store's lifetime, also under concurrent calls
// from other sessions. Resolve must be safe alongside in-progress stores.
type BookmarkRepository interface {
	Store(ctx context.Context, token state.Token) (string, error)
	Resolve(ctx context.Context, id string) (state.Token, error)
}
