package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "bookmark:"
	storeAttempts = 3
)

// Open connects a redis client from a redis:// URL and verifies the
// connection.
func Open(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// BookmarkRepo stores one redis string per identifier. TTL is the retention
// knob; zero keeps records forever. SetNX doubles as the uniqueness check.
type BookmarkRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookmarkRepo(client *redis.Client, ttl time.Duration) BookmarkRepo {
	return BookmarkRepo{client: client, ttl: ttl}
}

func (r BookmarkRepo) Store(ctx context.Context, token state.Token) (string, error) {
	for attempt := 0; attempt < storeAttempts; attempt++ {
		id := newBookmarkID()
		ok, err := r.client.SetNX(ctx, keyPrefix+id, string(token), r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store bookmark: %v: %w", err, ports.ErrStorage)
		}
		if !ok {
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("store bookmark: exhausted %d id attempts: %w", storeAttempts, ports.ErrStorage)
}

func (r BookmarkRepo) Resolve(ctx context.Context, id string) (state.Token, error) {
	val, err := r.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("resolve bookmark: %v: %w", err, ports.ErrStorage)
	}
	return state.Token(val), nil
}

func newBookmarkID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
