package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

// Config holds the Redis connection settings for the cursor store.
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// cursorStore keeps the per-identity "last seen" timestamps. Keys are scoped
// by identity id so two users on the same deployment never share cursors.
type cursorStore struct {
	client *redis.Client
}

func NewCursorStore(cfg Config) (repository.CursorStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &cursorStore{client: client}, nil
}

func cursorKey(identityID uuid.UUID, category model.CallCategory) string {
	return fmt.Sprintf("notif:cursor:%s:%s", identityID, category)
}

// Get returns the stored cursor, or the zero time when none has been
// written yet.
func (s *cursorStore) Get(ctx context.Context, identityID uuid.UUID, category model.CallCategory) (time.Time, error) {
	val, err := s.client.Get(ctx, cursorKey(identityID, category)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read cursor: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		// A corrupt cursor is indistinguishable from a missing one.
		return time.Time{}, nil
	}
	return ts, nil
}

func (s *cursorStore) Set(ctx context.Context, identityID uuid.UUID, category model.CallCategory, ts time.Time) error {
	if err := s.client.Set(ctx, cursorKey(identityID, category),
		ts.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to persist cursor: %w", err)
	}
	return nil
}
