package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "rg:session:"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps session snapshots in Redis as JSON with a sliding TTL.
type RedisStore struct {
	store cmdable
	raw   *redis.Client
}

// NewRedisStore connects to redisURL and verifies connectivity.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func (r *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	raw, err := r.store.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &snap, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, snap Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", id, err)
	}
	return r.store.Set(ctx, r.key(id), string(payload), ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.store.Del(ctx, r.key(id)).Err()
}

// Ping checks the connection; used by the readiness probe.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
