package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
)

type mockCmdable struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock}

	snap := Snapshot{
		UserID:    5,
		Cart:      []models.CartLine{{ItemID: 1, Name: "Lẩu", UnitPrice: 100000, Quantity: 2}},
		OrderType: models.OrderTypeTakeaway,
	}
	require.NoError(t, store.Save(ctx, "abc", snap, time.Hour))
	assert.Equal(t, time.Hour, mock.ttls["rg:session:abc"])

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreLoadErrors(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock}

	mock.data["rg:session:bad"] = "{not json"
	_, err := store.Load(ctx, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	mock.failGet = errors.New("connection reset")
	_, err = store.Load(ctx, "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	store := &RedisStore{store: newMockCmdable()}

	first := NewManager(store, time.Hour, nil)
	s := first.Create()
	s.ObserveUser(5)
	require.NoError(t, s.Cart.Add(models.CartLine{ItemID: 1, Name: "Lẩu", UnitPrice: 100000}, 1))
	require.NoError(t, first.Persist(ctx, s))

	// a restarted process has nothing in memory
	second := NewManager(store, time.Hour, nil)
	loaded, err := second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), loaded.Cart.TotalPrice())
	assert.Equal(t, int64(5), loaded.UserID())

	require.NoError(t, second.Destroy(ctx, s.ID))
	_, err = NewManager(store, time.Hour, nil).Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
