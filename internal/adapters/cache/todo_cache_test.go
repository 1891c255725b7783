package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todoboard/internal/domain/entities"
)

func newTestCache(t *testing.T, ttl time.Duration) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTodoCache(rdb, ttl), mr
}

func TestTodoCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	_, ok, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	author := int64(4)
	deadline := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	want := []entities.Todo{
		{ID: 2, Name: "b", AuthorID: &author, Deadline: &deadline, Status: entities.StatusDone, CreatedAt: deadline},
		{ID: 1, Name: "a", Status: entities.StatusTodo, CreatedAt: deadline},
	}
	require.NoError(t, c.SetList(ctx, want))

	got, ok, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, cmp.Diff(want, got))
}

func TestTodoCacheEmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, c.SetList(ctx, nil))
	got, ok, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTodoCacheInvalidateAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.SetList(ctx, []entities.Todo{{ID: 1}}))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetList(ctx, []entities.Todo{{ID: 1}}))
	mr.FastForward(2 * time.Minute)
	_, ok, err = c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Ping(ctx))
}
