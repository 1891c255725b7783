package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/ports"
)

const keyList = "todoboard:todos:list"

// TodoCache keeps the full todo list in Redis so restarted or sibling instances skip the store round trip.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

var _ ports.TodoCache = (*TodoCache)(nil)

// GetList returns the cached list. ok is false on a miss.
func (c *TodoCache) GetList(ctx context.Context) ([]entities.Todo, bool, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	list := []entities.Todo{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// SetList stores the list in cache.
func (c *TodoCache) SetList(ctx context.Context, list []entities.Todo) error {
	if list == nil {
		list = []entities.Todo{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list.
func (c *TodoCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}

// Ping reports whether Redis is reachable.
func (c *TodoCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
