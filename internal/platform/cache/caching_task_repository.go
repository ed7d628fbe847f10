// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// DefaultTTL is used when a non-positive TTL is given.
const DefaultTTL = 5 * time.Minute

// CachingTaskRepository decorates a TaskRepository with Redis caching.
// List and Search are read-through. Cached entries live under a generation
// number that every successful write bumps, so an entry filled from a read
// that raced a write is never served after that write returns.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb disables caching.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns the ordered task list, from cache when possible.
func (c *CachingTaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	return c.readThrough(ctx, "list", c.inner.List)
}

// Search returns tasks matching term, from cache when possible.
func (c *CachingTaskRepository) Search(ctx context.Context, term string) ([]entity.Task, error) {
	return c.readThrough(ctx, "search:"+safe(term), func(ctx context.Context) ([]entity.Task, error) {
		return c.inner.Search(ctx, term)
	})
}

func (c *CachingTaskRepository) Create(ctx context.Context, t *entity.Task) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingTaskRepository) UpdateText(ctx context.Context, id uint, text string) error {
	if err := c.inner.UpdateText(ctx, id, text); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingTaskRepository) SetCompleted(ctx context.Context, id uint, completed bool) error {
	if err := c.inner.SetCompleted(ctx, id, completed); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingTaskRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingTaskRepository) Reorder(ctx context.Context, ids []uint) error {
	if err := c.inner.Reorder(ctx, ids); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// readThrough checks the cache first then falls back to load.
func (c *CachingTaskRepository) readThrough(ctx context.Context, suffix string, load func(context.Context) ([]entity.Task, error)) ([]entity.Task, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load(ctx)
	}

	// 0) Resolve the current generation; bypass the cache if Redis is failing
	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("task cache generation lookup failed", "namespace", c.namespace, "error", err)
		return load(ctx)
	}
	key := c.entryKey(gen, suffix)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Task
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// invalidate bumps the generation so entries cached before the write are no
// longer read. They expire with their TTL. Failures are logged, not returned.
func (c *CachingTaskRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.generationKey()).Err(); err != nil {
		slog.Warn("task cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

// generation returns the current cache generation. A missing counter is generation 0.
func (c *CachingTaskRepository) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CachingTaskRepository) generationKey() string {
	return c.namespace + ":gen"
}

func (c *CachingTaskRepository) entryKey(gen int64, suffix string) string {
	return c.namespace + ":" + strconv.FormatInt(gen, 10) + ":" + suffix
}

// safe escapes a search term so it cannot split the key on ':'.
func safe(s string) string {
	return url.QueryEscape(s)
}
