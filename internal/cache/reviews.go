// Package cache puts Redis in front of the public review reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/repository"
)

const (
	keyPrefix     = "reviewlar:reviews:"
	generationKey = keyPrefix + "gen"
)

// ReviewCache is a read-through cache over a ReviewRepository. Every write
// bumps a generation number that is part of each cache key, which retires
// all cached reads at once. Redis failures are logged and the read falls
// through to the repository.
type ReviewCache struct {
	inner  repository.ReviewRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ repository.ReviewRepository = (*ReviewCache)(nil)

// NewReviewCache wraps inner. Entries expire after ttl even without writes.
func NewReviewCache(inner repository.ReviewRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReviewCache {
	return &ReviewCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *ReviewCache) List(ctx context.Context) ([]domain.Review, error) {
	return readThrough(ctx, c, "all", func() ([]domain.Review, error) {
		return c.inner.List(ctx)
	})
}

func (c *ReviewCache) ListByCategory(ctx context.Context, category string) ([]domain.Review, error) {
	return readThrough(ctx, c, "category:"+category, func() ([]domain.Review, error) {
		return c.inner.ListByCategory(ctx, category)
	})
}

func (c *ReviewCache) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	return readThrough(ctx, c, "slug:"+slug, func() (*domain.Review, error) {
		return c.inner.GetBySlug(ctx, slug)
	})
}

func (c *ReviewCache) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return readThrough(ctx, c, "id:"+id, func() (*domain.Review, error) {
		return c.inner.GetByID(ctx, id)
	})
}

// Count is not cached; only the dashboard asks for it.
func (c *ReviewCache) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}

func (c *ReviewCache) Create(ctx context.Context, r *domain.Review) error {
	if err := c.inner.Create(ctx, r); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *ReviewCache) Update(ctx context.Context, r *domain.Review) error {
	if err := c.inner.Update(ctx, r); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *ReviewCache) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate retires every cached read.
func (c *ReviewCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate review cache", slog.String("error", err.Error()))
	}
}

func (c *ReviewCache) key(ctx context.Context, suffix string) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get generation: %w", err)
	}
	return fmt.Sprintf("%s%d:%s", keyPrefix, gen, suffix), nil
}

func readThrough[T any](ctx context.Context, c *ReviewCache, suffix string, load func() (T, error)) (T, error) {
	key, err := c.key(ctx, suffix)
	if err != nil {
		c.logger.WarnContext(ctx, "review cache unavailable", slog.String("error", err.Error()))
		return load()
	}

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "review cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "review cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return v, nil
}
