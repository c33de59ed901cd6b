package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/learning-portal/internal/domain/course"
	"github.com/alem-hub/learning-portal/pkg/circuitbreaker"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// CourseCache is a read-through course.Repository. Cache failures are logged
// and never surface to callers; the inner repository is the source of truth.
// Misses on unknown ids are not cached. While Redis keeps failing a circuit
// breaker skips it entirely.
type CourseCache struct {
	cache   *Cache
	inner   course.Repository
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewCourseCache wraps inner with a Redis cache. A non-positive ttl falls back
// to TTLCourseCache.
func NewCourseCache(cache *Cache, inner course.Repository, ttl time.Duration, log *logger.Logger) *CourseCache {
	if log == nil {
		log = logger.Discard()
	}
	if ttl <= 0 {
		ttl = TTLCourseCache
	}
	log = log.With(logger.Component("course_cache"))

	breaker := circuitbreaker.CacheBreaker(
		func(err error) bool { return !errors.Is(err, ErrCacheMiss) },
		func(name string, from, to circuitbreaker.State) {
			log.Info("cache circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	)

	return &CourseCache{
		cache:   cache,
		inner:   inner,
		ttl:     ttl,
		breaker: breaker,
		log:     log,
	}
}

// ListSummaries returns the cached listing or loads and caches it.
func (c *CourseCache) ListSummaries(ctx context.Context) ([]course.Summary, error) {
	var cached []course.Summary
	if c.read(ctx, CourseListKey(), &cached) {
		return cached, nil
	}

	summaries, err := c.inner.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	c.write(ctx, CourseListKey(), summaries)
	return summaries, nil
}

// GetByID returns the cached course or loads and caches it.
func (c *CourseCache) GetByID(ctx context.Context, id string) (*course.Course, error) {
	key := CourseKey(id)

	var cached course.Course
	if c.read(ctx, key, &cached) {
		return &cached, nil
	}

	found, err := c.inner.GetByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}

	c.write(ctx, key, found)
	return found, nil
}

// Invalidate drops every cached catalog entry and closes the breaker, so the
// next read goes to Redis again.
func (c *CourseCache) Invalidate(ctx context.Context) error {
	if err := c.cache.DeleteByPattern(ctx, PrefixCourse+"*"); err != nil {
		return err
	}
	c.breaker.Reset()
	return nil
}

// Ping fails while the breaker is open, otherwise it pings Redis.
func (c *CourseCache) Ping(ctx context.Context) error {
	if c.breaker.State() == circuitbreaker.StateOpen {
		return circuitbreaker.ErrCircuitOpen
	}
	return c.cache.Ping(ctx)
}

// read reports whether dest was filled from Redis.
func (c *CourseCache) read(ctx context.Context, key string, dest any) bool {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Get(ctx, key, dest)
	})

	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrCacheMiss):
		c.log.Info("course cache miss", logger.StorageKey(key))
	case circuitbreaker.IsRejection(err):
		c.log.Info("course cache skipped", logger.StorageKey(key), logger.Err(err))
	default:
		c.log.Error("course cache read failed", logger.StorageKey(key), logger.Err(err))
	}
	return false
}

func (c *CourseCache) write(ctx context.Context, key string, value any) {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, key, value, c.ttl)
	})
	if err != nil && !circuitbreaker.IsRejection(err) {
		c.log.Error("course cache write failed", logger.StorageKey(key), logger.Err(err))
	}
}
