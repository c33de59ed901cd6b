package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/fixture"
	"github.com/alem-hub/learning-portal/pkg/circuitbreaker"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// unreachableCache points at a port nothing listens on, so every command
// fails fast with a dial error.
func unreachableCache(t *testing.T) *Cache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:lms_user", SessionKey("lms_user"))
	assert.Equal(t, "course:c1", CourseKey("c1"))
	assert.Equal(t, "course:list", CourseListKey())
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "cache.internal"
	cfg.DB = 2

	opts := cfg.Options()
	assert.Equal(t, "cache.internal:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestCache_RejectsEmptyKeyAndNegativeTTL(t *testing.T) {
	c := unreachableCache(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.SetRaw(ctx, "", []byte("x"), 0), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.SetRaw(ctx, "k", []byte("x"), -time.Second), ErrCacheInvalidTTL)
	_, err := c.GetRaw(ctx, "")
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)
}

func TestSessionStorage_BackendDownIsStorageUnavailable(t *testing.T) {
	s := NewSessionStorage(unreachableCache(t), 24*time.Hour)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "lms_user")
	assert.False(t, found)
	assert.ErrorIs(t, err, shared.ErrStorageUnavailable)

	assert.ErrorIs(t, s.Set(ctx, "lms_user", []byte(`{"username":"a"}`)), shared.ErrStorageUnavailable)
	assert.ErrorIs(t, s.Remove(ctx, "lms_user"), shared.ErrStorageUnavailable)
	assert.Error(t, s.Ping(ctx))
}

func TestCourseCache_FallsBackToInnerWhenRedisDown(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelInfo})
	cc := NewCourseCache(unreachableCache(t), fixture.NewRepository(), 0, log)
	ctx := context.Background()
	assert.Equal(t, TTLCourseCache, cc.ttl)

	summaries, err := cc.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 6)

	c1, err := cc.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Equal(t, "c1", c1.ID)

	missing, err := cc.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.Contains(t, buf.String(), "course cache read failed")
	assert.Contains(t, buf.String(), "cache circuit state changed")

	// with the circuit open Redis is no longer called
	again, err := cc.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", again.ID)
	assert.Contains(t, buf.String(), "course cache skipped")
	assert.ErrorIs(t, cc.Ping(ctx), circuitbreaker.ErrCircuitOpen)

	// invalidation needs Redis, so the breaker stays open
	assert.Error(t, cc.Invalidate(ctx))
	assert.ErrorIs(t, cc.Ping(ctx), circuitbreaker.ErrCircuitOpen)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry logger.Entry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Contains(t, []string{"info", "error"}, entry.Level, line)
	}
}
