package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(n int) *Retrier {
	return New(WithMaxAttempts(n), WithInitialDelay(time.Millisecond), WithMaxDelay(time.Millisecond), WithJitter(0))
}

func TestRetrier_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := fast(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_ReturnsLastErrorWhenExhausted(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := fast(2).Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRetrier_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("bad config")
	calls := 0
	err := fast(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(bad)
	})

	assert.Equal(t, bad, err)
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestRetrier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := fast(3).Do(ctx, func(context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetrier_OnRetryCallback(t *testing.T) {
	var attempts []int
	r := New(WithMaxAttempts(3), WithInitialDelay(time.Millisecond), WithJitter(0),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) { attempts = append(attempts, attempt) }))

	_ = r.Do(context.Background(), func(context.Context) error { return errors.New("x") })
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestCalculateDelay_CapsAtMax(t *testing.T) {
	r := New(WithInitialDelay(100*time.Millisecond), WithMaxDelay(250*time.Millisecond), WithJitter(0))

	assert.Equal(t, 100*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 250*time.Millisecond, r.calculateDelay(3))
}

func TestDoWithData(t *testing.T) {
	v, err := DoWithData(context.Background(), fast(2), func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
