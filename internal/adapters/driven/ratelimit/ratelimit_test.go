package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond}
}

func TestNew_KnownServices(t *testing.T) {
	for service := range Defaults {
		rl := New(service)
		require.NotNil(t, rl)
		assert.Equal(t, service, rl.Service())
		assert.True(t, rl.Allow())
	}
}

func TestNew_UnknownServiceFallsBack(t *testing.T) {
	rl := New(Service("other"))
	assert.True(t, rl.Allow())
}

func TestNewWithConfig_Unlimited(t *testing.T) {
	rl := NewWithConfig(Config{})
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow())
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewWithConfig(Config{RequestsPerSecond: 0.001, BurstSize: 2})

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestRateLimiter_RecordRateLimitError(t *testing.T) {
	rl := NewWithConfig(Config{RequestsPerSecond: 100, BurstSize: 10})

	rl.RecordRateLimitError(time.Hour)

	assert.False(t, rl.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_WaitAfterBackoffExpires(t *testing.T) {
	rl := NewWithConfig(Config{RequestsPerSecond: 100, BurstSize: 10})
	rl.RecordRateLimitError(5 * time.Millisecond)

	require.NoError(t, rl.Wait(context.Background()))
	assert.True(t, rl.Allow())
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), nil, fastPolicy(3),
		func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := Retry(context.Background(), New(ServiceOpenAI), fastPolicy(5),
		func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) error {
			calls++
			return permanent
		})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_Exhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), nil, fastPolicy(2),
		func(error) bool { return true },
		func(context.Context) error {
			calls++
			return errTransient
		})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
}

func TestRetry_CancelledContextReturnsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := Retry(ctx, nil, RetryPolicy{Attempts: 3, BaseDelay: time.Hour},
		func(error) bool { return true },
		func(context.Context) error {
			cancel()
			return errTransient
		})

	assert.ErrorIs(t, err, errTransient)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), nil, RetryPolicy{}, nil, func(context.Context) error {
		calls++
		return errTransient
	})
	assert.Equal(t, 1, calls)
}
