package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  3,
		Jitter:       false,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	wantErr := errors.New("persistent failure")
	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		return wantErr
	})

	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithPredicateStopsOnNonRetryable(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	fatal := errors.New("fatal")
	calls := 0
	err := backoff.RetryWithPredicate(context.Background(), func() error {
		calls++
		return fatal
	}, func(err error) bool {
		return false
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		MaxAttempts:  10,
		Jitter:       false,
	})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := backoff.Retry(ctx, func() error {
		calls++
		return errors.New("keep trying")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestCalculateDelayGrowsAndCaps(t *testing.T) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  10,
		Jitter:       false,
	})

	assert.Equal(t, 10*time.Millisecond, backoff.GetNextDelay(1))
	assert.Equal(t, 20*time.Millisecond, backoff.GetNextDelay(2))
	assert.Equal(t, 40*time.Millisecond, backoff.GetNextDelay(3))
	assert.Equal(t, 50*time.Millisecond, backoff.GetNextDelay(4))
	assert.Equal(t, 50*time.Millisecond, backoff.GetNextDelay(8))
}

func TestCalculateDelayWithJitterStaysInBounds(t *testing.T) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  5,
		Jitter:       true,
	})

	for i := 0; i < 100; i++ {
		delay := backoff.GetNextDelay(2)
		assert.Greater(t, delay, time.Duration(0))
		assert.LessOrEqual(t, delay, 100*time.Millisecond)
	}
}

func TestDefaultBackoffConfig(t *testing.T) {
	cfg := DefaultBackoffConfig()
	assert.Equal(t, 100*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.True(t, cfg.Jitter)
}
