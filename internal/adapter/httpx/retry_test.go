package httpx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintgate/internal/adapter/httpx"
)

func fastRetryConfig() httpx.RetryConfig {
	return httpx.RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RetriesRetryableError(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return httpx.NewRateLimitError("github", "slow down")
		}
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	authErr := httpx.NewAuthenticationError("gitlab", "bad token")
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return authErr
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, authErr)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return httpx.NewServiceUnavailableError("github", "down")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 4, calls) // initial attempt + 3 retries
}

func TestRetryWithBackoff_GenericErrorNotRetried(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		t.Fatal("operation should not run with cancelled context")
		return nil
	}, fastRetryConfig())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoff_CappedAtMax(t *testing.T) {
	config := httpx.RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2.0,
	}

	for attempt := 0; attempt < 10; attempt++ {
		backoff := httpx.ExponentialBackoff(attempt, config)
		assert.LessOrEqual(t, backoff, 4*time.Second)
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
	}
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, httpx.ShouldRetry(nil))
	assert.False(t, httpx.ShouldRetry(errors.New("plain")))
	assert.True(t, httpx.ShouldRetry(httpx.NewTimeoutError("github", "deadline")))
	assert.False(t, httpx.ShouldRetry(httpx.NewInvalidRequestError("github", "bad")))
}
