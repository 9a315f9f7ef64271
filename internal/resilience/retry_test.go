package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quantmeter/stock-scorecard/internal/errors"
)

func fastRetryConfig(maxAttempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   maxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		Retryable:     apperrors.IsRetryableError,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return apperrors.NewNetworkError("connection reset", nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
		attempts++
		return apperrors.NewValidationError("bad input")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.EqualError(t, err, "bad input")
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
		attempts++
		return apperrors.NewTimeoutError("Request timeout", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.EqualError(t, err, "Request timeout")
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithConfig(ctx, fastRetryConfig(3), func() error {
		return apperrors.NewNetworkError("unreachable", nil)
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	config := RetryConfig{
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      25 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, 10*time.Millisecond, backoffDelay(config, 0))
	assert.Equal(t, 20*time.Millisecond, backoffDelay(config, 1))
	assert.Equal(t, 25*time.Millisecond, backoffDelay(config, 2))
}
