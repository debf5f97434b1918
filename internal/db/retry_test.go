package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	failures := 0

	err := withRetry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return boom
	}, func(attempt int, err error) {
		failures++
		assert.Equal(t, failures, attempt)
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, failures)
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := withRetry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetryMinimumOneAttempt(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
