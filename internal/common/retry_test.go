package common

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return Transient(errors.New("503"))
			}
			return nil
		}, fastRetry())

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		calls := 0
		notFound := errors.New("404 not found")
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(notFound)
		}, fastRetry())

		assert.ErrorIs(t, err, notFound)
		assert.NotErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, fastRetry())

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := fastRetry()
		opts.InitialDelay = time.Second
		err := WithRetry(ctx, func() error {
			return Transient(errors.New("flaky"))
		}, opts)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUserError(t *testing.T) {
	err := MissingInputError("data/reviews.csv", "run `polyreview generate-data` first")

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "data not found at data/reviews.csv (run `polyreview generate-data` first)", userErr.UserMessage)
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(io.Discard, "verbose", "console")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLogger(io.Discard, "info", "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	logger, err := NewLogger(io.Discard, "debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
