package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/sapphire/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := RetryWithBackoff(context.Background(), operation, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := RetryWithBackoff(context.Background(), operation, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := RetryWithBackoff(context.Background(), operation, 3, time.Millisecond)
	assert.Equal(t, expectedErr, err, "should return the last error")
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	}

	err := RetryWithBackoff(ctx, operation, 10, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts, "should stop when context is canceled")
}

func TestRetryWithBackoff_ContextErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return context.DeadlineExceeded
	}

	err := RetryWithBackoff(context.Background(), operation, 5, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	attempts := 0
	var delays []time.Duration
	lastTime := time.Now()

	operation := func() error {
		attempts++
		if attempts > 1 {
			delays = append(delays, time.Since(lastTime))
		}
		lastTime = time.Now()
		if attempts < 4 {
			return errors.New("error")
		}
		return nil
	}

	err := RetryWithBackoff(context.Background(), operation, 5, 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, delays, 3)

	assert.GreaterOrEqual(t, delays[0], 10*time.Millisecond)
	assert.GreaterOrEqual(t, delays[1], 20*time.Millisecond)
	assert.GreaterOrEqual(t, delays[2], 40*time.Millisecond)
}

func TestRetryWithBackoff_ZeroMaxAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryVectorizer(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := NewRetryVectorizer(nil, 3, time.Millisecond)
		assert.Error(t, err)
		_, err = NewRetryVectorizer(mock.NewMockVectorizer(), 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("recovers from transient errors", func(t *testing.T) {
		inner := mock.NewMockVectorizer()
		direct := mock.NewMockVectorizer()
		inner.WithVectorizeFunc(func(ctx context.Context, tokens []string) ([][]float32, error) {
			if inner.CallCount() < 3 {
				return nil, errors.New("503 service unavailable")
			}
			return direct.Vectorize(ctx, tokens)
		})

		v, err := NewRetryVectorizer(inner, 3, time.Millisecond)
		require.NoError(t, err)

		vectors, err := v.Vectorize(ctx, []string{"the", "cat"})
		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		assert.Equal(t, 3, inner.CallCount())
	})

	t.Run("gives up", func(t *testing.T) {
		inner := mock.NewMockVectorizer().FailOn("zebra")
		v, err := NewRetryVectorizer(inner, 2, time.Millisecond)
		require.NoError(t, err)

		_, err = v.Vectorize(ctx, []string{"zebra"})
		assert.Error(t, err)
		assert.Equal(t, 2, inner.CallCount())
	})
}
