package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(maxRetries int) Options {
	return Options{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	var retried []int
	opts := fastOptions(3)
	opts.OnRetry = func(attempt int, err error, sleep time.Duration) {
		retried = append(retried, attempt)
	}

	err := Do(context.Background(), opts, func() error {
		calls++
		if calls < 3 {
			return &HTTPError{StatusCode: 503}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastOptions(5), func() error {
		calls++
		return &HTTPError{StatusCode: 400, Body: []byte("bad request")}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "bad request")
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastOptions(2), func() error {
		calls++
		return &HTTPError{StatusCode: 429, RetryAfter: time.Hour}
	})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 429, he.StatusCode)
	assert.Equal(t, 3, calls)
}

func TestDo_CustomClassifier(t *testing.T) {
	transient := errors.New("transient")
	calls := 0
	opts := fastOptions(1)
	opts.Retryable = func(err error) bool { return errors.Is(err, transient) }

	err := Do(context.Background(), opts, func() error {
		calls++
		return transient
	})
	require.ErrorIs(t, err, transient)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, fastOptions(3), func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestFullJitterSleep_Bounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := FullJitterSleep(attempt, 10*time.Millisecond, 40*time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}
	assert.Zero(t, FullJitterSleep(3, 0, time.Second))
}
