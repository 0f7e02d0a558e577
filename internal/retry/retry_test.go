package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/retry"
)

func counter() (func(context.Context) (int, error), *int) {
	calls := 0

	return func(context.Context) (int, error) {
		calls++

		return calls, nil
	}, &calls
}

func TestSequence_StopsWhenConditionMet(t *testing.T) {
	t.Parallel()

	op, calls := counter()

	got, err := retry.Sequence(context.Background(), op, func(n int) bool { return n == 3 }, 10, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 3, *calls)
}

func TestSequence_FirstAttemptSucceeds(t *testing.T) {
	t.Parallel()

	op, calls := counter()

	got, err := retry.Sequence(context.Background(), op, func(int) bool { return true }, 5, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, *calls)
}

func TestSequence_Exhausted(t *testing.T) {
	t.Parallel()

	op, calls := counter()

	got, err := retry.Sequence(context.Background(), op, func(int) bool { return false }, 4, time.Millisecond)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.NoError(t, exhausted.Err)
	assert.Equal(t, 4, got)
	assert.Equal(t, 4, *calls)
}

func TestSequence_ZeroLimitRunsOnce(t *testing.T) {
	t.Parallel()

	op, calls := counter()

	_, err := retry.Sequence(context.Background(), op, func(int) bool { return false }, 0, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 1, *calls)
}

func TestSequence_RetriesFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("unavailable")
	calls := 0
	op := func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", boom
		}

		return "SUCCEEDED", nil
	}

	got, err := retry.Sequence(context.Background(), op, func(s string) bool { return s == "SUCCEEDED" }, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "SUCCEEDED", got)
	assert.Equal(t, 3, calls)
}

func TestSequence_LastFailureReported(t *testing.T) {
	t.Parallel()

	boom := errors.New("unavailable")
	op := func(context.Context) (string, error) { return "", boom }

	_, err := retry.Sequence(context.Background(), op, func(string) bool { return true }, 2, time.Millisecond)
	require.ErrorIs(t, err, boom)
}

func TestSequence_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	op := func(context.Context) (int, error) {
		calls++
		if calls == 2 {
			cancel()
		}

		return calls, nil
	}

	got, err := retry.Sequence(ctx, op, func(int) bool { return false }, 100, time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, calls)
}
