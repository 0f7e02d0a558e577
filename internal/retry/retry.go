// Package retry polls an operation a bounded number of times at a fixed
// interval until a stop condition holds.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ExhaustedError reports that the stop condition never held.
type ExhaustedError struct {
	Attempts int
	// Err is the error of the last attempt, if it failed.
	Err error
}

func (e *ExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("condition not met after %d attempts: %v", e.Attempts, e.Err)
	}

	return fmt.Sprintf("condition not met after %d attempts", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

var errNotDone = errors.New("stop condition not met")

// Sequence calls op up to limit times, waiting delay between calls, until
// stop returns true for its result. Failed calls are retried like unmet
// conditions. The last successful result is returned in every case, alongside
// an *ExhaustedError when the limit is reached or the context error when ctx
// is done first.
func Sequence[T any](
	ctx context.Context,
	op func(context.Context) (T, error),
	stop func(T) bool,
	limit int,
	delay time.Duration,
) (T, error) {
	if limit < 1 {
		limit = 1
	}

	var (
		last     T
		attempts int
	)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(limit-1)),
		ctx,
	)

	err := backoff.Retry(func() error {
		attempts++

		result, err := op(ctx)
		if err != nil {
			return err
		}

		last = result
		if stop(result) {
			return nil
		}

		return errNotDone
	}, policy)

	switch {
	case err == nil:
		return last, nil
	case ctx.Err() != nil:
		return last, fmt.Errorf("retry sequence interrupted after %d attempts: %w", attempts, ctx.Err())
	case errors.Is(err, errNotDone):
		return last, &ExhaustedError{Attempts: attempts}
	default:
		return last, &ExhaustedError{Attempts: attempts, Err: err}
	}
}
