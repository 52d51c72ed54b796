package scan

import (
	"context"
	"errors"
	"time"

	"github.com/shimmeringbee/retry"
)

// callWithRetry wraps a single transport request with the bounded retry
// policy. Delivery and timeout faults are retried up to attempts times, a
// *StatusError aborts immediately and is handed back to the caller.
func callWithRetry[T any](ctx context.Context, timeout time.Duration, attempts int, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	var status error

	err := retry.Retry(ctx, timeout, attempts, func(invokeCtx context.Context) error {
		r, err := op(invokeCtx)
		if err == nil {
			result = r
			return nil
		}

		var se *StatusError
		if errors.As(err, &se) {
			// Not a delivery fault, stop the retry loop.
			status = err
			return nil
		}

		return err
	})

	if status != nil {
		return result, status
	}

	return result, err
}
