package errors

import (
	"context"

	"github.com/cockroachdb/errors"
)

// FromContext converts a done context into a timeout or cancellation error.
// It returns nil while the context is still live.
func FromContext(ctx context.Context, op string) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	return fromContextErr(err, op)
}

// WrapContextErr marks err as a timeout or cancellation when it was caused by
// a done context, and returns nil otherwise.
func WrapContextErr(err error, op string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fromContextErr(err, op)
	default:
		return nil
	}
}

func fromContextErr(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return WithError(err).
			WithHintf("%s did not complete in time", op).
			WithReportableDetails(map[string]any{"operation": op}).
			Mark(ErrTimeout)
	}
	return WithError(err).
		WithHintf("%s was canceled", op).
		WithReportableDetails(map[string]any{"operation": op}).
		Mark(ErrCanceled)
}
