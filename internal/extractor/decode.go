package extractor

import (
	"context"
	"fmt"
	"time"
)

// decodeTimeout bounds every image/media decode attempt. A variable so
// tests can shorten the deadline.
var decodeTimeout = 5 * time.Second

// runBounded runs fn on its own goroutine and waits for completion, the
// decode deadline, or context cancellation, whichever resolves first. The
// goroutine is left to finish on its own after a timeout; the caller only
// observes field absence.
func runBounded(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: decoder panic: %v", ErrDecodeFailure, r)
			}
		}()
		done <- fn()
	}()

	timer := time.NewTimer(decodeTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return ErrDecodeTimeout
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrDecodeTimeout, ctx.Err())
	}
}
