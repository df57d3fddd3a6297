// Package poll runs a body at a fixed interval until its context is
// cancelled.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the sampling period of both demo programs.
const DefaultInterval = time.Second

// Body is one loop iteration. iteration counts from zero.
type Body func(ctx context.Context, iteration int) error

// Run calls body, sleeps for interval, and repeats. Cancellation is checked
// before every iteration and interrupts the sleep, so no iteration starts
// after ctx is done. It returns the number of completed iterations and the
// first error returned by body.
func Run(ctx context.Context, interval time.Duration, body Body) (int, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTimer(interval)
	defer t.Stop()

	n := 0
	for ctx.Err() == nil {
		if err := body(ctx, n); err != nil {
			return n, err
		}
		n++

		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(interval)
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return n, nil
}
