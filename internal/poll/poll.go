// Package poll re-checks a condition at a fixed pace until it holds or a
// ceiling is reached. It replaces chains of timers that re-fetch a list
// until the server reflects a write.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrGaveUp is returned when the condition never held within the limits.
var ErrGaveUp = errors.New("condition not met before giving up")

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultTimeout  = 5 * time.Second
)

// Options bounds a poll. Zero values take the defaults; MaxAttempts 0 means
// only the timeout applies.
type Options struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Check reports whether the awaited state is reached. An error counts as
// "not yet" and is kept as the reason if polling gives up.
type Check func(ctx context.Context) (bool, error)

// Until runs check immediately and then once per interval until it returns
// true. Cancelling ctx returns ctx.Err(); hitting the timeout or the attempt
// limit returns ErrGaveUp wrapping the last check error, if any.
func Until(ctx context.Context, opts Options, check Check) error {
	opts = opts.withDefaults()

	pollCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)
	var (
		attempts int
		lastErr  error
	)
	for {
		if opts.MaxAttempts > 0 && attempts >= opts.MaxAttempts {
			return gaveUp(attempts, lastErr)
		}
		if err := limiter.Wait(pollCtx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return gaveUp(attempts, lastErr)
		}

		attempts++
		ok, err := check(pollCtx)
		if ok && err == nil {
			return nil
		}
		if err != nil {
			lastErr = err
		}
	}
}

func gaveUp(attempts int, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%w after %d attempts: %w", ErrGaveUp, attempts, lastErr)
	}
	return fmt.Errorf("%w after %d attempts", ErrGaveUp, attempts)
}
