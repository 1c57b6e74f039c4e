package care

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WithRetry runs fn up to attempts times, sleeping base, 2*base, 4*base, ...
// between attempts. Only ErrOverloaded is retried; any other error returns
// immediately. When the final attempt still reports overload the result is
// ErrExhausted. The sleep function is injectable so tests can verify the
// schedule without waiting.
func WithRetry(ctx context.Context, attempts int, base time.Duration, sleep func(time.Duration), fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	delay := base
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrOverloaded) {
			return err
		}
		if attempt == attempts {
			break
		}
		// Abort early if the caller is gone instead of sleeping for them.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sleep(delay)
		delay *= 2
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrExhausted, attempts, err)
}
