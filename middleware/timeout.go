package middleware

import (
	"context"
	"time"
)

// Timeout enforces a deadline on handler execution. The handler runs
// in a goroutine; on timeout the context is canceled and a
// *TimeoutError is returned. A handler that ignores Done() keeps its
// goroutine alive until it returns on its own.
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			parent := context.Background()
			if c, ok := any(ctx).(interface{ Context() context.Context }); ok {
				parent = c.Context()
			}
			timeoutCtx, cancel := context.WithTimeout(parent, duration)
			defer cancel()

			resultChan := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						resultChan <- &RecoveryError{
							Panic:   r,
							Command: commandName(ctx),
						}
					}
				}()
				resultChan <- next(ctx)
			}()

			select {
			case err := <-resultChan:
				return err
			case <-timeoutCtx.Done():
				ctx.Cancel()
				return &TimeoutError{
					Duration: duration,
					Command:  commandName(ctx),
				}
			case <-ctx.Done():
				return context.Canceled
			}
		}
	}
}

// TimeoutWithDefault uses the config's default timeout.
func TimeoutWithDefault(options ...Option) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return Timeout(config.DefaultTimeout)
}

// DynamicTimeout computes the deadline at runtime from the Context.
// A non-positive duration runs the handler without a deadline.
func DynamicTimeout(timeoutFunc func(ctx Context) time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			duration := timeoutFunc(ctx)
			if duration <= 0 {
				return next(ctx)
			}
			return Timeout(duration)(next)(ctx)
		}
	}
}

// TimeoutFromOption reads the deadline from a named option of the
// parsed command line, falling back to defaultTimeout when the option
// was not given.
func TimeoutFromOption(name string, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if duration, ok := ctx.Duration(name); ok {
			return duration
		}
		return defaultTimeout
	})
}
