package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// Recovery converts handler panics into *RecoveryError results.
func Recovery(options ...Option) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						n := runtime.Stack(stack, false)
						stack = stack[:n]
					}

					recoveryErr := &RecoveryError{
						Panic:   r,
						Command: commandName(ctx),
						Stack:   stack,
					}
					if config.PrintStack && len(stack) > 0 {
						fmt.Fprintf(os.Stderr, "PANIC in command '%s': %v\n", recoveryErr.Command, r)
						fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", stack)
					}
					err = recoveryErr
				}
			}()

			return next(ctx)
		}
	}
}

// RecoveryWithHandler routes recovered panics to a custom handler.
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...Option,
) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						n := runtime.Stack(stack, false)
						stack = stack[:n]
					}
					err = handler(r, commandName(ctx), stack)
				}
			}()

			return next(ctx)
		}
	}
}

// RecoveryToError converts panics to errors without printing stack
// traces. Suitable for production binaries.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}
