// Package middleware provides composable wrappers around command
// handlers: Logger, Recovery, and Timeout.
package middleware

import (
	"time"
)

// The interfaces here are deliberately narrow so this package does not
// import the parser package; *satchel.Context satisfies Context.

// Context is the runtime surface middleware can rely on.
type Context interface {
	// Done is closed when the handler's context is canceled or times
	// out.
	Done() <-chan struct{}

	// Cancel requests cancellation of the running handler. Idempotent.
	Cancel()

	// Set stores a key/value pair in context metadata. Keys should be
	// namespaced to avoid collisions (e.g. "logger.request_id").
	Set(key string, value any)

	// Get retrieves a value stored via Set, or nil.
	Get(key string) any

	// Args returns the raw argument vector the parse consumed.
	Args() []string

	// String returns the first bound value of the named option and
	// whether the option received any value.
	String(name string) (string, bool)

	// Strings returns every bound value of the named option.
	Strings(name string) ([]string, bool)

	// Duration returns the named option's value as a duration. The
	// converted value is used when the option's converter produced a
	// time.Duration; otherwise the raw text is parsed.
	Duration(name string) (time.Duration, bool)

	// Command returns the resolved command descriptor.
	Command() Command
}

// Command is satisfied by *satchel.Command.
type Command interface {
	Name() string
	Description() string
}

// ActionFunc is the handler signature middleware wraps.
type ActionFunc func(ctx Context) error

// Middleware wraps an ActionFunc with additional behavior.
type Middleware func(next ActionFunc) ActionFunc

// Apply wraps action with this single middleware.
func (m Middleware) Apply(action ActionFunc) ActionFunc {
	return m(action)
}

// MiddlewareChain is an ordered list of middleware.
type MiddlewareChain []Middleware

// Apply wraps action with the chain. The first middleware in the chain
// is the outermost wrapper.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	return append(chain, middleware...)
}

// Chain creates a chain from the provided middleware, preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// TimeoutError reports a handler that exceeded its deadline.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError reports a recovered handler panic.
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// Config controls middleware behavior.

type Config struct {
	LogLevel       LogLevel
	LogOutput      LogOutput
	LogFormat      LogFormat
	IncludeArgs    bool
	PrintStack     bool
	StackSize      int
	DefaultTimeout time.Duration
}

// LogLevel filters log entries.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// LogOutput selects the log destination.
type LogOutput int

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

// LogFormat selects the log entry format.
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

type Option func(config *Config)

func DefaultConfig() *Config {
	return &Config{
		LogLevel:       LogLevelInfo,
		LogOutput:      LogOutputStderr,
		LogFormat:      LogFormatText,
		IncludeArgs:    true,
		PrintStack:     true,
		StackSize:      4096,
		DefaultTimeout: 30 * time.Second,
	}
}

func WithLogLevel(level LogLevel) Option {
	return func(config *Config) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) Option {
	return func(config *Config) {
		config.LogFormat = format
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(config *Config) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) Option {
	return func(config *Config) {
		config.PrintStack = enabled
	}
}

func toString(v any) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "<unknown>"
}

func commandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}
