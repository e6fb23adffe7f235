package satchel

import (
	"context"
	stdio "io"
	"time"

	satchelio "github.com/satchel-cli/satchel/io"
	"github.com/satchel-cli/satchel/middleware"
)

// Context carries one handler invocation: the parse result, the
// runner's I/O, cancellation, and scratch metadata. It satisfies
// middleware.Context.
type Context struct {
	Runner *Runner
	Pack   *Pack

	ctx      context.Context
	cancel   context.CancelFunc
	metadata map[string]any
	rawArgs  []string
}

// Context returns the underlying Go context.
func (c *Context) Context() context.Context { return c.ctx }

// Deadline reports the context deadline, if any.
func (c *Context) Deadline() (time.Time, bool) { return c.ctx.Deadline() }

// Done is closed when the invocation is canceled or times out.
func (c *Context) Done() <-chan struct{} { return c.ctx.Done() }

// Err returns the context error after Done is closed.
func (c *Context) Err() error { return c.ctx.Err() }

// Cancel requests cancellation. Idempotent.
func (c *Context) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Set stores a key/value pair in the invocation metadata.
func (c *Context) Set(key string, value any) {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

// Get retrieves a value stored with Set, or nil.
func (c *Context) Get(key string) any {
	if c.metadata == nil {
		return nil
	}
	return c.metadata[key]
}

// Exit requests the given process exit code and cancels the handler.
// The runner maps the request when the handler returns.
func (c *Context) Exit(code int) {
	c.Set(exitMetadataKey, &ExitError{Code: code})
	c.Cancel()
}

// ExitWithError requests an exit code carrying an underlying error.
func (c *Context) ExitWithError(err error, code int) {
	c.Set(exitMetadataKey, &ExitError{Code: code, Err: err})
	c.Cancel()
}

// IO accessors.
func (c *Context) IO() *satchelio.IOManager { return c.Runner.IO() }
func (c *Context) Stdout() stdio.Writer     { return c.Runner.IO().Out() }
func (c *Context) Stderr() stdio.Writer     { return c.Runner.IO().Err() }
func (c *Context) Stdin() stdio.Reader      { return c.Runner.IO().In() }

// Command returns the resolved command descriptor.
func (c *Context) Command() middleware.Command { return c.Pack.Command }

// Args returns the raw argument vector the parse consumed.
func (c *Context) Args() []string { return c.rawArgs }

// Argument access, delegating to the Pack.

// Has reports whether the named option received at least one value or,
// for zero-arity options, was mentioned at all.
func (c *Context) Has(name string) bool {
	return c.Pack.Argument(name) != nil
}

// String returns the first bound raw value of the named option.
func (c *Context) String(name string) (string, bool) {
	arg := c.Pack.Argument(name)
	if arg == nil || arg.Len() == 0 {
		return "", false
	}
	return arg.Values[0].Raw, true
}

// Strings returns every bound raw value of the named option.
func (c *Context) Strings(name string) ([]string, bool) {
	arg := c.Pack.Argument(name)
	if arg == nil {
		return nil, false
	}
	return arg.Strings(), true
}

// Data returns the converted form of the named option's first value.
// Options without a converter have nil data; use String for the raw
// text.
func (c *Context) Data(name string) (any, bool) {
	arg := c.Pack.Argument(name)
	if arg == nil || arg.Len() == 0 {
		return nil, false
	}
	return arg.Values[0].Data, true
}

// Duration returns the named option's first value as a duration. The
// converted value wins when the converter produced a time.Duration;
// otherwise the raw text is parsed.
func (c *Context) Duration(name string) (time.Duration, bool) {
	arg := c.Pack.Argument(name)
	if arg == nil || arg.Len() == 0 {
		return 0, false
	}
	v := arg.Values[0]
	if d, ok := v.Data.(time.Duration); ok {
		return d, true
	}
	d, err := time.ParseDuration(v.Raw)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Positional returns the argument bound to the command's index-th
// declared positional, counting from zero.
func (c *Context) Positional(index int) *Argument {
	return c.Pack.Positional(index)
}
