package satchel

import (
	"context"
	"errors"
	"fmt"
	"os"

	satchelio "github.com/satchel-cli/satchel/io"
	"github.com/satchel-cli/satchel/middleware"
)

// Handler is the function a command executes once its arguments are
// parsed.
type Handler func(*Context) error

// RunError reports a parse that produced diagnostics. The full Pack is
// attached; Error summarizes it.
type RunError struct {
	Pack *Pack
}

func (e *RunError) Error() string {
	switch len(e.Pack.Diagnostics) {
	case 0:
		return "argument parsing failed"
	case 1:
		return e.Pack.Diagnostics[0].String()
	default:
		return fmt.Sprintf("%d problems found while parsing arguments", len(e.Pack.Diagnostics))
	}
}

// Runner executes a command tree: parse, report diagnostics, then run
// the resolved command's handler wrapped in middleware.
type Runner struct {
	root     *Command
	parser   *Parser
	io       *satchelio.IOManager
	logger   *satchelio.Logger
	exits    *ExitCodeManager
	chain    middleware.MiddlewareChain
	before   Handler
	after    Handler
	tolerant bool
	noHelp   bool
	helpWire bool
}

// NewRunner creates a runner for the given root command.
func NewRunner(root *Command) *Runner {
	m := satchelio.New()
	return &Runner{
		root:   root,
		parser: NewParser(root),
		io:     m,
		logger: satchelio.NewLogger(m),
	}
}

// Use appends middleware to the handler chain.
func (r *Runner) Use(mw ...middleware.Middleware) *Runner {
	r.chain = r.chain.Use(mw...)
	return r
}

// Before sets a hook run before the handler.
func (r *Runner) Before(h Handler) *Runner { r.before = h; return r }

// After sets a hook run after the handler.
func (r *Runner) After(h Handler) *Runner { r.after = h; return r }

// DisableHelp turns off the built-in --help/-h option.
func (r *Runner) DisableHelp() *Runner { r.noHelp = true; return r }

// Tolerant runs the handler even when parsing produced diagnostics.
// The handler can inspect Pack.Diagnostics itself. Without this, any
// diagnostic stops execution with a *RunError.
func (r *Runner) Tolerant() *Runner { r.tolerant = true; return r }

// IO returns the runner's IOManager for fluent configuration.
func (r *Runner) IO() *satchelio.IOManager { return r.io }

// Logger returns the runner's logger.
func (r *Runner) Logger() *satchelio.Logger { return r.logger }

// ExitCodes returns the exit-code manager for overrides.
func (r *Runner) ExitCodes() *ExitCodeManager {
	if r.exits == nil {
		r.exits = newExitCodeManager()
	}
	return r.exits
}

// Run parses os.Args and executes the resolved handler.
func (r *Runner) Run() error {
	return r.RunContext(context.Background())
}

// RunContext runs with a parent context for cancellation.
func (r *Runner) RunContext(ctx context.Context) error {
	return r.RunWithArgs(ctx, os.Args[1:])
}

// RunWithArgs runs with an explicit argument vector.
func (r *Runner) RunWithArgs(ctx context.Context, args []string) error {
	r.wireHelp()
	pack := r.parser.Parse(args)

	if len(pack.Diagnostics) > 0 {
		r.reportDiagnostics(pack)
		if !r.tolerant {
			r.hintUsage(pack.Command)
			return &RunError{Pack: pack}
		}
	}

	if !r.noHelp && pack.Argument("help") != nil {
		return r.ShowHelp(pack.Command)
	}

	handler := pack.Command.Handler
	if handler == nil {
		// No handler: render usage, which is the useful default for
		// commands that only group subcommands.
		return r.ShowHelp(pack.Command)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	execCtx := &Context{
		Runner:   r,
		Pack:     pack,
		ctx:      runCtx,
		cancel:   cancel,
		metadata: make(map[string]any),
		rawArgs:  args,
	}

	if r.before != nil {
		if err := r.before(execCtx); err != nil {
			return err
		}
	}

	action := r.chain.Apply(func(mctx middleware.Context) error {
		return handler(mctx.(*Context))
	})
	actionErr := action(execCtx)

	// An exit requested through the context wins over the returned
	// error.
	if ee, ok := execCtx.Get(exitMetadataKey).(*ExitError); ok && ee != nil {
		actionErr = ee
	}

	if r.after != nil {
		if err := r.after(execCtx); err != nil && actionErr == nil {
			actionErr = err
		}
	}

	return actionErr
}

// RunAndGetExitCode executes the runner and maps the result through
// ExitCodes. Useful for embedding in main() without os.Exit.
func (r *Runner) RunAndGetExitCode() int {
	err := r.Run()
	if err != nil {
		var runErr *RunError
		var exitErr *ExitError
		silent := errors.As(err, &runErr) ||
			(errors.As(err, &exitErr) && exitErr.Err == nil)
		if !silent {
			// Diagnostics were already reported; anything else gets
			// one line here.
			r.logger.Error("%v", err)
		}
	}
	return r.ExitCodes().resolve(err)
}

// RunAndExit executes the runner and terminates the process.
func (r *Runner) RunAndExit() {
	os.Exit(r.RunAndGetExitCode())
}

func (r *Runner) reportDiagnostics(pack *Pack) {
	for _, d := range pack.Diagnostics {
		r.logger.Error("%s", d.String())
	}
}

func (r *Runner) hintUsage(cmd *Command) {
	if r.noHelp {
		return
	}
	fmt.Fprintf(r.io.Err(), "Run '%s --help' for usage.\n", cmd.Path())
}

// wireHelp adds the built-in help option to every command in the tree
// that does not already declare one. Runs once per runner.
func (r *Runner) wireHelp() {
	if r.noHelp || r.helpWire {
		return
	}
	r.helpWire = true
	addHelp(r.root)
}

func addHelp(cmd *Command) {
	if cmd.lookup("help") == nil && cmd.lookup("h") == nil {
		cmd.Option("help", "h", "show help and exit", Zero)
	}
	for _, sub := range cmd.subcommands {
		addHelp(sub)
	}
}
