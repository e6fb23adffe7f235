package satchel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/satchel-cli/satchel/middleware"
)

func newTestRunner(root *Command) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	r := NewRunner(root)
	var out, errw bytes.Buffer
	r.IO().WithOut(&out).WithErr(&errw).NoColor()
	return r, &out, &errw
}

func TestRunnerExecutesHandler(t *testing.T) {
	root := NewCommand("app", "test app")
	root.Option("name", "n", "who to greet", ExactlyOne)

	var got string
	root.Handle(func(ctx *Context) error {
		got, _ = ctx.String("name")
		return nil
	})

	r, _, _ := newTestRunner(root)
	if err := r.RunWithArgs(context.Background(), []string{"--name", "alice"}); err != nil {
		t.Fatal(err)
	}
	if got != "alice" {
		t.Errorf("handler saw name %q", got)
	}
}

func TestRunnerStopsOnDiagnostics(t *testing.T) {
	root := NewCommand("app", "")
	root.Option("name", "n", "", ExactlyOne)
	ran := false
	root.Handle(func(ctx *Context) error { ran = true; return nil })

	r, _, errw := newTestRunner(root)
	err := r.RunWithArgs(context.Background(), []string{"--bogus"})

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("got %v, want *RunError", err)
	}
	if ran {
		t.Error("handler ran despite diagnostics")
	}
	if !strings.Contains(errw.String(), "unknown option") {
		t.Errorf("stderr = %q", errw.String())
	}
	if !strings.Contains(errw.String(), "Run 'app --help' for usage.") {
		t.Errorf("stderr missing usage hint: %q", errw.String())
	}
}

func TestRunnerTolerant(t *testing.T) {
	root := NewCommand("app", "")
	var seen int
	root.Handle(func(ctx *Context) error {
		seen = len(ctx.Pack.Diagnostics)
		return nil
	})

	r, _, _ := newTestRunner(root)
	r.Tolerant()
	if err := r.RunWithArgs(context.Background(), []string{"--bogus"}); err != nil {
		t.Fatal(err)
	}
	if seen != 1 {
		t.Errorf("handler saw %d diagnostics, want 1", seen)
	}
}

func TestRunnerBuiltinHelp(t *testing.T) {
	root := NewCommand("app", "does things")
	root.Option("name", "n", "who to greet", ExactlyOne)
	root.Handle(func(ctx *Context) error {
		t.Error("handler ran on --help")
		return nil
	})

	r, out, _ := newTestRunner(root)
	if err := r.RunWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Usage:", "app", "--name, -n", "who to greet"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunnerHelpForSubcommandGroup(t *testing.T) {
	root := NewCommand("app", "")
	root.Subcommand("build", "compile things")
	root.Subcommand("clean", "remove artifacts")

	r, out, _ := newTestRunner(root)
	// Root has no handler; usage is the default.
	if err := r.RunWithArgs(context.Background(), []string{"build"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunnerExitCodes(t *testing.T) {
	root := NewCommand("app", "")
	r, _, _ := newTestRunner(root)
	mgr := r.ExitCodes()

	pack := &Pack{Diagnostics: []Diagnostic{{Kind: DiagUnknownOption}}}
	if code := mgr.resolve(&RunError{Pack: pack}); code != 2 {
		t.Errorf("misuse code = %d, want 2", code)
	}

	pack = &Pack{Diagnostics: []Diagnostic{{Kind: DiagResponseFile}}}
	if code := mgr.resolve(&RunError{Pack: pack}); code != 1 {
		t.Errorf("response_file code = %d, want 1", code)
	}

	if code := mgr.resolve(nil); code != 0 {
		t.Errorf("success code = %d, want 0", code)
	}
	if code := mgr.resolve(&ExitError{Code: 42}); code != 42 {
		t.Errorf("requested code = %d, want 42", code)
	}
	if code := mgr.resolve(&middleware.TimeoutError{}); code != 1 {
		t.Errorf("timeout code = %d, want 1", code)
	}
	if code := mgr.resolve(errors.New("anything")); code != 1 {
		t.Errorf("general code = %d, want 1", code)
	}

	mgr.DefineKind(DiagArityViolation, 64)
	pack = &Pack{Diagnostics: []Diagnostic{{Kind: DiagArityViolation}}}
	if code := mgr.resolve(&RunError{Pack: pack}); code != 64 {
		t.Errorf("overridden code = %d, want 64", code)
	}
}

func TestRunnerContextExit(t *testing.T) {
	root := NewCommand("app", "")
	root.Positional("args", ZeroOrMore)
	root.Handle(func(ctx *Context) error {
		ctx.Exit(7)
		return nil
	})

	r, _, _ := newTestRunner(root)
	err := r.RunWithArgs(context.Background(), []string{"run"})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 7 {
		t.Errorf("got %v, want ExitError{7}", err)
	}
}

func TestRunnerMiddlewareWraps(t *testing.T) {
	root := NewCommand("app", "")
	root.Positional("args", ZeroOrMore)
	var order []string
	root.Handle(func(ctx *Context) error {
		order = append(order, "handler")
		return nil
	})

	mw := func(name string) middleware.Middleware {
		return func(next middleware.ActionFunc) middleware.ActionFunc {
			return func(ctx middleware.Context) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	r, _, _ := newTestRunner(root)
	r.Use(mw("outer"), mw("inner"))
	if err := r.RunWithArgs(context.Background(), []string{"x"}); err != nil {
		t.Fatal(err)
	}
	want := "outer,inner,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestRunnerBeforeAfterHooks(t *testing.T) {
	root := NewCommand("app", "")
	root.Positional("args", ZeroOrMore)
	var order []string
	root.Handle(func(ctx *Context) error {
		order = append(order, "handler")
		return nil
	})

	r, _, _ := newTestRunner(root)
	r.Before(func(ctx *Context) error { order = append(order, "before"); return nil })
	r.After(func(ctx *Context) error { order = append(order, "after"); return nil })
	if err := r.RunWithArgs(context.Background(), []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(order, ","); got != "before,handler,after" {
		t.Errorf("order = %s", got)
	}
}

func TestContextAccessors(t *testing.T) {
	root := NewCommand("app", "")
	root.Option("timeout", "t", "", ExactlyOne)
	root.Option("tag", "", "", ZeroOrMore)
	root.Positional("input", ExactlyOne)

	var ctxErr error
	root.Handle(func(ctx *Context) error {
		if d, ok := ctx.Duration("timeout"); !ok || d.String() != "1m30s" {
			t.Errorf("Duration = %v, %v", d, ok)
		}
		if tags, ok := ctx.Strings("tag"); !ok || len(tags) != 2 {
			t.Errorf("Strings = %v, %v", tags, ok)
		}
		if !ctx.Has("tag") || ctx.Has("missing") {
			t.Error("Has misreported")
		}
		pos := ctx.Positional(0)
		if pos == nil || pos.Values[0].Raw != "in.txt" {
			t.Errorf("Positional = %v", pos)
		}
		ctx.Set("k", 1)
		if ctx.Get("k") != 1 {
			t.Error("metadata roundtrip failed")
		}
		ctxErr = ctx.Err()
		return nil
	})

	r, _, _ := newTestRunner(root)
	args := []string{"--timeout", "90s", "--tag", "a", "--tag", "b", "in.txt"}
	if err := r.RunWithArgs(context.Background(), args); err != nil {
		t.Fatal(err)
	}
	if ctxErr != nil {
		t.Errorf("context errored during handler: %v", ctxErr)
	}
}
