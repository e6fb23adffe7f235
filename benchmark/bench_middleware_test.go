package benchmark_test

import (
	"testing"
	"time"

	"github.com/satchel-cli/satchel/middleware"
)

type benchContext struct {
	done chan struct{}
	meta map[string]any
}

func newBenchContext() *benchContext {
	return &benchContext{done: make(chan struct{}), meta: make(map[string]any)}
}

func (c *benchContext) Done() <-chan struct{}                 { return c.done }
func (c *benchContext) Cancel()                               {}
func (c *benchContext) Set(key string, value any)             { c.meta[key] = value }
func (c *benchContext) Get(key string) any                    { return c.meta[key] }
func (c *benchContext) Args() []string                        { return nil }
func (c *benchContext) String(string) (string, bool)          { return "", false }
func (c *benchContext) Strings(string) ([]string, bool)       { return nil, false }
func (c *benchContext) Duration(string) (time.Duration, bool) { return 0, false }
func (c *benchContext) Command() middleware.Command           { return nil }

func noop(_ middleware.Context) error { return nil }

func BenchmarkChainApply(b *testing.B) {
	chain := middleware.Chain(
		middleware.RecoveryToError(),
		middleware.Logger(middleware.WithLogLevel(middleware.LogLevelNone)),
	)
	ctx := newBenchContext()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		action := chain.Apply(noop)
		_ = action(ctx)
	}
}

func BenchmarkRecoveryOverhead(b *testing.B) {
	action := middleware.RecoveryToError().Apply(noop)
	ctx := newBenchContext()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = action(ctx)
	}
}
