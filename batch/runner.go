package batch

import (
	"context"

	"github.com/emptyOVO/tazagg-go/taz"
)

// AggregateRunConfig describes a runtime invocation of the parallel counter.
type AggregateRunConfig struct {
	Files      []string
	Table      *taz.Table
	Workers    int
	OutputPath string
}

// Runner abstracts the execution substrate behind the aggregation: it must
// count every shard file exactly once and write the merged histogram to
// OutputPath, or fail without leaving a partial result behind.
type Runner interface {
	Run(ctx context.Context, cfg AggregateRunConfig) error
}

var defaultRunner Runner = LocalRunner{}

// SetDefaultRunner overrides the process-wide runtime strategy.
func SetDefaultRunner(r Runner) {
	if r == nil {
		return
	}
	defaultRunner = r
}

// DefaultRunner returns the current process-wide runtime strategy.
func DefaultRunner() Runner {
	return defaultRunner
}

// RunAggregation executes the aggregation through the configured runner.
func RunAggregation(ctx context.Context, cfg AggregateRunConfig) error {
	return DefaultRunner().Run(ctx, cfg)
}
