package batch

import (
	"context"
	"fmt"
	"os"
	"sync"

	tazagg "github.com/emptyOVO/tazagg-go"
	log "github.com/sirupsen/logrus"
)

// LocalRunner executes the aggregation in-process on a goroutine pool, one
// partition per shard file.
type LocalRunner struct{}

var localRuntimeMu sync.Mutex

func (LocalRunner) Run(ctx context.Context, cfg AggregateRunConfig) error {
	if len(cfg.Files) == 0 {
		return nil
	}
	if cfg.Table == nil {
		return fmt.Errorf("lookup table is required")
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	localRuntimeMu.Lock()
	defer localRuntimeMu.Unlock()

	h, err := tazagg.AggregateFiles(ctx, cfg.Files, cfg.Table, tazagg.JobConfig{Workers: cfg.Workers})
	if err != nil {
		// The run aborted; make sure a stale output from a previous run
		// cannot be mistaken for this one's result.
		_ = os.Remove(cfg.OutputPath)
		log.Errorf("[LocalRunner] aggregation aborted: %v", err)
		return err
	}
	return tazagg.WriteHistogram(cfg.OutputPath, h)
}
