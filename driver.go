package tazagg

import (
	"context"
	"fmt"
	"sync"

	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Partitioner splits the trip collection into disjoint partitions covering
// it exactly once. Implementations must not duplicate or drop trips.
type Partitioner interface {
	Split(trips []taz.Trip, n int) [][]taz.Trip
}

// RangePartitioner cuts the collection into contiguous chunks, preserving
// trip order within each chunk.
type RangePartitioner struct{}

func (RangePartitioner) Split(trips []taz.Trip, n int) [][]taz.Trip {
	if len(trips) == 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > len(trips) {
		n = len(trips)
	}
	step := (len(trips) + n - 1) / n
	parts := make([][]taz.Trip, 0, n)
	for start := 0; start < len(trips); start += step {
		end := start + step
		if end > len(trips) {
			end = len(trips)
		}
		parts = append(parts, trips[start:end])
	}
	return parts
}

// AbortError reports that a partition failed and the whole run was aborted.
// No histogram is produced: partial results are never a valid answer.
type AbortError struct {
	Partition int
	Err       error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("aggregation aborted: partition %d: %v", e.Partition, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// JobConfig tunes one aggregation run.
type JobConfig struct {
	Workers     int
	Partitions  int
	Partitioner Partitioner
}

func (c *JobConfig) withDefaults() {
	if c.Workers <= 0 {
		c.Workers = 16
	}
	if c.Partitions <= 0 {
		c.Partitions = c.Workers
	}
	if c.Partitioner == nil {
		c.Partitioner = RangePartitioner{}
	}
}

// Aggregate runs the full fan-out/fan-in over an in-memory trip collection:
// split into partitions, count each partition independently, merge the
// partial histograms. The caller receives either a complete histogram or the
// first error wrapped in AbortError, never a partial result.
func Aggregate(ctx context.Context, trips []taz.Trip, table *taz.Table, cfg JobConfig) (taz.Histogram, error) {
	cfg.withDefaults()
	parts := cfg.Partitioner.Split(trips, cfg.Partitions)
	return runJob(ctx, len(parts), cfg.Workers, func(i int) (taz.Histogram, error) {
		return taz.CountPartition(parts[i], table)
	})
}

// runJob fans nParts counting invocations out over a worker pool, waits for
// all of them, and merges. Each partial is written to its own slot, so the
// only coordination is the jobs channel and the completion barrier.
func runJob(ctx context.Context, nParts, workers int, count func(int) (taz.Histogram, error)) (taz.Histogram, error) {
	if nParts == 0 {
		return taz.Histogram{}, nil
	}
	if workers > nParts {
		workers = nParts
	}
	if workers < 1 {
		workers = 1
	}

	runID := uuid.New().String()
	log.Infof("[Driver] run %s: %d partitions on %d workers", runID, nParts, workers)

	partials := make([]taz.Histogram, nParts)
	jobs := make(chan int)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				log.Tracef("[Driver] run %s: partition %d start", runID, i)
				h, err := count(i)
				if err != nil {
					select {
					case errCh <- &AbortError{Partition: i, Err: err}:
					default:
					}
					return
				}
				partials[i] = h
				log.Tracef("[Driver] run %s: partition %d done", runID, i)
			}
		}()
	}

	var abortErr error
DISPATCH:
	for i := 0; i < nParts; i++ {
		if err := ctx.Err(); err != nil {
			abortErr = err
			break DISPATCH
		}
		select {
		case abortErr = <-errCh:
			break DISPATCH
		case <-ctx.Done():
			abortErr = ctx.Err()
			break DISPATCH
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if abortErr == nil {
		select {
		case abortErr = <-errCh:
		default:
		}
	}
	if abortErr != nil {
		log.Errorf("[Driver] run %s: %v", runID, abortErr)
		return nil, abortErr
	}

	log.Infof("[Driver] run %s: merging %d partial histograms", runID, nParts)
	return taz.Merge(partials), nil
}
