package tazagg

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emptyOVO/tazagg-go/taz"
)

// AggregateFiles runs the aggregation over trip shard files, treating every
// file as one partition. Shards are decoded inside the counting workers so
// only one shard per worker is resident at a time.
func AggregateFiles(ctx context.Context, files []string, table *taz.Table, cfg JobConfig) (taz.Histogram, error) {
	cfg.withDefaults()
	return runJob(ctx, len(files), cfg.Workers, func(i int) (taz.Histogram, error) {
		raw, err := os.ReadFile(files[i])
		if err != nil {
			return nil, err
		}
		return taz.CountPartition(taz.DecodeTrips(string(raw)), table)
	})
}

// WriteHistogram writes taz_id\tvisits lines for every non-empty bin.
// Bin 0 is the sentinel bin and is never written.
func WriteHistogram(path string, h taz.Histogram) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	for zone := 1; zone < len(h); zone++ {
		if h[zone] == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\n", zone, h[zone]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadHistogram parses a file written by WriteHistogram back into a
// histogram sized to the highest zone present.
func ReadHistogram(path string) (taz.Histogram, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h := taz.Histogram{0}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed histogram line: %q", line)
		}
		zone, err := strconv.Atoi(parts[0])
		if err != nil || zone < 1 {
			return nil, fmt.Errorf("malformed zone id: %q", line)
		}
		visits, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed visit count: %q", line)
		}
		for len(h) <= zone {
			h = append(h, 0)
		}
		h[zone] += visits
	}
	return h, nil
}
