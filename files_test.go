package tazagg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/google/go-cmp/cmp"
)

func writeShards(t *testing.T, trips []taz.Trip, nShards int) []string {
	t.Helper()
	dir := t.TempDir()
	parts := RangePartitioner{}.Split(trips, nShards)
	files := make([]string, 0, len(parts))
	for i, part := range parts {
		path := filepath.Join(dir, "chunk-"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(path, []byte(taz.EncodeTrips(part)), 0o644); err != nil {
			t.Fatalf("write shard: %v", err)
		}
		files = append(files, path)
	}
	return files
}

func TestAggregateFilesMatchesInMemory(t *testing.T) {
	table := testTable(t)
	trips := testTrips()

	want, err := Aggregate(context.Background(), trips, table, JobConfig{Workers: 1, Partitions: 1})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	files := writeShards(t, trips, 3)
	got, err := AggregateFiles(context.Background(), files, table, JobConfig{Workers: 2})
	if err != nil {
		t.Fatalf("AggregateFiles: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("file aggregation diverges (-want +got):\n%s", diff)
	}
}

func TestAggregateFilesMissingFile(t *testing.T) {
	table := testTable(t)
	_, err := AggregateFiles(context.Background(), []string{"no-such-shard.txt"}, table, JobConfig{})
	if err == nil {
		t.Fatal("expected error for missing shard file")
	}
}

func TestHistogramFileRoundTrip(t *testing.T) {
	h := taz.Histogram{0, 2, 2, 3, 1}
	path := filepath.Join(t.TempDir(), "taz-out.txt")
	if err := WriteHistogram(path, h); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	got, err := ReadHistogram(path)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHistogramSkipsSentinelAndZeroBins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taz-out.txt")
	if err := WriteHistogram(path, taz.Histogram{9, 0, 5}); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != "2\t5\n" {
		t.Fatalf("unexpected output: %q", string(raw))
	}
}
