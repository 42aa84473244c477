package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tazagg "github.com/emptyOVO/tazagg-go"
	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/google/go-cmp/cmp"
)

func TestLocalRunnerEndToEnd(t *testing.T) {
	table, err := taz.BuildTable(map[int64][]int32{
		1: {1},
		2: {1, 3},
		4: {2, 3},
		5: {2, 3, 4},
	}, 6, taz.DefaultWidth)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	dir := t.TempDir()
	shard := filepath.Join(dir, "chunk-00000.txt")
	trips := []taz.Trip{{ID: 1, Nodes: []int64{1, 2, 4, 5}}}
	if err := os.WriteFile(shard, []byte(taz.EncodeTrips(trips)), 0o644); err != nil {
		t.Fatalf("write shard: %v", err)
	}

	out := filepath.Join(dir, "taz-out.txt")
	err = LocalRunner{}.Run(context.Background(), AggregateRunConfig{
		Files:      []string{shard},
		Table:      table,
		Workers:    2,
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("LocalRunner.Run: %v", err)
	}

	got, err := tazagg.ReadHistogram(out)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	want := taz.Histogram{0, 2, 2, 3, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalRunnerRemovesOutputOnAbort(t *testing.T) {
	table, err := taz.BuildTable(map[int64][]int32{1: {1}}, 2, 2)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	dir := t.TempDir()
	shard := filepath.Join(dir, "chunk-00000.txt")
	bad := []taz.Trip{{ID: 1, Nodes: []int64{99}}}
	if err := os.WriteFile(shard, []byte(taz.EncodeTrips(bad)), 0o644); err != nil {
		t.Fatalf("write shard: %v", err)
	}

	out := filepath.Join(dir, "taz-out.txt")
	if err := os.WriteFile(out, []byte("1\t999\n"), 0o644); err != nil {
		t.Fatalf("write stale output: %v", err)
	}

	err = LocalRunner{}.Run(context.Background(), AggregateRunConfig{
		Files:      []string{shard},
		Table:      table,
		OutputPath: out,
	})
	if err == nil {
		t.Fatal("expected abort for out-of-range node")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("stale output still present after abort: %v", statErr)
	}
}

func TestOutputPathForMatchesGlob(t *testing.T) {
	path := outputPathFor("taz-out-*.txt")
	if !strings.HasPrefix(path, "taz-out-") || !strings.HasSuffix(path, ".txt") {
		t.Fatalf("derived path %q does not match glob", path)
	}
	ok, err := filepath.Match("taz-out-*.txt", path)
	if err != nil || !ok {
		t.Fatalf("derived path %q does not satisfy filepath.Match: %v", path, err)
	}
	if outputPathFor("fixed.txt") != "fixed.txt" {
		t.Fatal("glob-free path must pass through unchanged")
	}
}
