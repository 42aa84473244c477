package taz

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func exampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := BuildTable(map[int64][]int32{
		1: {1},
		2: {1, 3},
		4: {2, 3},
		5: {2, 3, 4},
	}, 6, DefaultWidth)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	return table
}

func TestCountPartitionWorkedExample(t *testing.T) {
	table := exampleTable(t)

	h, err := CountPartition([]Trip{{ID: 1, Nodes: []int64{1, 2, 4, 5}}}, table)
	if err != nil {
		t.Fatalf("CountPartition: %v", err)
	}
	want := Histogram{0, 2, 2, 3, 1}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Fatalf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestCountPartitionExcludesSentinel(t *testing.T) {
	// Node 1 has a single real zone; its remaining slots are padding and
	// must never leak into any bin.
	table := exampleTable(t)

	h, err := CountPartition([]Trip{{ID: 7, Nodes: []int64{1, 1, 1}}}, table)
	if err != nil {
		t.Fatalf("CountPartition: %v", err)
	}
	if h[0] != 0 {
		t.Fatalf("sentinel bin holds %d, want 0", h[0])
	}
	var total int64
	for _, n := range h {
		total += n
	}
	if total != 3 {
		t.Fatalf("expected 3 contributions from 3 visits, got %d", total)
	}
}

func TestCountPartitionEmptyTrip(t *testing.T) {
	table := exampleTable(t)

	h, err := CountPartition([]Trip{{ID: 3}}, table)
	if err != nil {
		t.Fatalf("CountPartition: %v", err)
	}
	for i, n := range h {
		if n != 0 {
			t.Fatalf("empty trip contributed %d to bin %d", n, i)
		}
	}
}

func TestCountPartitionUnlistedNodeContributesNothing(t *testing.T) {
	table := exampleTable(t)

	h, err := CountPartition([]Trip{{ID: 2, Nodes: []int64{0, 3}}}, table)
	if err != nil {
		t.Fatalf("CountPartition: %v", err)
	}
	for i, n := range h {
		if n != 0 {
			t.Fatalf("unlisted nodes contributed %d to bin %d", n, i)
		}
	}
}

func TestCountPartitionOutOfRangeNode(t *testing.T) {
	table := exampleTable(t)

	h, err := CountPartition([]Trip{{ID: 9, Nodes: []int64{1, 6}}}, table)
	var rangeErr *OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if h != nil {
		t.Fatalf("expected no partial histogram on failure, got %v", h)
	}
}
