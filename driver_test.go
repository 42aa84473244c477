package tazagg

import (
	"context"
	"errors"
	"testing"

	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/google/go-cmp/cmp"
)

func testTable(t *testing.T) *taz.Table {
	t.Helper()
	table, err := taz.BuildTable(map[int64][]int32{
		1: {1},
		2: {1, 3},
		4: {2, 3},
		5: {2, 3, 4},
	}, 6, taz.DefaultWidth)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	return table
}

func testTrips() []taz.Trip {
	return []taz.Trip{
		{ID: 1, Nodes: []int64{1, 2, 4, 5}},
		{ID: 2, Nodes: []int64{5, 5}},
		{ID: 3, Nodes: []int64{2}},
		{ID: 4, Nodes: nil},
		{ID: 5, Nodes: []int64{4, 1, 1}},
		{ID: 6, Nodes: []int64{3}},
		{ID: 7, Nodes: []int64{5, 2, 1}},
	}
}

func TestAggregatePartitionInvariance(t *testing.T) {
	table := testTable(t)
	trips := testTrips()

	baseline, err := Aggregate(context.Background(), trips, table, JobConfig{Workers: 1, Partitions: 1})
	if err != nil {
		t.Fatalf("single-partition Aggregate: %v", err)
	}

	for _, nParts := range []int{2, 3, 5, 7, 16} {
		got, err := Aggregate(context.Background(), trips, table, JobConfig{Workers: 4, Partitions: nParts})
		if err != nil {
			t.Fatalf("Aggregate with %d partitions: %v", nParts, err)
		}
		if diff := cmp.Diff(baseline, got); diff != "" {
			t.Fatalf("%d partitions diverge from baseline (-want +got):\n%s", nParts, diff)
		}
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	table := testTable(t)
	trips := []taz.Trip{{ID: 1, Nodes: []int64{1, 2, 4, 5}}}

	got, err := Aggregate(context.Background(), trips, table, JobConfig{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := taz.Histogram{0, 2, 2, 3, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateAbortsOnOutOfRange(t *testing.T) {
	table := testTable(t)
	trips := append(testTrips(), taz.Trip{ID: 99, Nodes: []int64{42}})

	h, err := Aggregate(context.Background(), trips, table, JobConfig{Workers: 4, Partitions: 4})
	if h != nil {
		t.Fatalf("expected no histogram on abort, got %v", h)
	}
	var abortErr *AbortError
	if !errors.As(err, &abortErr) {
		t.Fatalf("expected AbortError, got %v", err)
	}
	var rangeErr *taz.OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected wrapped OutOfRangeError, got %v", err)
	}
	if rangeErr.Node != 42 {
		t.Fatalf("unexpected failing node: %d", rangeErr.Node)
	}
}

func TestAggregateCanceledContext(t *testing.T) {
	table := testTable(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := Aggregate(ctx, testTrips(), table, JobConfig{Workers: 2, Partitions: 4})
	if h != nil {
		t.Fatalf("expected no histogram after cancel, got %v", h)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAggregateEmptyCollection(t *testing.T) {
	table := testTable(t)
	h, err := Aggregate(context.Background(), nil, table, JobConfig{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for i, n := range h {
		if n != 0 {
			t.Fatalf("empty collection produced %d in bin %d", n, i)
		}
	}
}

func TestRangePartitionerCoversExactlyOnce(t *testing.T) {
	trips := testTrips()
	for _, n := range []int{1, 2, 3, len(trips), len(trips) * 3} {
		parts := RangePartitioner{}.Split(trips, n)
		var flat []taz.Trip
		for _, p := range parts {
			flat = append(flat, p...)
		}
		if diff := cmp.Diff(trips, flat); diff != "" {
			t.Fatalf("split into %d loses or reorders trips (-want +got):\n%s", n, diff)
		}
	}
}
