package taz

import (
	"errors"
	"testing"
)

func TestBuildTablePadsRows(t *testing.T) {
	table, err := BuildTable(map[int64][]int32{
		2: {5, 9},
		4: {3},
	}, 6, 4)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table.Nodes() != 6 || table.Width() != 4 {
		t.Fatalf("unexpected shape: %d x %d", table.Nodes(), table.Width())
	}
	if table.MaxZone() != 9 {
		t.Fatalf("expected max zone 9, got %d", table.MaxZone())
	}

	row, err := table.Row(2)
	if err != nil {
		t.Fatalf("Row(2): %v", err)
	}
	want := []int32{5, 9, Sentinel, Sentinel}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("row 2 slot %d: got %d, want %d", i, row[i], want[i])
		}
	}
}

func TestBuildTableUnlistedNodeIsAllSentinel(t *testing.T) {
	table, err := BuildTable(map[int64][]int32{1: {2}}, 4, 3)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	row, err := table.Row(3)
	if err != nil {
		t.Fatalf("Row(3): %v", err)
	}
	for i, z := range row {
		if z != Sentinel {
			t.Fatalf("slot %d of unlisted node is %d, want sentinel", i, z)
		}
	}
}

func TestBuildTableDerivesNodeBound(t *testing.T) {
	table, err := BuildTable(map[int64][]int32{9: {1}}, 0, 2)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table.Nodes() != 10 {
		t.Fatalf("expected derived bound 10, got %d", table.Nodes())
	}
}

func TestBuildTableRejectsWideListing(t *testing.T) {
	_, err := BuildTable(map[int64][]int32{0: {1, 2, 3}}, 1, 2)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for wide listing, got %v", err)
	}
	if cfgErr.Node != 0 {
		t.Fatalf("unexpected node in error: %d", cfgErr.Node)
	}
}

func TestBuildTableRejectsNodeOutsideBound(t *testing.T) {
	_, err := BuildTable(map[int64][]int32{7: {1}}, 5, 2)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for out-of-bound node, got %v", err)
	}
}

func TestBuildTableRejectsReservedZone(t *testing.T) {
	_, err := BuildTable(map[int64][]int32{1: {0}}, 2, 2)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for reserved zone id, got %v", err)
	}
}

func TestRowOutOfRange(t *testing.T) {
	table, err := BuildTable(map[int64][]int32{0: {1}}, 2, 2)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	_, err = table.Row(2)
	var rangeErr *OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if rangeErr.Node != 2 || rangeErr.Limit != 2 {
		t.Fatalf("unexpected error fields: %+v", rangeErr)
	}
}
