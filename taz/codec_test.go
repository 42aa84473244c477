package taz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTripCodecRoundTrip(t *testing.T) {
	trips := []Trip{
		{ID: 10, Nodes: []int64{1, 2, 4, 5}},
		{ID: 11, Nodes: []int64{3}},
		{ID: 12, Nodes: []int64{0, 0, 1}},
	}
	got := DecodeTrips(EncodeTrips(trips))
	if diff := cmp.Diff(trips, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTripsSkipsMalformedLines(t *testing.T) {
	raw := "5\t0\t1\nnot-a-line\n5\t1\tseven\n5\t2\t2\n\n6\t0\t9\n"
	got := DecodeTrips(raw)
	want := []Trip{
		{ID: 5, Nodes: []int64{1, 2}},
		{ID: 6, Nodes: []int64{9}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestZoneMapCodecRoundTrip(t *testing.T) {
	zones := map[int64][]int32{
		1: {1},
		2: {1, 3},
		5: {2, 3, 4},
	}
	got := DecodeZoneMap(EncodeZoneMap(zones))
	if diff := cmp.Diff(zones, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeZoneMapSkipsMalformed(t *testing.T) {
	raw := "1\t2,3\nbogus\n2\tx,y\n3\t4, 5\n"
	got := DecodeZoneMap(raw)
	want := map[int64][]int32{
		1: {2, 3},
		3: {4, 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}
