package taz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeZeroExtends(t *testing.T) {
	got := Merge([]Histogram{
		{0, 3},
		{0, 1, 4, 2},
		{0, 0, 1},
	})
	want := Histogram{0, 4, 5, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	a := Histogram{0, 1, 2}
	b := Histogram{0, 5}
	c := Histogram{0, 0, 0, 7}

	forward := Merge([]Histogram{a, b, c})
	backward := Merge([]Histogram{c, b, a})
	if diff := cmp.Diff(forward, backward); diff != "" {
		t.Fatalf("merge depends on order (-forward +backward):\n%s", diff)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("expected empty histogram, got %v", got)
	}
}
