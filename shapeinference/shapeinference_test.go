package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/mollon650/iree/types/shapes"
)

// Aliases
var (
	I32 = dtypes.Int32
	F32 = dtypes.Float32
	F16 = dtypes.Float16

	S = shapes.Make
	K = shapes.Known
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestInvalidDimIndexSet(t *testing.T) {
	cases := []struct {
		indices []int
		rank    int
		invalid bool
	}{
		{nil, 0, false},
		{[]int{0, 1}, 2, false},
		{[]int{1, 0}, 2, false},
		{[]int{0, 0}, 2, true},
		{[]int{0, 1, 2}, 2, true},
		{[]int{2}, 2, true},
		{[]int{-1}, 2, true},
	}
	for _, c := range cases {
		if got := InvalidDimIndexSet(c.indices, c.rank); got != c.invalid {
			t.Errorf("InvalidDimIndexSet(%v, %d) = %v, want %v", c.indices, c.rank, got, c.invalid)
		}
	}
}

func TestCeilTileCount(t *testing.T) {
	if got := CeilTileCount(K(10), K(3)); !got.Equal(K(4)) {
		t.Errorf("CeilTileCount(10, 3) = %s, want 4", got)
	}
	if got := CeilTileCount(K(9), K(3)); !got.Equal(K(3)) {
		t.Errorf("CeilTileCount(9, 3) = %s, want 3", got)
	}
	if got := CeilTileCount(shapes.Dynamic, K(3)); !got.IsDynamic() {
		t.Errorf("CeilTileCount(?, 3) = %s, want dynamic", got)
	}
	if got := CeilTileCount(K(10), shapes.Dynamic); !got.IsDynamic() {
		t.Errorf("CeilTileCount(10, ?) = %s, want dynamic", got)
	}
}

func TestApplyPermutation(t *testing.T) {
	dims := []shapes.Dim{K(1), K(2), K(3), K(4)}
	got := ApplyPermutation(dims, []int{2, 0, 1, 3})
	want := []shapes.Dim{K(3), K(1), K(2), K(4)}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("ApplyPermutation = %v, want %v", got, want)
		}
	}
	// An empty permutation is the identity, and the input is not mutated.
	identity := ApplyPermutation(dims, nil)
	for i := range dims {
		if !identity[i].Equal(dims[i]) {
			t.Fatalf("empty permutation should be the identity")
		}
	}
	if !dims[0].Equal(K(1)) {
		t.Error("ApplyPermutation should not mutate its input")
	}
}

func TestCheckRank(t *testing.T) {
	if err := CheckRank("query", S(F32, 2, 8, 16), 3); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	err := CheckRank("query", S(F32, 2, 8), 3)
	if err == nil {
		t.Error("expected rank mismatch error, got nil")
	}
}
