package shapeinference

import (
	"testing"
)

func TestWinogradInputShape(t *testing.T) {
	// kernelSize=3, outputTileSize=4 so inputTileSize=6. Each 10-wide
	// image axis yields ⌈(10-3+1)/4⌉ = 2 tiles.
	nhwc := must1(WinogradInputShape(S(F32, 1, 10, 10, 3), []int{1, 2}, 3, 4))
	if want := S(F32, 6, 6, 1, 2, 2, 3); !nhwc.Equal(want) {
		t.Errorf("nhwc input transform = %s, want %s", nhwc, want)
	}

	// Channel-first input produces the same transformed layout, channels
	// last.
	nchw := must1(WinogradInputShape(S(F32, 1, 3, 10, 10), []int{2, 3}, 3, 4))
	if !nchw.Equal(nhwc) {
		t.Errorf("nchw input transform = %s, want %s", nchw, nhwc)
	}

	// Dynamic axes pass through as dynamic.
	dynamic := must1(WinogradInputShape(S(F32, -1, 10, 10, 3), []int{1, 2}, 3, 4))
	if want := S(F32, 6, 6, -1, 2, 2, 3); !dynamic.Equal(want) {
		t.Errorf("dynamic input transform = %s, want %s", dynamic, want)
	}

	// Rank-2 single tile form.
	tile := must1(WinogradInputShape(S(F32, 6, 6), nil, 3, 4))
	if want := S(F32, 6, 6); !tile.Equal(want) {
		t.Errorf("rank-2 input transform = %s, want %s", tile, want)
	}

	if _, err := WinogradInputShape(S(F32, 1, 10, 10, 3), []int{0, 1}, 3, 4); err == nil {
		t.Error("expected error for unsupported image dimensions, got nil")
	}
	if _, err := WinogradInputShape(S(F32, 10, 10, 3), []int{1, 2}, 3, 4); err == nil {
		t.Error("expected error for rank-3 input, got nil")
	}
}

func TestWinogradFilterShape(t *testing.T) {
	hwcf := must1(WinogradFilterShape(S(F32, 3, 3, 64, 128), []int{0, 1}, 3, 4))
	if want := S(F32, 6, 6, 64, 128); !hwcf.Equal(want) {
		t.Errorf("hwcf filter transform = %s, want %s", hwcf, want)
	}

	// FCHW filters permute so the output channels axis comes last.
	fchw := must1(WinogradFilterShape(S(F32, 128, 64, 3, 3), []int{2, 3}, 3, 4))
	if !fchw.Equal(hwcf) {
		t.Errorf("fchw filter transform = %s, want %s", fchw, hwcf)
	}

	tile := must1(WinogradFilterShape(S(F32, 3, 3), nil, 3, 4))
	if want := S(F32, 6, 6); !tile.Equal(want) {
		t.Errorf("rank-2 filter transform = %s, want %s", tile, want)
	}

	if _, err := WinogradFilterShape(S(F32, 3, 3, 64, 128), []int{1, 2}, 3, 4); err == nil {
		t.Error("expected error for unsupported kernel dimensions, got nil")
	}
}

func TestWinogradOutputShape(t *testing.T) {
	// The inverse of the input transform test: consume the two tile axes
	// and scale the image axes by the output tile size.
	nhwc := must1(WinogradOutputShape(S(F32, 6, 6, 1, 2, 2, 3), []int{1, 2}, 4))
	if want := S(F32, 1, 8, 8, 3); !nhwc.Equal(want) {
		t.Errorf("nhwc output transform = %s, want %s", nhwc, want)
	}

	nchw := must1(WinogradOutputShape(S(F32, 6, 6, 1, 2, 2, 3), []int{2, 3}, 4))
	if want := S(F32, 1, 3, 8, 8); !nchw.Equal(want) {
		t.Errorf("nchw output transform = %s, want %s", nchw, want)
	}

	tile := must1(WinogradOutputShape(S(F32, 6, 6), nil, 4))
	if want := S(F32, 4, 4); !tile.Equal(want) {
		t.Errorf("rank-2 output transform = %s, want %s", tile, want)
	}

	if _, err := WinogradOutputShape(S(F32, 6, 6, 1, 2, 2, 3), []int{0, 1}, 4); err == nil {
		t.Error("expected error for unsupported image dimensions, got nil")
	}
	if _, err := WinogradOutputShape(S(F16, 6, 1, 2, 2, 3), []int{1, 2}, 4); err == nil {
		t.Error("expected error for rank-5 input, got nil")
	}
}

func TestWinogradLayoutPredicates(t *testing.T) {
	if !IsNhwc([]int{1, 2}) || IsNhwc([]int{2, 3}) {
		t.Error("IsNhwc should accept exactly [1, 2]")
	}
	if !IsNchw([]int{2, 3}) || IsNchw([]int{1, 2}) {
		t.Error("IsNchw should accept exactly [2, 3]")
	}
	if !IsHwcf([]int{0, 1}) || !IsFchw([]int{2, 3}) {
		t.Error("kernel layout predicates mismatch")
	}
}
