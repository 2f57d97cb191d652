// Package shapeinference computes the shapes resulting from the structured
// tensor-transformation operations and validates their inputs.
//
// The functions here are pure: they take operand shapes and attributes and
// return the expected output shape or an error naming the violated rule. The
// per-operation verifiers in the root package call the same functions when
// checking a declared output shape, so verification and shape reification can
// never disagree about which axes come out dynamic.
//
// The generic helpers in this file are shared by all operations; the
// pack/unpack tiling algebra lives in packing.go and the Winograd transform
// formulas in winograd.go.
package shapeinference

import (
	"slices"

	"github.com/mollon650/iree/internal/utils"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// InvalidDimIndexSet reports whether indices is invalid as a set of axis
// indices for a shape of the given rank. It is invalid when it holds more
// than rank entries, contains duplicates, or any index is outside [0, rank).
func InvalidDimIndexSet(indices []int, rank int) bool {
	if len(indices) > rank {
		return true
	}
	seen := utils.MakeSet[int](len(indices))
	for _, index := range indices {
		if index < 0 || index >= rank {
			return true
		}
		if seen.Has(index) {
			return true
		}
		seen.Insert(index)
	}
	return false
}

// CeilTileCount returns the number of tiles of size tile needed to cover an
// axis of the given extent, i.e. ⌈extent/tile⌉. If either the extent or the
// tile size is dynamic, the count is dynamic. The tile size must be positive
// when static; callers reject zero tiles before computing counts.
func CeilTileCount(extent, tile shapes.Dim) shapes.Dim {
	if extent.IsDynamic() || tile.IsDynamic() {
		return shapes.Dynamic
	}
	return shapes.Known((extent.Size() + tile.Size() - 1) / tile.Size())
}

// ApplyPermutation reorders dims by perm: result[i] = dims[perm[i]] for every
// permuted position, remaining positions unchanged. An empty perm is the
// identity. perm must be a valid dim index set over len(dims) -- validated by
// the callers with InvalidDimIndexSet.
func ApplyPermutation(dims []shapes.Dim, perm []int) []shapes.Dim {
	result := slices.Clone(dims)
	for i, src := range perm {
		result[i] = dims[src]
	}
	return result
}

// CheckRank returns an error if the shape does not have the given rank.
// operandName names the operand in the error message.
func CheckRank(operandName string, shape shapes.Shape, rank int) error {
	if shape.Rank() != rank {
		return errors.Errorf("expected %s to have rank %d but found %d", operandName, rank, shape.Rank())
	}
	return nil
}
