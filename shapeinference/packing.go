package shapeinference

import (
	"slices"

	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// PackedShape returns the packed shape resulting from tiling the axes
// innerDimsPos of the unpacked shape with the given tile sizes, permuting the
// outer (tile count) axes by outerDimsPerm, and appending the tile sizes as
// new trailing axes.
//
// Each tiled axis extent is replaced by its tile count: dynamic if either the
// extent or the tile size is dynamic, else ⌈extent/tile⌉. This single formula
// serves both the Pack/UnPack verifiers and shape reification, so the two
// always derive the same dynamic/static pattern per axis.
func PackedShape(unpacked shapes.Shape, innerTiles []shapes.Dim, innerDimsPos, outerDimsPerm []int) (shapes.Shape, error) {
	if err := checkTiling(unpacked.Rank(), innerTiles, innerDimsPos, outerDimsPerm); err != nil {
		return shapes.Invalid(), err
	}
	outerDims := make([]shapes.Dim, unpacked.Rank())
	copy(outerDims, unpacked.Dimensions)
	for i, tiledDim := range innerDimsPos {
		outerDims[tiledDim] = CeilTileCount(outerDims[tiledDim], innerTiles[i])
	}
	outerDims = ApplyPermutation(outerDims, outerDimsPerm)
	packed := shapes.Shape{DType: unpacked.DType, Dimensions: append(outerDims, innerTiles...)}
	return packed, nil
}

// UnpackedShape is the inverse of PackedShape: it drops the trailing tile
// axes, undoes the outer permutation, and rebuilds each tiled axis extent as
// tileCount × tileSize (dynamic if either is dynamic).
//
// On full-tile configurations PackedShape followed by UnpackedShape recovers
// a shape pointwise-compatible with the original; with partial tiles the
// rebuilt extent is the padded one.
func UnpackedShape(packed shapes.Shape, innerTiles []shapes.Dim, innerDimsPos, outerDimsPerm []int) (shapes.Shape, error) {
	unpackedRank := packed.Rank() - len(innerTiles)
	if unpackedRank < 0 {
		return shapes.Invalid(), errors.Errorf("packed rank %d is smaller than the number of tile sizes %d", packed.Rank(), len(innerTiles))
	}
	if err := checkTiling(unpackedRank, innerTiles, innerDimsPos, outerDimsPerm); err != nil {
		return shapes.Invalid(), err
	}
	outerDims := slices.Clone(packed.Dimensions[:unpackedRank])
	if len(outerDimsPerm) > 0 {
		restored := slices.Clone(outerDims)
		for i, src := range outerDimsPerm {
			restored[src] = outerDims[i]
		}
		outerDims = restored
	}
	for i, tiledDim := range innerDimsPos {
		count := outerDims[tiledDim]
		tile := innerTiles[i]
		if count.IsDynamic() || tile.IsDynamic() {
			outerDims[tiledDim] = shapes.Dynamic
			continue
		}
		outerDims[tiledDim] = shapes.Known(count.Size() * tile.Size())
	}
	return shapes.Shape{DType: packed.DType, Dimensions: outerDims}, nil
}

// checkTiling validates the tiling attributes shared by PackedShape and
// UnpackedShape.
func checkTiling(unpackedRank int, innerTiles []shapes.Dim, innerDimsPos, outerDimsPerm []int) error {
	if len(innerTiles) != len(innerDimsPos) {
		return errors.Errorf("blocking factors (%d) must equal the number of dimensions to block (%d)", len(innerTiles), len(innerDimsPos))
	}
	if InvalidDimIndexSet(innerDimsPos, unpackedRank) {
		return errors.Errorf("invalid inner dimension positions %v for unpacked rank %d", innerDimsPos, unpackedRank)
	}
	if InvalidDimIndexSet(outerDimsPerm, unpackedRank) {
		return errors.Errorf("invalid outer dimensions permutation %v for unpacked rank %d", outerDimsPerm, unpackedRank)
	}
	for i, tile := range innerTiles {
		if !tile.IsDynamic() && tile.Size() == 0 {
			return errors.Errorf("invalid tile factor: tile size #%d is zero", i)
		}
	}
	return nil
}

// NotFullTiles reports whether there is enough static information to prove
// that some tiled axis is not evenly divided by its tile size. Axes or tiles
// that are dynamic cannot be refuted and report false.
func NotFullTiles(unpacked shapes.Shape, innerTiles []shapes.Dim, innerDimsPos []int) bool {
	for i, tiledDim := range innerDimsPos {
		extent := unpacked.Dimensions[tiledDim]
		tile := innerTiles[i]
		if extent.IsDynamic() || tile.IsDynamic() {
			continue
		}
		if extent.Size()%tile.Size() != 0 {
			return true
		}
	}
	return false
}

// PackedTileSizesMatch reports whether the trailing tile axes of the declared
// packed shape agree with the declared tile sizes. A dynamic tile size
// requires a dynamic axis. A static tile size with a dynamic axis is
// accepted: in canonical form a constant tile size leads to a constant axis,
// but that is not needed for verification.
func PackedTileSizesMatch(packed shapes.Shape, innerTiles []shapes.Dim) bool {
	trailing := packed.Dimensions[packed.Rank()-len(innerTiles):]
	for i, tile := range innerTiles {
		extent := trailing[i]
		if tile.IsDynamic() {
			if !extent.IsDynamic() {
				return false
			}
			continue
		}
		if extent.IsDynamic() {
			continue
		}
		if extent.Size() != tile.Size() {
			return false
		}
	}
	return true
}
