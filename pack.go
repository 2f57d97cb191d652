package linalgext

import (
	"slices"

	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/shapeinference"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// PackOp reshapes a tensor into a tiled layout: each axis named in
// innerDimsPos is split into an outer tile-count axis and an inner axis of
// the corresponding tile size, the outer axes are permuted by outerDimsPerm,
// and the tile axes are appended trailing. A padding value fills partial
// tiles; without one, non-divisible tilings are rejected as undefined.
type PackOp struct {
	dpsOp
	innerDimsPos  []int
	innerTiles    []shapes.Dim
	outerDimsPerm []int
	paddingValue  *Literal
}

// NewPack assembles a pack record. inputs is the unpacked operand and
// outputs the packed destination. outerDimsPerm may be empty (identity) and
// paddingValue nil (full tiles required).
func NewPack(inputs, outputs []*Value, innerDimsPos []int, innerTiles []shapes.Dim, outerDimsPerm []int, paddingValue *Literal) *PackOp {
	return &PackOp{
		dpsOp:         dpsOp{inputs: inputs, outputs: outputs},
		innerDimsPos:  slices.Clone(innerDimsPos),
		innerTiles:    slices.Clone(innerTiles),
		outerDimsPerm: slices.Clone(outerDimsPerm),
		paddingValue:  paddingValue,
	}
}

func (op *PackOp) OpType() optypes.OpType { return optypes.Pack }

// InnerDimsPos returns the tiled axes of the unpacked operand.
func (op *PackOp) InnerDimsPos() []int { return slices.Clone(op.innerDimsPos) }

// InnerTiles returns the tile sizes, one per tiled axis.
func (op *PackOp) InnerTiles() []shapes.Dim { return slices.Clone(op.innerTiles) }

// OuterDimsPerm returns the permutation of the outer (tile count) axes, or
// an empty slice for the identity.
func (op *PackOp) OuterDimsPerm() []int { return slices.Clone(op.outerDimsPerm) }

// PaddingValue returns the padding literal, or nil when none is set.
func (op *PackOp) PaddingValue() *Literal { return op.paddingValue }

// DimAndTileMapping returns the tiled axes of the unpacked operand bound to
// their tile sizes.
func (op *PackOp) DimAndTileMapping() map[int]shapes.Dim {
	return dimAndTileMapping(op.innerDimsPos, op.innerTiles)
}

// ExpectedPackedShape returns the packed shape computed from the unpacked
// operand and the tiling attributes. Shape reification uses this to
// materialize the destination extents.
func (op *PackOp) ExpectedPackedShape() (shapes.Shape, error) {
	return shapeinference.PackedShape(op.inputs[0].Shape(), op.innerTiles, op.innerDimsPos, op.outerDimsPerm)
}

// Verify checks the pack invariants.
func (op *PackOp) Verify() error {
	if err := checkPackArity(op); err != nil {
		return err
	}
	unpacked := op.inputs[0].Shape()
	packed := op.outputs[0].Shape()
	if err := verifyPackLike(op, unpacked, packed); err != nil {
		return err
	}

	// A partial tile is undefined behavior unless a padding value defines
	// the fill.
	if op.paddingValue == nil && shapeinference.NotFullTiles(unpacked, op.innerTiles, op.innerDimsPos) {
		return errors.New("invalid tile factor provided. Only full tiles are supported when padding_value is not set")
	}
	if op.paddingValue != nil && op.paddingValue.DType() != unpacked.DType {
		return errors.Errorf("expected padding_value to have type %s but got %s", unpacked.DType, op.paddingValue.DType())
	}
	return nil
}

// UnPackOp is the inverse of PackOp: it folds the trailing tile axes of a
// packed tensor back into the axes named by innerDimsPos, undoing the outer
// permutation.
type UnPackOp struct {
	dpsOp
	innerDimsPos  []int
	innerTiles    []shapes.Dim
	outerDimsPerm []int
}

// NewUnPack assembles an unpack record. inputs is the packed operand and
// outputs the unpacked destination.
func NewUnPack(inputs, outputs []*Value, innerDimsPos []int, innerTiles []shapes.Dim, outerDimsPerm []int) *UnPackOp {
	return &UnPackOp{
		dpsOp:         dpsOp{inputs: inputs, outputs: outputs},
		innerDimsPos:  slices.Clone(innerDimsPos),
		innerTiles:    slices.Clone(innerTiles),
		outerDimsPerm: slices.Clone(outerDimsPerm),
	}
}

func (op *UnPackOp) OpType() optypes.OpType { return optypes.UnPack }

// InnerDimsPos returns the tiled axes of the unpacked operand.
func (op *UnPackOp) InnerDimsPos() []int { return slices.Clone(op.innerDimsPos) }

// InnerTiles returns the tile sizes, one per tiled axis.
func (op *UnPackOp) InnerTiles() []shapes.Dim { return slices.Clone(op.innerTiles) }

// OuterDimsPerm returns the permutation of the outer (tile count) axes, or
// an empty slice for the identity.
func (op *UnPackOp) OuterDimsPerm() []int { return slices.Clone(op.outerDimsPerm) }

// DimAndTileMapping returns the tiled axes of the unpacked operand bound to
// their tile sizes.
func (op *UnPackOp) DimAndTileMapping() map[int]shapes.Dim {
	return dimAndTileMapping(op.innerDimsPos, op.innerTiles)
}

// ExpectedUnpackedShape returns the unpacked shape computed from the packed
// operand and the tiling attributes.
func (op *UnPackOp) ExpectedUnpackedShape() (shapes.Shape, error) {
	return shapeinference.UnpackedShape(op.inputs[0].Shape(), op.innerTiles, op.innerDimsPos, op.outerDimsPerm)
}

// Verify checks the unpack invariants.
func (op *UnPackOp) Verify() error {
	if err := checkPackArity(op); err != nil {
		return err
	}
	// For unpack the destination is the unpacked operand and the source
	// the packed one.
	return verifyPackLike(op, op.outputs[0].Shape(), op.inputs[0].Shape())
}

// packLikeOp is the attribute surface shared by PackOp and UnPackOp.
type packLikeOp interface {
	Op
	InnerDimsPos() []int
	InnerTiles() []shapes.Dim
	OuterDimsPerm() []int
}

// verifyPackLike holds the verification rules common to pack and unpack,
// phrased over the unpacked and packed shapes regardless of which of the two
// is the destination.
func verifyPackLike(op packLikeOp, unpacked, packed shapes.Shape) error {
	innerTiles := op.InnerTiles()
	innerDimsPos := op.InnerDimsPos()
	outerDimsPerm := op.OuterDimsPerm()

	if unpacked.Rank()+len(innerTiles) != packed.Rank() {
		return errors.New("packed rank must equal unpacked rank + blocking factors")
	}
	// PackedShape also validates the tiling attributes: non-zero tiles,
	// matching tile and position counts, valid index sets.
	expected, err := shapeinference.PackedShape(unpacked, innerTiles, innerDimsPos, outerDimsPerm)
	if err != nil {
		return err
	}
	if !expected.FitsWithin(packed) {
		return errors.Errorf("the shape of output is not large enough to hold the packed data. Expected at least %s, got %s", expected, packed)
	}
	if !shapeinference.PackedTileSizesMatch(packed, innerTiles) {
		return errors.New("mismatch in inner tile sizes specified and shape of tiled dimension in the packed type")
	}
	return nil
}

func checkPackArity(op Op) error {
	if len(op.Inputs()) != 1 {
		return errors.New("expected one input operand")
	}
	if len(op.Outputs()) != 1 {
		return errors.New("expected one output operand")
	}
	return nil
}

func dimAndTileMapping(innerDimsPos []int, innerTiles []shapes.Dim) map[int]shapes.Dim {
	mapping := make(map[int]shapes.Dim, len(innerDimsPos))
	for i, pos := range innerDimsPos {
		mapping[pos] = innerTiles[i]
	}
	return mapping
}
