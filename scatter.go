package linalgext

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/shapeinference"
	"github.com/pkg/errors"
)

// ScatterOp writes slices of the updates operand into the original (output)
// operand at positions taken from the indices operand. The dimension map
// names which output axes the index vectors address; its length is the index
// depth. The payload region combines an update element with the element
// already present in the original operand.
type ScatterOp struct {
	dpsOp
	dimensionMap []int
	region       *Region
}

// NewScatter assembles a scatter record. inputs are (indices, updates) and
// outputs is the single original operand. The record is not validated here;
// call Verify.
func NewScatter(inputs, outputs []*Value, dimensionMap []int, region *Region) *ScatterOp {
	return &ScatterOp{
		dpsOp:        dpsOp{inputs: inputs, outputs: outputs},
		dimensionMap: slices.Clone(dimensionMap),
		region:       region,
	}
}

func (op *ScatterOp) OpType() optypes.OpType { return optypes.Scatter }

// DimensionMap returns the output axes addressed by the index vectors.
func (op *ScatterOp) DimensionMap() []int { return slices.Clone(op.dimensionMap) }

// IndexDepth returns the number of indexed output axes.
func (op *ScatterOp) IndexDepth() int { return len(op.dimensionMap) }

// Region returns the payload region combining update and original elements.
func (op *ScatterOp) Region() *Region { return op.region }

// Verify checks the scatter invariants.
func (op *ScatterOp) Verify() error {
	if len(op.inputs) != 2 {
		return errors.New("expected two input operands")
	}
	if len(op.outputs) != 1 {
		return errors.New("expected one output operand")
	}
	indices, updates, original := op.inputs[0], op.inputs[1], op.outputs[0]
	indicesShape := indices.Shape()
	if !indices.IsShaped() || indicesShape.Rank() != 2 || indicesShape.DType != dtypes.Int32 {
		return errors.Errorf("expected indices to be of rank 2 of i32 element type, got %s", indicesShape)
	}

	indexDepth := op.IndexDepth()
	originalShape := original.Shape()
	if shapeinference.InvalidDimIndexSet(op.dimensionMap, originalShape.Rank()) {
		return errors.Errorf("dimension map %v is invalid for rank %d", op.dimensionMap, originalShape.Rank())
	}

	// The first dimension of the indices and of the updates must match:
	// they both count the number of update slices.
	updateShape := updates.Shape()
	if updateShape.Rank() < 1 {
		return errors.New("expected update value to be at least rank 1")
	}
	if !indicesShape.Dim(0).Equal(updateShape.Dim(0)) {
		return errors.New("mismatch in shape of indices and update value at dim#0")
	}
	if updateShape.Rank()-1 > originalShape.Rank() {
		return errors.New("update value rank exceeds the rank of the original value")
	}
	// The index depth plus the update dims (minus the leading slice-count
	// dim) must cover the original dims.
	if originalShape.Rank() > indexDepth+updateShape.Rank()-1 {
		return errors.New("index depth and update value does not cover rank of original value")
	}

	// Non-indexed trailing update dims must fit within the full slice size
	// of the original tensor.
	fullSliceDims := originalShape.Rank() - indexDepth
	for offset := 0; offset < fullSliceDims; offset++ {
		originalDim := indexDepth + offset
		updateDim := updateShape.Rank() - fullSliceDims + offset
		if !updateShape.Dim(updateDim).FitsWithin(originalShape.Dim(originalDim)) {
			return errors.Errorf("shape of update value dim#%d exceeds original value at dim#%d", updateDim, originalDim)
		}
	}

	// The remaining (indexed) update dims must not exceed the original
	// extents either.
	insertDims := originalShape.Rank() - updateShape.Rank() + 1
	for offset := 0; insertDims+offset < indexDepth; offset++ {
		originalDim := insertDims + offset
		updateDim := 1 + offset
		if !updateShape.Dim(updateDim).FitsWithin(originalShape.Dim(originalDim)) {
			return errors.Errorf("indexed shape of update value dim#%d exceeds original value at dim#%d (%s vs %s)",
				updateDim, originalDim, updateShape.Dim(updateDim), originalShape.Dim(originalDim))
		}
	}

	updateElem := updateShape.DType
	originalElem := originalShape.DType
	if updateElem != originalElem {
		return errors.Errorf("mismatch in element types of update value %s and original value %s", updateElem, originalElem)
	}
	return verifyPayload(op.region, []dtypes.DType{updateElem, originalElem}, updateElem)
}
