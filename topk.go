package linalgext

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/mollon650/iree/internal/optypes"
	"github.com/pkg/errors"
)

// TopkOp selects the k largest (by the comparator) elements along one axis.
// It takes the values operand, optionally pre-selected indices, and writes
// the selected values and their indices. k is implied by the output extent
// at the selection axis.
type TopkOp struct {
	dpsOp
	dimension int
	region    *Region
}

// NewTopk assembles a top-k record. inputs are (values) or (values, indices)
// and outputs are (values, indices).
func NewTopk(inputs, outputs []*Value, dimension int, region *Region) *TopkOp {
	return &TopkOp{
		dpsOp:     dpsOp{inputs: inputs, outputs: outputs},
		dimension: dimension,
		region:    region,
	}
}

func (op *TopkOp) OpType() optypes.OpType { return optypes.Topk }

// Dimension returns the selection axis.
func (op *TopkOp) Dimension() int { return op.dimension }

// Region returns the comparator region.
func (op *TopkOp) Region() *Region { return op.region }

// Verify checks the top-k invariants.
func (op *TopkOp) Verify() error {
	if len(op.inputs) != 1 && len(op.inputs) != 2 {
		return errors.New("expected one or two input operands")
	}
	if len(op.outputs) != 2 {
		return errors.New("expected two output operands")
	}
	inputValues := op.inputs[0].Shape()
	outputValues := op.outputs[0].Shape()
	outputIndices := op.outputs[1].Shape()
	if op.dimension < 0 || op.dimension >= inputValues.Rank() {
		return errors.New("dimension exceeds rank")
	}
	if inputValues.DType != outputValues.DType {
		return errors.New("expected input/output value types to be identical")
	}
	if len(op.inputs) == 2 {
		inputIndices := op.inputs[1].Shape()
		if inputIndices.DType != dtypes.Int32 || outputIndices.DType != dtypes.Int32 {
			return errors.New("expected input/output indices types to be int32")
		}
		if inputIndices.Rank() != outputIndices.Rank() {
			return errors.New("expected input/output to have the same rank")
		}
		if !inputValues.Compatible(inputIndices) {
			return errors.New("input indices/values shape must match")
		}
	}
	if inputValues.Rank() != outputValues.Rank() {
		return errors.New("expected input/output to have the same rank")
	}
	if !outputValues.Compatible(outputIndices) {
		return errors.New("output indices/values shape must match")
	}
	// Input and output values agree everywhere except the selection axis,
	// where the output holds only the k selected elements.
	for axis, dim := range inputValues.Dimensions {
		if axis == op.dimension {
			continue
		}
		if !dim.CompatibleWith(outputValues.Dimensions[axis]) {
			return errors.New("incompatible input/output shapes")
		}
	}
	return verifyPayload(op.region, repeatDType(inputValues.DType, 2), dtypes.Bool)
}
