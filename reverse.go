package linalgext

import (
	"slices"

	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/shapeinference"
	"github.com/pkg/errors"
)

// ReverseOp flips its operand along the given axes.
type ReverseOp struct {
	dpsOp
	dimensions []int
}

// NewReverse assembles a reverse record flipping the single input along the
// given axes into the single output.
func NewReverse(inputs, outputs []*Value, dimensions []int) *ReverseOp {
	return &ReverseOp{
		dpsOp:      dpsOp{inputs: inputs, outputs: outputs},
		dimensions: slices.Clone(dimensions),
	}
}

func (op *ReverseOp) OpType() optypes.OpType { return optypes.Reverse }

// Dimensions returns the reversed axes.
func (op *ReverseOp) Dimensions() []int { return slices.Clone(op.dimensions) }

// Verify checks the reverse invariants.
func (op *ReverseOp) Verify() error {
	if len(op.inputs) != 1 {
		return errors.New("expected exactly one input")
	}
	if len(op.outputs) != 1 {
		return errors.New("expected exactly one output")
	}
	inputShape := op.inputs[0].Shape()
	outputShape := op.outputs[0].Shape()
	if inputShape.DType != outputShape.DType {
		return errors.New("expected input/output element types to be identical")
	}
	if inputShape.Rank() != outputShape.Rank() {
		return errors.New("expected input/output to have identical ranks")
	}
	if !inputShape.Compatible(outputShape) {
		return errors.New("incompatible input/output shapes")
	}
	if shapeinference.InvalidDimIndexSet(op.dimensions, inputShape.Rank()) {
		return errors.Errorf("expected dimensions to be unique and within [0, %d), got %v", inputShape.Rank(), op.dimensions)
	}
	return nil
}
