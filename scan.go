package linalgext

import (
	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// ScanOp computes an inclusive or exclusive prefix scan along one axis. It
// takes one input and two outputs: the running result, shaped like the
// input, and the accumulator holding the final reduction, shaped like the
// input with the scanned axis removed.
type ScanOp struct {
	dpsOp
	dimension int
	inclusive bool
}

// NewScan assembles a scan record. inputs is the single scanned operand and
// outputs are (result, accumulator).
func NewScan(inputs, outputs []*Value, dimension int, inclusive bool) *ScanOp {
	return &ScanOp{
		dpsOp:     dpsOp{inputs: inputs, outputs: outputs},
		dimension: dimension,
		inclusive: inclusive,
	}
}

func (op *ScanOp) OpType() optypes.OpType { return optypes.Scan }

// Dimension returns the scanned axis.
func (op *ScanOp) Dimension() int { return op.dimension }

// Inclusive reports whether element i of the result includes input element i.
func (op *ScanOp) Inclusive() bool { return op.inclusive }

// Accumulator returns the output operand holding the final reduction.
func (op *ScanOp) Accumulator() *Value { return op.outputs[1] }

// Verify checks the scan invariants.
func (op *ScanOp) Verify() error {
	if len(op.inputs) != 1 {
		return errors.New("expected one input operand")
	}
	if len(op.outputs) != 2 {
		return errors.New("expected two output operands")
	}
	input := op.inputs[0]
	if !input.IsShaped() {
		return errors.New("expected input operand to be shaped")
	}
	inputShape := input.Shape()
	outputShape := op.outputs[0].Shape()
	accumulatorShape := op.outputs[1].Shape()

	if accumulatorShape.DType != inputShape.DType {
		return errors.New("expected input/accumulator element types to be identical")
	}
	if accumulatorShape.Rank() != inputShape.Rank()-1 {
		return errors.New("expected accumulator rank to be equal to input rank - 1")
	}
	if op.dimension < 0 || op.dimension >= inputShape.Rank() {
		return errors.Errorf("scan dimension %d out of range for rank %d", op.dimension, inputShape.Rank())
	}
	// The accumulator is the input with the scanned axis removed.
	expectedAccumulator := make([]shapes.Dim, 0, inputShape.Rank()-1)
	for i, dim := range inputShape.Dimensions {
		if i != op.dimension {
			expectedAccumulator = append(expectedAccumulator, dim)
		}
	}
	if !shapes.FromDims(inputShape.DType, expectedAccumulator...).Compatible(accumulatorShape) {
		return errors.New("incompatible input/accumulator shapes")
	}

	if inputShape.DType != outputShape.DType {
		return errors.New("expected input/output element types to be identical")
	}
	if inputShape.Rank() != outputShape.Rank() {
		return errors.New("expected input/output to have identical ranks")
	}
	if !inputShape.Compatible(outputShape) {
		return errors.New("incompatible input/output shapes")
	}
	return nil
}
