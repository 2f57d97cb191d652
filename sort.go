package linalgext

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/mollon650/iree/internal/optypes"
	"github.com/pkg/errors"
)

// SortOp sorts its output operands in place along one axis. The first output
// holds the sort keys; any further outputs are reordered alongside it. The
// payload region is the comparator: for each output it receives a pair of
// candidate scalars and yields a single boolean deciding their order.
type SortOp struct {
	dpsOp
	dimension int
	region    *Region
}

// NewSort assembles a sort record over the given outputs, sorting along the
// given axis. Sort takes no inputs; the operands are sorted in place.
func NewSort(outputs []*Value, dimension int, region *Region) *SortOp {
	return &SortOp{
		dpsOp:     dpsOp{outputs: outputs},
		dimension: dimension,
		region:    region,
	}
}

func (op *SortOp) OpType() optypes.OpType { return optypes.Sort }

// Dimension returns the axis the operands are sorted along.
func (op *SortOp) Dimension() int { return op.dimension }

// Region returns the comparator region.
func (op *SortOp) Region() *Region { return op.region }

// Verify checks the sort invariants.
func (op *SortOp) Verify() error {
	if len(op.inputs) != 0 {
		return errors.New("does not expect to take any inputs")
	}
	if len(op.outputs) == 0 {
		return errors.New("expected at least one output operand")
	}

	first := op.outputs[0].Shape()
	rank := first.Rank()
	if op.dimension < 0 || op.dimension >= rank {
		return errors.Errorf("dimension must be within [0, %d)", rank)
	}

	// All outputs share rank and extents; element types may differ. The
	// comparator takes a pair of arguments per output, typed to that
	// output's elements.
	argTypes := make([]dtypes.DType, 0, 2*len(op.outputs))
	for index, operand := range op.outputs {
		shape := operand.Shape()
		if shape.Rank() != rank {
			return errors.Errorf("expected operand %d to be rank %d, same as other operands", index, rank)
		}
		if !shape.EqualDimensions(first) {
			return errors.Errorf("expected operand %d to have same shape as other operands", index)
		}
		argTypes = append(argTypes, shape.DType, shape.DType)
	}
	return verifyPayload(op.region, argTypes, dtypes.Bool)
}
