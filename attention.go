package linalgext

import (
	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/shapeinference"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// AttentionOp computes fused scaled-dot-product attention over its query,
// key and value operands. With a single output it is the vanilla rank-3
// form; with three outputs it is one tile of the blocked ("flash") variant,
// carrying the running maximum and running sum as rank-1 side outputs.
type AttentionOp struct {
	dpsOp
	transposeV bool
}

// NewAttention assembles an attention record. inputs are (query, key, value,
// scale) where scale is a floating-point scalar; outputs are (output) or
// (output, max, sum) for the tiled variant. transposeV marks the value
// operand as stored with its last two axes swapped.
func NewAttention(inputs, outputs []*Value, transposeV bool) *AttentionOp {
	return &AttentionOp{
		dpsOp:      dpsOp{inputs: inputs, outputs: outputs},
		transposeV: transposeV,
	}
}

func (op *AttentionOp) OpType() optypes.OpType { return optypes.Attention }

// TransposeV reports whether the value operand is stored transposed.
func (op *AttentionOp) TransposeV() bool { return op.transposeV }

// IsTiled reports whether the record is the blocked variant carrying
// running-max and running-sum outputs.
func (op *AttentionOp) IsTiled() bool { return len(op.outputs) == 3 }

// Verify checks the attention invariants.
func (op *AttentionOp) Verify() error {
	if len(op.inputs) != 4 {
		return errors.New("expected 4 input operands: query, key, value and scale")
	}
	if len(op.outputs) != 1 && len(op.outputs) != 3 {
		return errors.New("expected 1 or 3 output operands: output, [max and sum]")
	}
	isTiled := op.IsTiled()
	expectedRank := 3
	if isTiled {
		expectedRank = 2
	}

	for _, input := range op.inputs[:3] {
		if !input.IsShaped() {
			return errors.New("expected query, key, value inputs to be of shaped type")
		}
	}
	query := op.inputs[0].Shape()
	key := op.inputs[1].Shape()
	value := op.inputs[2].Shape()
	scale := op.inputs[3]
	output := op.outputs[0].Shape()

	if scale.IsShaped() || !scale.DType().IsFloat() {
		return errors.New("expected scale to be of floating point type")
	}

	if err := shapeinference.CheckRank("query", query, expectedRank); err != nil {
		return err
	}
	if err := shapeinference.CheckRank("key", key, expectedRank); err != nil {
		return err
	}
	if err := shapeinference.CheckRank("value", value, expectedRank); err != nil {
		return err
	}
	if err := shapeinference.CheckRank("output", output, expectedRank); err != nil {
		return err
	}

	valueDims := value.Clone()
	if op.transposeV {
		last := valueDims.Rank() - 1
		valueDims.Dimensions[last-1], valueDims.Dimensions[last] =
			valueDims.Dimensions[last], valueDims.Dimensions[last-1]
	}
	if !key.Compatible(valueDims) {
		return errors.Errorf("incompatible value shape: key %s, value %s", key, valueDims)
	}
	if !query.Compatible(output) {
		return errors.Errorf("incompatible output shape: query %s, output %s", query, output)
	}
	if query.DType != key.DType || query.DType != value.DType || query.DType != scale.DType() {
		return errors.New("element types of query, key, value and scale should be same")
	}

	if !isTiled {
		if query.DType != output.DType {
			return errors.Errorf("expected element type for output %s but found %s instead", query.DType, output.DType)
		}
		if !key.Dim(2).Equal(query.Dim(2)) {
			return errors.New("query and key head dimension mismatch")
		}
		return nil
	}

	max := op.outputs[1].Shape()
	sum := op.outputs[2].Shape()
	if err := shapeinference.CheckRank("max", max, 1); err != nil {
		return err
	}
	if err := shapeinference.CheckRank("sum", sum, 1); err != nil {
		return err
	}
	if output.DType != max.DType || max.DType != sum.DType {
		return errors.New("element types of tiled output, max and sum should be same")
	}
	if !max.Compatible(sum) {
		return errors.Errorf("incompatible sum shape: max %s, sum %s", max, sum)
	}
	if !max.Dim(0).Equal(query.Dim(0)) {
		return errors.New("query and max dimension-0 mismatch")
	}
	return nil
}

// ExpectedOutputShape returns the output shape implied by the query operand.
// The attention output always takes the query's extents.
func (op *AttentionOp) ExpectedOutputShape() shapes.Shape {
	return op.inputs[0].Shape().Clone()
}
