// Package linalgext verifies the structured tensor-transformation operations
// of a tensor-compiler IR and predicts their output shapes.
//
// Every operation is expressed in destination-passing style: it consumes
// read-only input operands and writes into pre-allocated output operands,
// optionally driven by a small embedded payload Region defining element-wise
// combination or comparison logic.
//
// The package provides one operation record per kind (ScatterOp, SortOp,
// FftOp, ScanOp, ReverseOp, TopkOp, PackOp, UnPackOp, the three Winograd
// transform ops and AttentionOp), each with a Verify method checking the
// structural and shape invariants of that kind, and a shared memory-effects
// query. The pure shape algebra backing the verifiers lives in the
// shapeinference package; verification and shape reification call the same
// functions and therefore always agree.
//
// Verification is pure and re-entrant: records are read-only during
// verification and independent operations may be verified concurrently, as
// long as the owning IR unit is not concurrently mutated.
package linalgext

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ValueKind distinguishes how an operand is backed.
type ValueKind int

const (
	// ScalarValue is a plain scalar operand (not shaped), e.g. the FFT
	// stage or the attention scale.
	ScalarValue ValueKind = iota

	// TensorValue is an immutable shaped tensor value.
	TensorValue

	// BufferValue is a mutable memory-backed buffer. Only buffer operands
	// participate in the memory-effects query.
	BufferValue
)

// Value is one operand of a structured operation. Its type is fixed at
// construction; verification only reads it.
type Value struct {
	kind  ValueKind
	shape shapes.Shape
}

// Tensor returns an immutable tensor operand with the given shape.
func Tensor(shape shapes.Shape) *Value {
	return &Value{kind: TensorValue, shape: shape}
}

// Buffer returns a mutable memory-backed operand with the given shape.
func Buffer(shape shapes.Shape) *Value {
	return &Value{kind: BufferValue, shape: shape}
}

// Scalar returns a scalar (non-shaped) operand of the given dtype.
func Scalar(dtype dtypes.DType) *Value {
	return &Value{kind: ScalarValue, shape: shapes.Shape{DType: dtype}}
}

// Kind returns how the operand is backed.
func (v *Value) Kind() ValueKind { return v.kind }

// IsShaped reports whether the operand carries a tensor/buffer shape, as
// opposed to being a plain scalar.
func (v *Value) IsShaped() bool { return v.kind != ScalarValue }

// Shape returns the operand shape. For scalar operands only the DType is
// meaningful.
func (v *Value) Shape() shapes.Shape { return v.shape }

// DType returns the element type of a shaped operand, or the scalar type of
// a scalar operand.
func (v *Value) DType() dtypes.DType { return v.shape.DType }

// Op is the interface implemented by every operation record. The set of
// kinds is closed: new operations are added here, not by open extension.
type Op interface {
	OpType() optypes.OpType

	// Inputs returns the read-only operands.
	Inputs() []*Value

	// Outputs returns the destination-passing-style output operands.
	Outputs() []*Value

	// Verify checks the structural and shape invariants of the operation.
	// It is pure: a repeated call on the same record returns the same
	// result.
	Verify() error

	// Effects reports the memory effects of the operation on its
	// buffer-backed operands.
	Effects() []Effect
}

// VerifyOp is the verification entry point used by the owning IR framework.
// It returns nil if the operation is well-formed, or a terminal error
// describing the first violated rule, prefixed with the operation kind.
func VerifyOp(op Op) error {
	klog.V(2).Infof("verifying %s op (%d inputs, %d outputs)", op.OpType(), len(op.Inputs()), len(op.Outputs()))
	if err := op.Verify(); err != nil {
		return errors.WithMessagef(err, "%s op", op.OpType())
	}
	return nil
}

// dpsOp holds the operand lists shared by all destination-passing-style
// operation records and implements the parts of Op that do not vary per
// kind.
type dpsOp struct {
	inputs  []*Value
	outputs []*Value
}

func (op *dpsOp) Inputs() []*Value  { return op.inputs }
func (op *dpsOp) Outputs() []*Value { return op.outputs }

// Effects reports Read for every buffer-backed input and Read+Write for
// every buffer-backed output. Value-typed and scalar operands report no
// effects. This single implementation serves every operation kind.
func (op *dpsOp) Effects() []Effect {
	var effects []Effect
	for _, input := range op.inputs {
		if input.Kind() != BufferValue {
			continue
		}
		effects = append(effects, Effect{Kind: ReadEffect, Operand: input})
	}
	for _, output := range op.outputs {
		if output.Kind() != BufferValue {
			continue
		}
		effects = append(effects,
			Effect{Kind: ReadEffect, Operand: output},
			Effect{Kind: WriteEffect, Operand: output})
	}
	return effects
}

// EffectKind is the kind of a memory effect.
type EffectKind int

const (
	ReadEffect EffectKind = iota
	WriteEffect
)

// String implements fmt.Stringer.
func (k EffectKind) String() string {
	if k == ReadEffect {
		return "read"
	}
	return "write"
}

// Effect is one memory effect of an operation on a buffer operand.
type Effect struct {
	Kind    EffectKind
	Operand *Value
}
