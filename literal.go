package linalgext

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/x448/float16"
)

// Literal is a typed scalar constant. Its one use here is the optional
// padding value of a pack operation, which fills the partial tiles of
// non-divisible tilings.
type Literal struct {
	dtype dtypes.DType
	value any
}

// NewLiteral returns a literal holding the given value. The dtype is derived
// from the Go type, so NewLiteral(float32(0)) is a Float32 literal and
// NewLiteral(float16.Fromfloat32(0)) a Float16 one.
func NewLiteral[T dtypes.Supported](value T) Literal {
	return Literal{dtype: dtypes.FromGenericsType[T](), value: value}
}

// Float16Literal returns a half-precision literal, converting from float32.
func Float16Literal(value float32) Literal {
	return NewLiteral(float16.Fromfloat32(value))
}

// DType returns the literal's element type.
func (l Literal) DType() dtypes.DType { return l.dtype }

// Value returns the boxed Go value of the literal.
func (l Literal) Value() any { return l.value }

// String implements fmt.Stringer.
func (l Literal) String() string {
	return fmt.Sprintf("%v: %s", l.value, l.dtype)
}
