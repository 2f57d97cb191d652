package linalgext

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Region is the payload computation embedded in an operation: a nested
// computation taking scalar arguments and producing its results through a
// terminal yield. The owning operation dictates how many arguments the
// region takes and what it must yield.
type Region struct {
	// Arguments are the dtypes of the region's scalar arguments, in order.
	Arguments []dtypes.DType

	// Yields are the dtypes of the values produced by the region's
	// terminal yield.
	Yields []dtypes.DType
}

// NewRegion returns a region yielding a single value of the given dtype.
func NewRegion(yield dtypes.DType, arguments ...dtypes.DType) *Region {
	return &Region{Arguments: arguments, Yields: []dtypes.DType{yield}}
}

// isNumericOrComplex reports whether dtype is a scalar numeric or a complex
// pair of numerics. Payload regions take no aggregate arguments.
func isNumericOrComplex(dtype dtypes.DType) bool {
	return dtype.IsInt() || dtype.IsFloat() || dtype.IsComplex()
}

// verifyPayload checks an operation's payload region against the owning
// operand element types: the argument count must equal len(argTypes), each
// argument dtype must equal the corresponding operand element type and be
// numeric or complex, and the region must yield exactly one value of dtype
// yield. Shared by the Scatter, Sort and Topk verifiers.
func verifyPayload(region *Region, argTypes []dtypes.DType, yield dtypes.DType) error {
	if region == nil {
		return errors.New("expected op to carry a payload region")
	}
	if len(region.Arguments) != len(argTypes) {
		return errors.Errorf("region block should have %d arguments, got %d", len(argTypes), len(region.Arguments))
	}
	for i, argType := range region.Arguments {
		if !isNumericOrComplex(argType) {
			return errors.Errorf("expected region to have scalar arguments of numeric or complex types, got %s for argument #%d", argType, i)
		}
		if argType != argTypes[i] {
			return errors.Errorf("region block argument #%d should be of type %s but got %s", i, argTypes[i], argType)
		}
	}
	if len(region.Yields) != 1 {
		return errors.Errorf("expected region to yield a single value, got %d", len(region.Yields))
	}
	if region.Yields[0] != yield {
		return errors.Errorf("mismatch in type of yielded value %s and expected %s", region.Yields[0], yield)
	}
	return nil
}

// repeatDType returns a slice with dtype repeated n times.
func repeatDType(dtype dtypes.DType, n int) []dtypes.DType {
	out := make([]dtypes.DType, n)
	for i := range out {
		out[i] = dtype
	}
	return out
}
