// Package shapes defines Shape, Dim and the shape-compatibility algebra used
// by the structured-op verifiers and shape inference.
//
// A Shape is an ordered sequence of extents (Dim) plus an element type
// (dtypes.DType). Each extent is either statically known or dynamic, meaning
// it is only resolved at run time. Dynamic extents compare permissively: a
// dynamic extent is compatible with anything.
//
// Dim is an explicit sum type (known size or dynamic) rather than a sentinel
// integer, so every comparison has to spell out how it treats dynamic extents.
// The only place a sentinel appears is the Make constructor, which accepts
// negative values as a shorthand for dynamic axes.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension. We refer to a dimension index as "axis"
//     (plural axes), and its size as its dimension or extent.
//   - DType: the data type of the unit element in a tensor. Enumeration
//     defined in github.com/gomlx/gopjrt/dtypes.
//   - Scalar: a shape with no axes, only a single value of the given DType.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
)

// Dim is the extent of one axis: either a known non-negative size or dynamic
// (unknown until run time). The zero value is Known(0); use Dynamic for the
// unknown extent.
type Dim struct {
	size    int64
	dynamic bool
}

// Dynamic is the extent of an axis whose size is only known at run time.
var Dynamic = Dim{dynamic: true}

// Known returns a static extent of the given size.
func Known(size int64) Dim {
	return Dim{size: size}
}

// IsDynamic reports whether the extent is unknown at compile time.
func (d Dim) IsDynamic() bool { return d.dynamic }

// Size returns the static size of the extent. It is only meaningful if
// IsDynamic is false, in which case it is non-negative.
func (d Dim) Size() int64 { return d.size }

// Equal reports whether two extents are identical: both dynamic, or both
// known with the same size.
func (d Dim) Equal(other Dim) bool {
	if d.dynamic || other.dynamic {
		return d.dynamic == other.dynamic
	}
	return d.size == other.size
}

// CompatibleWith reports whether two extents are compatible: they are if
// either is dynamic, or if both are known and equal.
func (d Dim) CompatibleWith(other Dim) bool {
	return d.dynamic || other.dynamic || d.size == other.size
}

// FitsWithin reports whether this extent is known to be <= limit. Dynamic
// extents on either side cannot be refuted statically and report true.
func (d Dim) FitsWithin(limit Dim) bool {
	return d.dynamic || limit.dynamic || d.size <= limit.size
}

// String implements fmt.Stringer: the size, or "?" for a dynamic extent.
func (d Dim) String() string {
	if d.dynamic {
		return "?"
	}
	return fmt.Sprintf("%d", d.size)
}

// Shape represents the shape of a tensor or buffer operand: an element type
// and one extent per axis.
//
// Use Make to create a new shape. Shapes are value types: operands hold an
// immutable Shape, and the algebra functions return fresh copies.
type Shape struct {
	DType      dtypes.DType
	Dimensions []Dim
}

// Make returns a Shape with the given element type and dimensions. Negative
// dimensions denote dynamic extents, so Make(F32, 2, -1) is a rank-2 shape
// whose second axis is only known at run time.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{DType: dtype, Dimensions: make([]Dim, len(dimensions))}
	for i, dim := range dimensions {
		if dim < 0 {
			s.Dimensions[i] = Dynamic
		} else {
			s.Dimensions[i] = Known(int64(dim))
		}
	}
	return s
}

// FromDims returns a Shape with the given element type and extents.
func FromDims(dtype dtypes.DType, dimensions ...Dim) Shape {
	return Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just
// instantiating it with Shape{}, will be invalid.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar: no axes (rank 0).
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// IsStatic returns whether every extent of the shape is statically known.
func (s Shape) IsStatic() bool {
	for _, dim := range s.Dimensions {
		if dim.IsDynamic() {
			return false
		}
	}
	return true
}

// Dim returns the extent of the given axis. axis can take negative numbers,
// in which case it counts from the end -- so axis=-1 refers to the last axis.
// Like with slice indexing, it panics for an out-of-bounds axis.
func (s Shape) Dim(axis int) Dim {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		panic(fmt.Sprintf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s))
	}
	return s.Dimensions[adjustedAxis]
}

// Shape returns a shallow copy of itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{DType: s.DType, Dimensions: slices.Clone(s.Dimensions)}
}

// Equal compares two shapes for strict equality: dtype, rank and every
// extent, with dynamic extents only equal to dynamic extents.
func (s Shape) Equal(other Shape) bool {
	if s.DType != other.DType || s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if !dim.Equal(other.Dimensions[axis]) {
			return false
		}
	}
	return true
}

// EqualDimensions compares only the extents of two shapes, ignoring the
// element types. Dynamic extents are only equal to dynamic extents.
func (s Shape) EqualDimensions(other Shape) bool {
	if s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if !dim.Equal(other.Dimensions[axis]) {
			return false
		}
	}
	return true
}

// Compatible reports whether two shapes are pointwise compatible: equal rank,
// and at every axis either extent is dynamic or both extents are equal.
// Element types are not compared.
//
// Compatible is reflexive and symmetric, but not transitive: a fully dynamic
// shape is compatible with any two shapes that are incompatible with each
// other.
func (s Shape) Compatible(other Shape) bool {
	if s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if !dim.CompatibleWith(other.Dimensions[axis]) {
			return false
		}
	}
	return true
}

// FitsWithin reports whether every extent of s is known to be <= the
// corresponding extent of limit. Axes with a dynamic extent on either side
// cannot be refuted statically and are accepted. Ranks must be equal.
func (s Shape) FitsWithin(limit Shape) bool {
	if s.Rank() != limit.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if !dim.FitsWithin(limit.Dimensions[axis]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	parts := make([]string, 0, s.Rank())
	for _, dim := range s.Dimensions {
		parts = append(parts, dim.String())
	}
	return fmt.Sprintf("(%s)[%s]", s.DType, strings.Join(parts, " "))
}
