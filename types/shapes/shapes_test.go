package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
)

func TestDim(t *testing.T) {
	if Known(3).IsDynamic() {
		t.Error("Known(3).IsDynamic() should be false")
	}
	if !Dynamic.IsDynamic() {
		t.Error("Dynamic.IsDynamic() should be true")
	}
	if Known(3).Size() != 3 {
		t.Errorf("Known(3).Size() = %d, want 3", Known(3).Size())
	}

	if !Known(3).Equal(Known(3)) {
		t.Error("Known(3) should equal Known(3)")
	}
	if Known(3).Equal(Known(4)) {
		t.Error("Known(3) should not equal Known(4)")
	}
	if !Dynamic.Equal(Dynamic) {
		t.Error("Dynamic should equal Dynamic")
	}
	if Known(3).Equal(Dynamic) || Dynamic.Equal(Known(3)) {
		t.Error("Known should not equal Dynamic")
	}

	// Compatibility treats dynamic as a wildcard.
	if !Known(3).CompatibleWith(Dynamic) || !Dynamic.CompatibleWith(Known(3)) {
		t.Error("dynamic extent should be compatible with anything")
	}
	if Known(3).CompatibleWith(Known(4)) {
		t.Error("Known(3) should not be compatible with Known(4)")
	}

	if !Known(3).FitsWithin(Known(3)) || !Known(3).FitsWithin(Known(4)) {
		t.Error("Known(3) should fit within Known(3) and Known(4)")
	}
	if Known(4).FitsWithin(Known(3)) {
		t.Error("Known(4) should not fit within Known(3)")
	}
	if !Dynamic.FitsWithin(Known(1)) || !Known(10).FitsWithin(Dynamic) {
		t.Error("dynamic extents cannot be refuted by FitsWithin")
	}

	if got := Known(7).String(); got != "7" {
		t.Errorf("Known(7).String() = %q, want %q", got, "7")
	}
	if got := Dynamic.String(); got != "?" {
		t.Errorf("Dynamic.String() = %q, want %q", got, "?")
	}
}

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	if invalidShape.Ok() {
		t.Error("Invalid().Ok() should be false")
	}

	scalar := Make(dtypes.Float64)
	if !scalar.Ok() || !scalar.IsScalar() || scalar.Rank() != 0 {
		t.Errorf("Make(Float64) should be a valid scalar, got %s", scalar)
	}

	// Negative dimensions in Make denote dynamic extents.
	shape := Make(dtypes.Float32, 2, -1, 3)
	if shape.Rank() != 3 {
		t.Errorf("shape.Rank() = %d, want 3", shape.Rank())
	}
	if shape.IsStatic() {
		t.Error("shape with a dynamic axis should not be static")
	}
	if !shape.Dim(1).IsDynamic() {
		t.Error("axis 1 should be dynamic")
	}
	if shape.Dim(-1).Size() != 3 {
		t.Errorf("shape.Dim(-1).Size() = %d, want 3", shape.Dim(-1).Size())
	}
	if got := shape.String(); got != "(Float32)[2 ? 3]" {
		t.Errorf("shape.String() = %q", got)
	}

	static := Make(dtypes.Float32, 2, 5, 3)
	if !static.IsStatic() {
		t.Error("fully known shape should be static")
	}
	if static.Equal(shape) {
		t.Error("static shape should not strictly equal the dynamic shape")
	}
	if !static.Compatible(shape) || !shape.Compatible(static) {
		t.Error("dynamic axis should make the shapes compatible")
	}

	clone := shape.Clone()
	if !clone.Equal(shape) {
		t.Error("clone should equal the original")
	}
	clone.Dimensions[0] = Known(7)
	if shape.Dim(0).Size() != 2 {
		t.Error("mutating a clone should not affect the original")
	}
}

func TestShapeCompatible(t *testing.T) {
	cases := []struct {
		a, b Shape
		want bool
	}{
		{Make(dtypes.Float32, 2, 3), Make(dtypes.Float32, 2, 3), true},
		{Make(dtypes.Float32, 2, 3), Make(dtypes.Int32, 2, 3), true},
		{Make(dtypes.Float32, 2, 3), Make(dtypes.Float32, 2, -1), true},
		{Make(dtypes.Float32, -1, -1), Make(dtypes.Float32, 8, 9), true},
		{Make(dtypes.Float32, 2, 3), Make(dtypes.Float32, 2, 4), false},
		{Make(dtypes.Float32, 2, 3), Make(dtypes.Float32, 2, 3, 4), false},
	}
	for _, c := range cases {
		if got := c.a.Compatible(c.b); got != c.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v", c.a, c.b, got, c.want)
		}
		// Compatibility is symmetric, and reflexive on both sides.
		if got := c.b.Compatible(c.a); got != c.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v", c.b, c.a, got, c.want)
		}
		if !c.a.Compatible(c.a) || !c.b.Compatible(c.b) {
			t.Errorf("Compatible should be reflexive for %s and %s", c.a, c.b)
		}
	}
}

func TestShapeFitsWithin(t *testing.T) {
	small := Make(dtypes.Float32, 2, 3)
	large := Make(dtypes.Float32, 2, 4)
	if !small.FitsWithin(large) {
		t.Errorf("%s should fit within %s", small, large)
	}
	if large.FitsWithin(small) {
		t.Errorf("%s should not fit within %s", large, small)
	}
	partlyDynamic := Make(dtypes.Float32, -1, 1)
	if !partlyDynamic.FitsWithin(small) {
		t.Error("dynamic axes cannot be refuted by FitsWithin")
	}
	if small.FitsWithin(Make(dtypes.Float32, 2)) {
		t.Error("FitsWithin should require equal ranks")
	}
}

func TestShapeEqualDimensions(t *testing.T) {
	a := Make(dtypes.Float32, 2, -1)
	b := Make(dtypes.Int32, 2, -1)
	if !a.EqualDimensions(b) {
		t.Error("EqualDimensions should ignore the element type")
	}
	if a.Equal(b) {
		t.Error("Equal should not ignore the element type")
	}
	if a.EqualDimensions(Make(dtypes.Float32, 2, 3)) {
		t.Error("a dynamic extent should not equal a known one")
	}
}

func TestFromDims(t *testing.T) {
	shape := FromDims(dtypes.Float32, Known(2), Dynamic)
	if !shape.Equal(Make(dtypes.Float32, 2, -1)) {
		t.Errorf("FromDims = %s, want %s", shape, Make(dtypes.Float32, 2, -1))
	}
}
