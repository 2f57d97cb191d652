package linalgext

import (
	"slices"

	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/shapeinference"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// The three Winograd transform ops share the tile-size relation
// inputTileSize = outputTileSize + kernelSize - 1. Each comes in two forms:
// a rank-2 "single tile" form produced by tiling, operating on one square
// tile, and a full-rank form operating on the whole tensor with the image
// (or kernel) axes named by a layout attribute.

// WinogradInputTransformOp transforms convolution input tiles into the
// Winograd domain.
type WinogradInputTransformOp struct {
	dpsOp
	imageDims      []int
	kernelSize     int64
	outputTileSize int64
}

// NewWinogradInputTransform assembles an input transform record. imageDims
// names the two spatial axes of the rank-4 image operand, [1, 2] for NHWC or
// [2, 3] for NCHW.
func NewWinogradInputTransform(inputs, outputs []*Value, imageDims []int, kernelSize, outputTileSize int64) *WinogradInputTransformOp {
	return &WinogradInputTransformOp{
		dpsOp:          dpsOp{inputs: inputs, outputs: outputs},
		imageDims:      slices.Clone(imageDims),
		kernelSize:     kernelSize,
		outputTileSize: outputTileSize,
	}
}

func (op *WinogradInputTransformOp) OpType() optypes.OpType {
	return optypes.WinogradInputTransform
}

// ImageDimensions returns the spatial axes of the image operand.
func (op *WinogradInputTransformOp) ImageDimensions() []int { return slices.Clone(op.imageDims) }

// KernelSize returns the convolution kernel size.
func (op *WinogradInputTransformOp) KernelSize() int64 { return op.kernelSize }

// OutputTileSize returns the side of the output tiles.
func (op *WinogradInputTransformOp) OutputTileSize() int64 { return op.outputTileSize }

// InputTileSize returns the side of the transformed tiles.
func (op *WinogradInputTransformOp) InputTileSize() int64 {
	return op.outputTileSize + op.kernelSize - 1
}

// Verify checks the input transform invariants.
func (op *WinogradInputTransformOp) Verify() error {
	if len(op.inputs) != 1 {
		return errors.New("expected one input operand")
	}
	if len(op.outputs) != 1 {
		return errors.New("expected one output operand")
	}
	inputShape := op.inputs[0].Shape()
	outputShape := op.outputs[0].Shape()
	if inputShape.DType != outputShape.DType {
		return errors.New("expected input/output element types to be identical")
	}
	if inputShape.Rank() != 2 && inputShape.Rank() != 4 {
		return errors.New("expected input operand to have rank either 2 or 4")
	}
	inputTileSize := op.InputTileSize()
	if inputShape.Rank() == 2 {
		if outputShape.Rank() != 2 {
			return errors.New("expected output operand to have rank 2 if input is of rank 2")
		}
		// A single tile may be smaller than the input tile size at
		// the image boundary, but never larger.
		for _, dim := range inputShape.Dimensions {
			if !dim.IsDynamic() && dim.Size() > inputTileSize {
				return errors.New("expected input dims not greater than input tile size if input is of rank 2")
			}
		}
		expected := shapes.Make(inputShape.DType, int(inputTileSize), int(inputTileSize))
		if !expected.Compatible(outputShape) {
			return errors.New("expected output dims equal to input tile size if input is of rank 2")
		}
		return nil
	}

	if outputShape.Rank() != inputShape.Rank()+2 {
		return errors.New("expected output rank to be equal to input rank + 2")
	}
	if len(op.imageDims) != 2 {
		return errors.New("expected only 2 image dimensions")
	}
	expected, err := shapeinference.WinogradInputShape(inputShape, op.imageDims, op.kernelSize, op.outputTileSize)
	if err != nil {
		return err
	}
	if !expected.Compatible(outputShape) {
		return errors.Errorf("incompatible output shape: expected %s, got %s", expected, outputShape)
	}
	return nil
}

// WinogradFilterTransformOp transforms convolution filters into the Winograd
// domain.
type WinogradFilterTransformOp struct {
	dpsOp
	kernelDims     []int
	kernelSize     int64
	outputTileSize int64
}

// NewWinogradFilterTransform assembles a filter transform record. kernelDims
// names the two kernel axes of the rank-4 filter operand, [0, 1] for HWCF or
// [2, 3] for FCHW.
func NewWinogradFilterTransform(inputs, outputs []*Value, kernelDims []int, kernelSize, outputTileSize int64) *WinogradFilterTransformOp {
	return &WinogradFilterTransformOp{
		dpsOp:          dpsOp{inputs: inputs, outputs: outputs},
		kernelDims:     slices.Clone(kernelDims),
		kernelSize:     kernelSize,
		outputTileSize: outputTileSize,
	}
}

func (op *WinogradFilterTransformOp) OpType() optypes.OpType {
	return optypes.WinogradFilterTransform
}

// KernelDimensions returns the kernel axes of the filter operand.
func (op *WinogradFilterTransformOp) KernelDimensions() []int { return slices.Clone(op.kernelDims) }

// KernelSize returns the convolution kernel size.
func (op *WinogradFilterTransformOp) KernelSize() int64 { return op.kernelSize }

// OutputTileSize returns the side of the output tiles.
func (op *WinogradFilterTransformOp) OutputTileSize() int64 { return op.outputTileSize }

// InputTileSize returns the side of the transformed tiles.
func (op *WinogradFilterTransformOp) InputTileSize() int64 {
	return op.outputTileSize + op.kernelSize - 1
}

// Verify checks the filter transform invariants.
func (op *WinogradFilterTransformOp) Verify() error {
	if len(op.inputs) != 1 {
		return errors.New("expected one input operand")
	}
	if len(op.outputs) != 1 {
		return errors.New("expected one output operand")
	}
	inputShape := op.inputs[0].Shape()
	outputShape := op.outputs[0].Shape()
	if inputShape.DType != outputShape.DType {
		return errors.New("expected input/output element types to be identical")
	}
	if inputShape.Rank() != 2 && inputShape.Rank() != 4 {
		return errors.New("expected input operand to have rank either 2 or 4")
	}
	inputTileSize := op.InputTileSize()
	if inputShape.Rank() == 2 {
		if outputShape.Rank() != 2 {
			return errors.New("expected output operand to have rank 2 if input is of rank 2")
		}
		expectedInput := shapes.Make(inputShape.DType, int(op.kernelSize), int(op.kernelSize))
		if !expectedInput.Compatible(inputShape) {
			return errors.New("expected input dims to be equal to kernel size if input is of rank 2")
		}
		expectedOutput := shapes.Make(inputShape.DType, int(inputTileSize), int(inputTileSize))
		if !expectedOutput.Compatible(outputShape) {
			return errors.New("expected output dims equal to input tile size if input is of rank 2")
		}
		return nil
	}

	if outputShape.Rank() != inputShape.Rank() {
		return errors.New("expected output rank to be equal to input rank")
	}
	if len(op.kernelDims) != 2 {
		return errors.New("expected only 2 kernel dimensions")
	}
	if shapeinference.InvalidDimIndexSet(op.kernelDims, inputShape.Rank()) {
		return errors.Errorf("invalid kernel dimensions %v for rank %d", op.kernelDims, inputShape.Rank())
	}
	for _, kernelDim := range op.kernelDims {
		dim := inputShape.Dim(kernelDim)
		if dim.IsDynamic() || dim.Size() != op.kernelSize {
			return errors.New("expect all kernel dimensions to have the kernel size")
		}
	}
	expected, err := shapeinference.WinogradFilterShape(inputShape, op.kernelDims, op.kernelSize, op.outputTileSize)
	if err != nil {
		return err
	}
	if !expected.Compatible(outputShape) {
		return errors.Errorf("incompatible output shape: expected %s, got %s", expected, outputShape)
	}
	return nil
}

// WinogradOutputTransformOp transforms Winograd-domain results back into
// convolution outputs.
type WinogradOutputTransformOp struct {
	dpsOp
	imageDims      []int
	kernelSize     int64
	outputTileSize int64
}

// NewWinogradOutputTransform assembles an output transform record. imageDims
// names the two spatial axes of the rank-4 result, [1, 2] for NHWC or [2, 3]
// for NCHW.
func NewWinogradOutputTransform(inputs, outputs []*Value, imageDims []int, kernelSize, outputTileSize int64) *WinogradOutputTransformOp {
	return &WinogradOutputTransformOp{
		dpsOp:          dpsOp{inputs: inputs, outputs: outputs},
		imageDims:      slices.Clone(imageDims),
		kernelSize:     kernelSize,
		outputTileSize: outputTileSize,
	}
}

func (op *WinogradOutputTransformOp) OpType() optypes.OpType {
	return optypes.WinogradOutputTransform
}

// ImageDimensions returns the spatial axes of the result operand.
func (op *WinogradOutputTransformOp) ImageDimensions() []int { return slices.Clone(op.imageDims) }

// KernelSize returns the convolution kernel size.
func (op *WinogradOutputTransformOp) KernelSize() int64 { return op.kernelSize }

// OutputTileSize returns the side of the output tiles.
func (op *WinogradOutputTransformOp) OutputTileSize() int64 { return op.outputTileSize }

// InputTileSize returns the side of the transformed tiles.
func (op *WinogradOutputTransformOp) InputTileSize() int64 {
	return op.outputTileSize + op.kernelSize - 1
}

// Verify checks the output transform invariants.
func (op *WinogradOutputTransformOp) Verify() error {
	if len(op.inputs) != 1 {
		return errors.New("expected one input operand")
	}
	if len(op.outputs) != 1 {
		return errors.New("expected one output operand")
	}
	inputShape := op.inputs[0].Shape()
	outputShape := op.outputs[0].Shape()
	if inputShape.Rank() != 2 && inputShape.Rank() != 6 {
		return errors.New("expected input operand to have rank either 2 or 6")
	}
	inputTileSize := op.InputTileSize()
	if inputShape.Rank() == 2 {
		if outputShape.Rank() != 2 {
			return errors.New("expected output operand to have rank 2 if input is of rank 2")
		}
		expectedInput := shapes.Make(inputShape.DType, int(inputTileSize), int(inputTileSize))
		if !expectedInput.Compatible(inputShape) {
			return errors.New("expected input dims to be equal to input tile size if input is of rank 2")
		}
		expectedOutput := shapes.Make(inputShape.DType, int(op.outputTileSize), int(op.outputTileSize))
		if !expectedOutput.Compatible(outputShape) {
			return errors.New("expected output dims equal to output tile size if input is of rank 2")
		}
		return nil
	}

	if inputShape.DType != outputShape.DType {
		return errors.New("expected input/output element types to be identical")
	}
	if outputShape.Rank() != inputShape.Rank()-2 {
		return errors.New("expected output rank to be equal to input rank - 2")
	}
	if len(op.imageDims) != 2 {
		return errors.New("expected only 2 image dimensions")
	}
	expected, err := shapeinference.WinogradOutputShape(inputShape, op.imageDims, op.outputTileSize)
	if err != nil {
		return err
	}
	if !expected.Compatible(outputShape) {
		return errors.Errorf("incompatible output shape: expected %s, got %s", expected, outputShape)
	}
	return nil
}
