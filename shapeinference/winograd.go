package shapeinference

import (
	"slices"

	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// The Winograd transforms accept the image (respectively kernel) axes only in
// two layouts. For the rank-4 image operands the spatial axes are [1, 2] in a
// channel-last (NHWC) tensor or [2, 3] in a channel-first (NCHW) tensor; for
// the rank-4 filter operand the kernel axes are [0, 1] (HWCF) or [2, 3]
// (FCHW). Any other axis pair is rejected.

// IsNhwc reports whether imageDims selects the channel-last spatial axes.
func IsNhwc(imageDims []int) bool { return slices.Equal(imageDims, []int{1, 2}) }

// IsNchw reports whether imageDims selects the channel-first spatial axes.
func IsNchw(imageDims []int) bool { return slices.Equal(imageDims, []int{2, 3}) }

// IsHwcf reports whether kernelDims selects the leading kernel axes.
func IsHwcf(kernelDims []int) bool { return slices.Equal(kernelDims, []int{0, 1}) }

// IsFchw reports whether kernelDims selects the trailing kernel axes.
func IsFchw(kernelDims []int) bool { return slices.Equal(kernelDims, []int{2, 3}) }

// Transformed operands always carry the two tile axes leading and the
// channels last; channel-first operands are permuted accordingly.
var (
	permTTNCHWToTTNHWC = []int{0, 1, 2, 4, 5, 3}
	permTTNHWCToTTNCHW = []int{0, 1, 2, 5, 3, 4}
	permTTFCToTTCF     = []int{0, 1, 3, 2}
)

// WinogradInputShape returns the expected output shape of the Winograd input
// transform for the given image operand.
//
// For the rank-2 "single tile" form the output is a square of side
// inputTileSize. For the rank-4 form the output rank is input rank + 2: the
// two new leading axes are the tile rows and columns (both of extent
// inputTileSize), non-image axes pass through, and each image axis of extent
// e becomes ⌈(e - kernelSize + 1) / outputTileSize⌉ tiles. Channel-first
// operands get the channels axis moved last.
func WinogradInputShape(input shapes.Shape, imageDims []int, kernelSize, outputTileSize int64) (shapes.Shape, error) {
	inputTileSize := outputTileSize + kernelSize - 1
	if input.Rank() == 2 {
		return shapes.Make(input.DType, int(inputTileSize), int(inputTileSize)), nil
	}
	if input.Rank() != 4 {
		return shapes.Invalid(), errors.Errorf("expected input operand to have rank either 2 or 4, got %s", input)
	}
	if !IsNchw(imageDims) && !IsNhwc(imageDims) {
		return shapes.Invalid(), errors.Errorf("expect image dimensions to be either [1, 2] or [2, 3], got %v", imageDims)
	}
	numImageDims := len(imageDims)
	expected := make([]shapes.Dim, input.Rank()+numImageDims)
	expected[0] = shapes.Known(inputTileSize)
	expected[1] = shapes.Known(inputTileSize)
	for i, dim := range input.Dimensions {
		outputIndex := i + numImageDims
		switch {
		case dim.IsDynamic():
			expected[outputIndex] = shapes.Dynamic
		case !slices.Contains(imageDims, i):
			expected[outputIndex] = dim
		default:
			numTiles := (dim.Size() - kernelSize + 1 + outputTileSize - 1) / outputTileSize
			expected[outputIndex] = shapes.Known(numTiles)
		}
	}
	if IsNchw(imageDims) {
		expected = ApplyPermutation(expected, permTTNCHWToTTNHWC)
	}
	return shapes.Shape{DType: input.DType, Dimensions: expected}, nil
}

// WinogradFilterShape returns the expected output shape of the Winograd
// filter transform for the given filter operand.
//
// For the rank-2 form the output is a square of side inputTileSize. For the
// rank-4 form the output rank equals the input rank: the kernel axes map to
// inputTileSize and the remaining axes pass through, with FCHW filters
// permuted so the output channels axis comes last.
func WinogradFilterShape(input shapes.Shape, kernelDims []int, kernelSize, outputTileSize int64) (shapes.Shape, error) {
	inputTileSize := outputTileSize + kernelSize - 1
	if input.Rank() == 2 {
		return shapes.Make(input.DType, int(inputTileSize), int(inputTileSize)), nil
	}
	if input.Rank() != 4 {
		return shapes.Invalid(), errors.Errorf("expected input operand to have rank either 2 or 4, got %s", input)
	}
	if !IsHwcf(kernelDims) && !IsFchw(kernelDims) {
		return shapes.Invalid(), errors.Errorf("expect kernel dimensions to be either [0, 1] or [2, 3], got %v", kernelDims)
	}
	expected := make([]shapes.Dim, 0, input.Rank())
	expected = append(expected, shapes.Known(inputTileSize), shapes.Known(inputTileSize))
	for i, dim := range input.Dimensions {
		if slices.Contains(kernelDims, i) {
			continue
		}
		expected = append(expected, dim)
	}
	if IsFchw(kernelDims) {
		expected = ApplyPermutation(expected, permTTFCToTTCF)
	}
	return shapes.Shape{DType: input.DType, Dimensions: expected}, nil
}

// WinogradOutputShape returns the expected output shape of the Winograd
// output transform for the given transformed operand.
//
// For the rank-2 form the output is a square of side outputTileSize. For the
// rank-6 form the output rank is input rank - 2: the two leading tile axes
// are consumed, each image axis of extent e becomes outputTileSize × e, and
// the remaining axes pass through in the layout selected by imageDims.
func WinogradOutputShape(input shapes.Shape, imageDims []int, outputTileSize int64) (shapes.Shape, error) {
	if input.Rank() == 2 {
		return shapes.Make(input.DType, int(outputTileSize), int(outputTileSize)), nil
	}
	if input.Rank() != 6 {
		return shapes.Invalid(), errors.Errorf("expected input operand to have rank either 2 or 6, got %s", input)
	}
	if !IsNchw(imageDims) && !IsNhwc(imageDims) {
		return shapes.Invalid(), errors.Errorf("expect image dimensions to be either [1, 2] or [2, 3], got %v", imageDims)
	}
	inputDims := slices.Clone(input.Dimensions)
	if IsNchw(imageDims) {
		inputDims = ApplyPermutation(inputDims, permTTNHWCToTTNCHW)
	}
	numImageDims := len(imageDims)
	expected := make([]shapes.Dim, input.Rank()-numImageDims)
	for i := numImageDims; i < len(inputDims); i++ {
		outputIndex := i - numImageDims
		dim := inputDims[i]
		switch {
		case dim.IsDynamic():
			expected[outputIndex] = shapes.Dynamic
		case !slices.Contains(imageDims, outputIndex):
			expected[outputIndex] = dim
		default:
			expected[outputIndex] = shapes.Known(outputTileSize * dim.Size())
		}
	}
	return shapes.Shape{DType: input.DType, Dimensions: expected}, nil
}
