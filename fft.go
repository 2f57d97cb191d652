package linalgext

import (
	"github.com/mollon650/iree/internal/optypes"
	"github.com/mollon650/iree/types/shapes"
	"github.com/pkg/errors"
)

// FftOp is one butterfly stage of a radix-2 FFT. It takes a mandatory scalar
// stage input and, past the first stage, a pair of real/imaginary twiddle
// coefficient inputs, and writes the real and imaginary result tensors.
type FftOp struct {
	dpsOp
	// fftLength is the transform length of this stage. It becomes dynamic
	// when tiling rewrites the operand with a data-dependent extent.
	fftLength shapes.Dim
}

// NewFft assembles an FFT stage record. inputs are (stage) or
// (stage, realCoeff, imagCoeff) and outputs are (real, imag).
func NewFft(inputs, outputs []*Value, fftLength shapes.Dim) *FftOp {
	return &FftOp{
		dpsOp:     dpsOp{inputs: inputs, outputs: outputs},
		fftLength: fftLength,
	}
}

func (op *FftOp) OpType() optypes.OpType { return optypes.Fft }

// FftLength returns the transform length of this stage.
func (op *FftOp) FftLength() shapes.Dim { return op.fftLength }

// HasCoefficients reports whether the stage carries twiddle coefficient
// inputs.
func (op *FftOp) HasCoefficients() bool { return len(op.inputs) == 3 }

// Verify checks the FFT stage invariants.
func (op *FftOp) Verify() error {
	if !op.fftLength.IsDynamic() {
		length := op.fftLength.Size()
		if length&(length-1) != 0 {
			return errors.New("only powers of 2 are handled currently")
		}
	}
	if len(op.inputs) == 0 || op.inputs[0].IsShaped() {
		return errors.New("expected to carry `stage` input")
	}
	if len(op.inputs) != 1 {
		if len(op.inputs) != 3 || !op.inputs[1].IsShaped() || !op.inputs[2].IsShaped() {
			return errors.New("expected to carry real and imag coeff inputs")
		}
	}
	if len(op.outputs) != 2 {
		return errors.New("expected outputs to be real and imag tensors")
	}
	return nil
}
