// Package conv provides the linear convolutions behind binned smearing.
//
// A histogram of weighted frequencies is convolved with a sampled smearing
// kernel. Short kernels use direct O(N·M) convolution with block-accumulated
// inner loops; longer kernels go through FFT overlap-add.
//
//	full, err := conv.Convolve(histogram, kernel)
//
// The full result has len(histogram)+len(kernel)-1 samples.
package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Direct returns the full linear convolution of a and b.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo writes the full linear convolution of a and b to dst, which must
// have length len(a)+len(b)-1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	const blockThreshold = 4
	m := len(b)
	if m < blockThreshold {
		for i, x := range a {
			for j, y := range b {
				dst[i+j] += x * y
			}
		}
		return
	}

	temp := make([]float64, m)
	for i, x := range a {
		if x == 0 {
			continue
		}
		vecmath.ScaleBlock(temp, b, x)
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// Convolve returns the full linear convolution of a and b, choosing direct
// convolution for short kernels and overlap-add otherwise.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(b) > len(a) {
		a, b = b, a
	}

	const directThreshold = 64
	if len(b) <= directThreshold {
		return Direct(a, b)
	}
	return OverlapAddConvolve(a, b)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
