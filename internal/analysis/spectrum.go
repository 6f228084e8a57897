// Package analysis provides frequency analysis over run telemetry,
// mainly to spot steering oscillation induced by avoidance corrections.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data, whose length must
// be a power of two. Callers pad with PadPow2 first. In-place radix-2:
// bit-reversal permutation followed by butterfly passes of doubling span.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	x := make([]complex128, n)
	for i, v := range data {
		x[i] = complex(v, 0)
	}
	if n <= 1 {
		return x
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for span := 2; span <= n; span <<= 1 {
		step := -2 * math.Pi / float64(span)
		for base := 0; base < n; base += span {
			for k := 0; k < span/2; k++ {
				w := cmplx.Rect(1, step*float64(k))
				lo := x[base+k]
				hi := w * x[base+k+span/2]
				x[base+k] = lo + hi
				x[base+k+span/2] = lo - hi
			}
		}
	}
	return x
}

// PadPow2 zero-pads data up to the next power of two.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}

// PowerSpectrum returns the magnitude of the first half of the FFT of
// the (padded) input.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(PadPow2(data))
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-DC bin of a power spectrum
// and converts it to hertz given the sample period of the input.
func DominantFrequency(ps []float64, dt float64) float64 {
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	// bins map to k / (N·dt) where N is the padded length
	return float64(maxIdx) / (float64(2*len(ps)) * dt)
}
