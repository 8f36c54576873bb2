package conv

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-noisecorr/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Inputs shorter than this are correlated with the direct form even when the
// FFT path is requested.
const minFFTLength = 16

// Correlator computes lag-indexed normalized cross-correlations and keeps
// its scratch buffers and FFT plan between calls.
// A Correlator is not safe for concurrent use.
type Correlator struct {
	sq     []float64
	prefix []float64 // prefix[k] = Σ reference[i]², i < k
	tail   []float64 // tail[k] = Σ target[j]², j >= k

	plan     *algofft.Plan[complex128]
	planSize int
	refFreq  []complex128
	tgtFreq  []complex128
	timeBuf  []complex128
}

// NewCorrelator creates a reusable correlator.
func NewCorrelator() *Correlator {
	return &Correlator{}
}

// LagCorrelate computes the normalized cross-correlation of reference and
// target for every lag in [0, len(reference)) using the direct form.
func LagCorrelate(reference, target []float64) ([]float64, error) {
	return NewCorrelator().Correlate(reference, target)
}

// LagCorrelateFFT is [LagCorrelate] with the numerators computed by FFT.
func LagCorrelateFFT(reference, target []float64) ([]float64, error) {
	return NewCorrelator().CorrelateFFT(reference, target)
}

// Correlate computes the direct-form correlation for every lag.
// The result has the same length as the inputs.
func (c *Correlator) Correlate(reference, target []float64) ([]float64, error) {
	if err := checkInputs(reference, target); err != nil {
		return nil, err
	}

	n := len(reference)
	prefix, tail := c.energies(reference, target)

	out := make([]float64, n)
	for lag := range out {
		m := n - lag
		num := floats.Dot(reference[:m], target[lag:])
		out[lag] = normalize(num, prefix[m], tail[lag])
	}

	return out, nil
}

// CorrelateFFT computes the same values as [Correlator.Correlate], taking all
// numerators from a single zero-padded FFT cross-correlation.
func (c *Correlator) CorrelateFFT(reference, target []float64) ([]float64, error) {
	if err := checkInputs(reference, target); err != nil {
		return nil, err
	}

	n := len(reference)
	if n < minFFTLength {
		return c.Correlate(reference, target)
	}

	fftSize := nextPowerOf2(2*n - 1)
	if err := c.ensurePlan(fftSize); err != nil {
		return nil, err
	}

	// Zero-padded inputs; the padding keeps the circular result free of wrap-around.
	src := c.timeBuf
	for i := range src {
		src[i] = 0
	}
	for i, v := range reference {
		src[i] = complex(v, 0)
	}
	if err := c.plan.Forward(c.refFreq, src); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range src {
		src[i] = 0
	}
	for i, v := range target {
		src[i] = complex(v, 0)
	}
	if err := c.plan.Forward(c.tgtFreq, src); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// conj(R)·T gives Σ r[i]·t[i+L] at non-negative lags.
	for i := range c.tgtFreq {
		r := c.refFreq[i]
		c.tgtFreq[i] *= complex(real(r), -imag(r))
	}
	if err := c.plan.Inverse(src, c.tgtFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	prefix, tail := c.energies(reference, target)

	out := make([]float64, n)
	for lag := range out {
		out[lag] = normalize(real(src[lag]), prefix[n-lag], tail[lag])
	}

	return out, nil
}

func (c *Correlator) ensurePlan(size int) error {
	if c.plan != nil && c.planSize == size {
		return nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	c.plan = plan
	c.planSize = size
	c.refFreq = make([]complex128, size)
	c.tgtFreq = make([]complex128, size)
	c.timeBuf = make([]complex128, size)

	return nil
}

// energies fills the running sums of squares used as denominators.
func (c *Correlator) energies(reference, target []float64) (prefix, tail []float64) {
	n := len(reference)
	c.sq = core.EnsureLen(c.sq, n)
	c.prefix = core.EnsureLen(c.prefix, n+1)
	c.tail = core.EnsureLen(c.tail, n+1)

	vecmath.MulBlock(c.sq, reference, reference)
	c.prefix[0] = 0
	floats.CumSum(c.prefix[1:], c.sq)

	vecmath.MulBlock(c.sq, target, target)
	c.tail[n] = 0
	for i := n - 1; i >= 0; i-- {
		c.tail[i] = c.tail[i+1] + c.sq[i]
	}

	return c.prefix, c.tail
}

func normalize(num, den1, den2 float64) float64 {
	if den1 > 0 && den2 > 0 {
		return num / math.Sqrt(den1*den2)
	}
	return 0
}

func checkInputs(reference, target []float64) error {
	if len(reference) == 0 || len(target) == 0 {
		return ErrEmptyInput
	}
	if len(reference) != len(target) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(reference), len(target))
	}
	return nil
}

// Peak returns the maximum correlation value over all lags, or 0 for an
// empty result.
func Peak(corr []float64) float64 {
	_, v := FindPeak(corr)
	return v
}

// FindPeak returns the first lag reaching the maximum correlation and its value.
// Returns -1, 0 for an empty result.
func FindPeak(corr []float64) (lag int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}

	lag = 0
	value = corr[0]

	for i, v := range corr {
		if v > value {
			lag = i
			value = v
		}
	}

	return lag, value
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
