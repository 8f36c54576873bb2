// Package conv provides lag-indexed normalized cross-correlation of two
// equal-length signals.
//
// For lag L only the overlapping part of both signals is compared: the
// reference prefix reference[0:N-L] against the shifted target
// target[L:N]. Each output value is the dot product of the two segments
// divided by the geometric mean of their energies:
//
//	out[L] = Σ r[i]·t[i+L] / sqrt(Σ r[i]² · Σ t[i+L]²)
//
// No mean is subtracted, so this is a normalized dot-product similarity and
// not a Pearson coefficient. Because the overlap window shrinks as the lag
// grows, the measure is asymmetric in its inputs. When either segment has
// zero energy the value is defined as 0.
//
// # Usage
//
//	corr, err := conv.LagCorrelate(clean, noisy)
//	lag, peak := conv.FindPeak(corr)
//
// For repeated correlation of signals of the same length, reuse a
// [Correlator] to avoid reallocating energy buffers and FFT plans:
//
//	c := conv.NewCorrelator()
//	corr, err := c.Correlate(clean, noisy)
//
// # Performance
//
// The direct form is O(N²): one dot product per lag, with segment energies
// taken from running sums of squares. It is the hot path of an analysis
// update. [LagCorrelateFFT] computes every numerator at once through a
// zero-padded FFT cross-correlation in O(N log N) and agrees with the direct
// form to within floating-point rounding.
package conv
