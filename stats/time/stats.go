// Package time computes descriptive time-domain statistics of a signal:
// mean, median and a histogram-based mode estimate.
//
//nolint:revive
package time

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bucket count used by [Calculate].
const DefaultBins = 50

// Errors returned by statistics functions.
var (
	ErrEmptyInput      = errors.New("stats: empty input")
	ErrInvalidArgument = errors.New("stats: invalid argument")
)

// Summary holds descriptive statistics of a signal.
// A Summary is a value: recomputing replaces it, it is never updated in place.
type Summary struct {
	Length int
	Mean   float64
	Median float64
	Mode   float64 // histogram estimate, see [Mode]
	Min    float64
	Max    float64
}

// Calculate computes the summary of signal using [DefaultBins] for the mode.
func Calculate(signal []float64) (Summary, error) {
	return CalculateWithBins(signal, DefaultBins)
}

// CalculateWithBins computes the summary of signal with the given histogram
// bucket count for the mode estimate. The input is never reordered.
func CalculateWithBins(signal []float64, bins int) (Summary, error) {
	if len(signal) == 0 {
		return Summary{}, ErrEmptyInput
	}

	if bins <= 0 {
		return Summary{}, fmt.Errorf("%w: bins must be > 0: %d", ErrInvalidArgument, bins)
	}

	minVal := floats.Min(signal)
	maxVal := floats.Max(signal)

	return Summary{
		Length: len(signal),
		Mean:   stat.Mean(signal, nil),
		Median: median(signal),
		Mode:   histogramMode(signal, minVal, maxVal, bins),
		Min:    minVal,
		Max:    maxVal,
	}, nil
}

// Mean returns the arithmetic average of signal, or 0 for an empty signal.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return stat.Mean(signal, nil)
}

// Median returns the middle value of signal sorted ascending. For an even
// length it averages the two central values. Returns 0 for an empty signal.
func Median(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return median(signal)
}

func median(signal []float64) float64 {
	sorted := slices.Clone(signal)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return 0.5 * (sorted[n/2-1] + sorted[n/2])
	}

	return sorted[n/2]
}

// Mode estimates the most frequent value of signal by partitioning
// [min, max] into bins equal-width buckets and returning the midpoint of the
// most populated one. Ties go to the lowest bucket. A constant signal returns
// its value exactly.
func Mode(signal []float64, bins int) (float64, error) {
	if len(signal) == 0 {
		return 0, ErrEmptyInput
	}

	if bins <= 0 {
		return 0, fmt.Errorf("%w: bins must be > 0: %d", ErrInvalidArgument, bins)
	}

	return histogramMode(signal, floats.Min(signal), floats.Max(signal), bins), nil
}

func histogramMode(signal []float64, minVal, maxVal float64, bins int) float64 {
	width := (maxVal - minVal) / float64(bins)
	if width == 0 {
		return minVal
	}

	hist := make([]int, bins)
	for _, v := range signal {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}

		if idx < 0 {
			idx = 0
		}

		hist[idx]++
	}

	// First bucket reaching the maximum wins.
	best := 0
	for i, c := range hist {
		if c > hist[best] {
			best = i
		}
	}

	return minVal + width*(float64(best)+0.5)
}
