package analysis

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-noisecorr/dsp/core"
	"github.com/cwbudde/algo-noisecorr/dsp/signal"
	timestats "github.com/cwbudde/algo-noisecorr/stats/time"
)

// Slider range of the interactive noise control and its scale to sigma.
const (
	SliderMin   = 0
	SliderMax   = 300
	SliderScale = 100.0
)

// Result is the full set of signals and statistics derived for one sigma.
type Result struct {
	Sigma      float64
	SampleRate float64

	Clean       []float64
	Noise       []float64
	Noisy       []float64
	Correlation []float64 // one value per lag, lag i is i/SampleRate seconds

	CleanStats timestats.Summary
	NoiseStats timestats.Summary
	NoisyStats timestats.Summary

	Peak    float64
	PeakLag int
}

// Report formats the statistics block shown next to the plots: one line per
// signal followed by the correlation peak, values rounded to 3 decimals.
func (r Result) Report() string {
	var b strings.Builder
	writeStatsLine(&b, "Clean", r.CleanStats)
	writeStatsLine(&b, "Noise", r.NoiseStats)
	writeStatsLine(&b, "Noisy", r.NoisyStats)
	fmt.Fprintf(&b, "Correlation peak = %.3f", r.Peak)
	return b.String()
}

func writeStatsLine(b *strings.Builder, label string, s timestats.Summary) {
	fmt.Fprintf(b, "%s: μ=%.3f | median=%.3f | mode=%.3f\n", label, s.Mean, s.Median, s.Mode)
}

// TimeAxis returns the time in seconds of every sample index. The same axis
// serves as the lag axis of Correlation.
func (r Result) TimeAxis() []float64 {
	axis, err := signal.TimeAxis(len(r.Clean), r.SampleRate)
	if err != nil {
		return nil
	}
	return axis
}

// PeakLagSeconds returns the lag of the correlation peak in seconds.
func (r Result) PeakLagSeconds() float64 {
	if r.SampleRate <= 0 || r.PeakLag < 0 {
		return 0
	}
	return float64(r.PeakLag) / r.SampleRate
}

// Panel is one plotted series with its axis titles.
type Panel struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
}

// Panels returns the four series in display order: clean, noise, noisy and
// correlation.
func (r Result) Panels() []Panel {
	x := r.TimeAxis()
	return []Panel{
		{Name: "clean", Title: "Clean Signal", XLabel: "Time (s)", YLabel: "Amplitude", X: x, Y: r.Clean},
		{Name: "noise", Title: "Gaussian Noise", XLabel: "Time (s)", YLabel: "Amplitude", X: x, Y: r.Noise},
		{Name: "noisy", Title: "Noisy Signal", XLabel: "Time (s)", YLabel: "Amplitude", X: x, Y: r.Noisy},
		{Name: "correlation", Title: "Normalized Cross-Correlation", XLabel: "Lag (s)", YLabel: "Correlation", X: x, Y: r.Correlation},
	}
}

// SigmaFromSlider maps a slider position to a noise standard deviation.
// Positions outside [SliderMin, SliderMax] are clamped.
func SigmaFromSlider(pos int) float64 {
	return core.Clamp(float64(pos), SliderMin, SliderMax) / SliderScale
}

// SliderLabel formats the caption of the noise slider.
func SliderLabel(sigma float64) string {
	return fmt.Sprintf("Adjust Gaussian Noise σ = %.2f", sigma)
}
