package core

// AnalyzerConfig defines the fixed parameters of a noise analysis session.
type AnalyzerConfig struct {
	SampleRate float64 // Hz
	Length     int     // samples per signal
	Frequency  float64 // reference sine frequency in Hz
	Bins       int     // histogram buckets for the mode estimate
}

// Option mutates an AnalyzerConfig.
type Option func(*AnalyzerConfig)

// DefaultAnalyzerConfig returns the defaults used by the interactive front end:
// one second of a 5 Hz sine sampled at 1 kHz.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SampleRate: 1000,
		Length:     1000,
		Frequency:  5,
		Bins:       50,
	}
}

// WithSampleRate sets the sampling rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *AnalyzerConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithLength sets the number of samples per signal.
func WithLength(length int) Option {
	return func(cfg *AnalyzerConfig) {
		if length > 0 {
			cfg.Length = length
		}
	}
}

// WithFrequency sets the reference sine frequency.
func WithFrequency(freqHz float64) Option {
	return func(cfg *AnalyzerConfig) {
		if IsFinite(freqHz) {
			cfg.Frequency = freqHz
		}
	}
}

// WithBins sets the histogram bucket count used for the mode estimate.
func WithBins(bins int) Option {
	return func(cfg *AnalyzerConfig) {
		if bins > 0 {
			cfg.Bins = bins
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
