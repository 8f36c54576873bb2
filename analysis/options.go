package analysis

import (
	"github.com/cwbudde/algo-noisecorr/dsp/core"
	"go.uber.org/zap"
)

// DefaultSeed seeds the noise generator when no seed option is given.
const DefaultSeed int64 = 1

type settings struct {
	cfg    core.AnalyzerConfig
	seed   int64
	useFFT bool
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*settings)

// WithConfig replaces the session parameters. Unlike core options, the
// values are not filtered here; New rejects invalid ones.
func WithConfig(cfg core.AnalyzerConfig) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithCoreOptions applies core options (length, sample rate, frequency, bins)
// on top of the current parameters.
func WithCoreOptions(opts ...core.Option) Option {
	return func(s *settings) {
		for _, opt := range opts {
			if opt != nil {
				opt(&s.cfg)
			}
		}
	}
}

// WithSeed sets the seed of the session's noise generator.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

// WithFFT selects the FFT-based correlation path.
func WithFFT(enabled bool) Option {
	return func(s *settings) {
		s.useFFT = enabled
	}
}

// WithLogger sets the logger used for update diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func applyOptions(opts ...Option) settings {
	s := settings{
		cfg:    core.DefaultAnalyzerConfig(),
		seed:   DefaultSeed,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
