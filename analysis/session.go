package analysis

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/cwbudde/algo-noisecorr/dsp/conv"
	"github.com/cwbudde/algo-noisecorr/dsp/core"
	"github.com/cwbudde/algo-noisecorr/dsp/signal"
	timestats "github.com/cwbudde/algo-noisecorr/stats/time"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned by New when the session parameters cannot
// produce a reference signal.
var ErrInvalidConfig = errors.New("analysis: invalid config")

// Session owns the reference signal and noise generator of one independent
// analysis. Update calls are serialized so that a seed always reproduces the
// same sequence of noise samples.
type Session struct {
	mu sync.Mutex

	cfg    core.AnalyzerConfig
	seed   int64
	useFFT bool
	logger *zap.Logger

	rng    *rand.Rand
	clean  []float64
	corr   *conv.Correlator
	latest Result

	subs    map[int]func(Result)
	nextSub int
}

// New creates a session and computes its initial, noise-free result.
func New(opts ...Option) (*Session, error) {
	st := applyOptions(opts...)
	if st.cfg.Bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be > 0: %d", ErrInvalidConfig, st.cfg.Bins)
	}

	clean, err := signal.Clean(st.cfg.Length, st.cfg.SampleRate, st.cfg.Frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := &Session{
		cfg:    st.cfg,
		seed:   st.seed,
		useFFT: st.useFFT,
		logger: st.logger,
		rng:    signal.NewRand(st.seed),
		clean:  clean,
		corr:   conv.NewCorrelator(),
		subs:   make(map[int]func(Result)),
	}

	initial, err := s.compute(0, make([]float64, len(clean)))
	if err != nil {
		return nil, err
	}
	s.latest = initial

	s.logger.Debug("analysis session created",
		zap.Int("length", st.cfg.Length),
		zap.Float64("sample_rate", st.cfg.SampleRate),
		zap.Float64("frequency", st.cfg.Frequency),
		zap.Int("bins", st.cfg.Bins),
		zap.Int64("seed", st.seed),
		zap.Bool("fft", st.useFFT),
	)

	return s, nil
}

// Config returns the fixed session parameters.
func (s *Session) Config() core.AnalyzerConfig {
	return s.cfg
}

// Seed returns the seed of the session's noise generator.
func (s *Session) Seed() int64 {
	return s.seed
}

// Clean returns a copy of the reference signal.
func (s *Session) Clean() []float64 {
	return core.Clone(s.clean)
}

// Latest returns the most recent result. Right after New it is the
// noise-free result for sigma 0.
func (s *Session) Latest() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Update draws fresh noise with standard deviation sigma and recomputes all
// derived signals and statistics. Subscribers are notified after the session
// state has been replaced, outside the session lock.
func (s *Session) Update(sigma float64) (Result, error) {
	start := time.Now()

	s.mu.Lock()
	noise, err := signal.GaussianNoise(s.cfg.Length, sigma, s.rng)
	if err != nil {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("analysis: update sigma=%g: %w", sigma, err)
	}

	res, err := s.compute(sigma, noise)
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	s.latest = res
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("analysis updated",
		zap.Float64("sigma", sigma),
		zap.Float64("peak", res.Peak),
		zap.Int("peak_lag", res.PeakLag),
		zap.Duration("elapsed", time.Since(start)),
	)

	notify(subs, res)
	return res, nil
}

// Reset reseeds the noise generator and restores the noise-free result.
func (s *Session) Reset() error {
	s.mu.Lock()
	s.rng.Seed(s.seed)
	res, err := s.compute(0, make([]float64, len(s.clean)))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.latest = res
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("analysis session reset", zap.Int64("seed", s.seed))

	notify(subs, res)
	return nil
}

// Subscribe registers fn to be called with every new result. The returned
// function removes the subscription. Subscribers run on the goroutine that
// called Update and must not block for long.
func (s *Session) Subscribe(fn func(Result)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// subscribersLocked returns the subscribers in registration order.
func (s *Session) subscribersLocked() []func(Result) {
	if len(s.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(Result), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

func notify(subs []func(Result), res Result) {
	for _, fn := range subs {
		fn(res)
	}
}

// compute derives everything from noise. Callers hold s.mu or own s exclusively.
func (s *Session) compute(sigma float64, noise []float64) (Result, error) {
	noisy, err := signal.Add(s.clean, noise)
	if err != nil {
		return Result{}, fmt.Errorf("analysis: add noise: %w", err)
	}

	var corr []float64
	if s.useFFT {
		corr, err = s.corr.CorrelateFFT(s.clean, noisy)
	} else {
		corr, err = s.corr.Correlate(s.clean, noisy)
	}
	if err != nil {
		return Result{}, fmt.Errorf("analysis: correlate: %w", err)
	}

	cleanStats, err := timestats.CalculateWithBins(s.clean, s.cfg.Bins)
	if err != nil {
		return Result{}, fmt.Errorf("analysis: clean stats: %w", err)
	}
	noiseStats, err := timestats.CalculateWithBins(noise, s.cfg.Bins)
	if err != nil {
		return Result{}, fmt.Errorf("analysis: noise stats: %w", err)
	}
	noisyStats, err := timestats.CalculateWithBins(noisy, s.cfg.Bins)
	if err != nil {
		return Result{}, fmt.Errorf("analysis: noisy stats: %w", err)
	}

	lag, peak := conv.FindPeak(corr)

	return Result{
		Sigma:       sigma,
		SampleRate:  s.cfg.SampleRate,
		Clean:       core.Clone(s.clean),
		Noise:       noise,
		Noisy:       noisy,
		Correlation: corr,
		CleanStats:  cleanStats,
		NoiseStats:  noiseStats,
		NoisyStats:  noisyStats,
		Peak:        peak,
		PeakLag:     lag,
	}, nil
}
