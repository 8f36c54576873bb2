// Package analysis ties signal generation, statistics and correlation into a
// caller-owned session.
//
// A [Session] is built once with fixed parameters (length, sample rate,
// reference frequency, seed) and owns its clean reference and its own
// pseudorandom generator. Each call to [Session.Update] with a new noise
// standard deviation regenerates the noise, the noisy signal, the
// clean-vs-noisy correlation and all statistics, and hands the resulting
// [Result] to subscribers. Presentation layers subscribe to updates and pull
// the data they render; the session never reaches into them.
//
//	s, err := analysis.New(analysis.WithSeed(42))
//	if err != nil { ... }
//	cancel := s.Subscribe(func(r analysis.Result) { fmt.Println(r.Report()) })
//	defer cancel()
//	_, err = s.Update(analysis.SigmaFromSlider(150))
package analysis
