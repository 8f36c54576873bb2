// Package config resolves command-line defaults from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-noisecorr/analysis"
	"github.com/cwbudde/algo-noisecorr/dsp/core"
)

// Environment variables read by Load.
const (
	EnvSeed       = "NOISECORR_SEED"
	EnvLength     = "NOISECORR_LENGTH"
	EnvSampleRate = "NOISECORR_SAMPLE_RATE"
	EnvFrequency  = "NOISECORR_FREQUENCY"
	EnvBins       = "NOISECORR_BINS"
	EnvLogLevel   = "NOISECORR_LOG_LEVEL"
	EnvLogFormat  = "NOISECORR_LOG_FORMAT"
)

// Config holds the defaults for one run of the analyzer CLI.
type Config struct {
	Analyzer  core.AnalyzerConfig
	Seed      int64
	LogLevel  string
	LogFormat string
}

// Load returns the built-in defaults overridden by any environment variables
// that are set and parse cleanly.
func Load() Config {
	def := core.DefaultAnalyzerConfig()
	return Config{
		Analyzer: core.AnalyzerConfig{
			SampleRate: EnvFloatOr(EnvSampleRate, def.SampleRate),
			Length:     EnvIntOr(EnvLength, def.Length),
			Frequency:  EnvFloatOr(EnvFrequency, def.Frequency),
			Bins:       EnvIntOr(EnvBins, def.Bins),
		},
		Seed:      EnvInt64Or(EnvSeed, analysis.DefaultSeed),
		LogLevel:  EnvOr(EnvLogLevel, "warn"),
		LogFormat: EnvOr(EnvLogFormat, "console"),
	}
}

// EnvOr returns the trimmed env value or def when empty.
func EnvOr(key, def string) string {
	v := strings.TrimSpace(strings.Trim(os.Getenv(key), `"`))
	if v == "" {
		return def
	}
	return v
}

// EnvIntOr returns the parsed int env value or def on empty/parse failure.
func EnvIntOr(key string, def int) int {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvInt64Or returns the parsed int64 env value or def on empty/parse failure.
func EnvInt64Or(key string, def int64) int64 {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// EnvFloatOr returns the parsed float env value or def on empty/parse failure.
func EnvFloatOr(key string, def float64) float64 {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
