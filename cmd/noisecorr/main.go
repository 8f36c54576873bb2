// Command noisecorr adds Gaussian noise to a sine reference and reports the
// statistics and clean-vs-noisy correlation of the result.
//
// Usage:
//
//	noisecorr [flags]
//
// The noise level is given either directly with -sigma or as a slider
// position in [0, 300] with -slider (sigma = position / 100). With -sweep the
// whole slider range is stepped through and summarized in a table.
//
// Examples:
//
//	noisecorr -slider 150
//	noisecorr -sigma 3 -seed 42
//	noisecorr -sweep -step 25 -out sweep.parquet
//
// Defaults can be set through NOISECORR_SEED, NOISECORR_LENGTH,
// NOISECORR_SAMPLE_RATE, NOISECORR_FREQUENCY, NOISECORR_BINS,
// NOISECORR_LOG_LEVEL and NOISECORR_LOG_FORMAT.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-noisecorr/analysis"
	"github.com/cwbudde/algo-noisecorr/dsp/core"
	"github.com/cwbudde/algo-noisecorr/internal/config"
	"github.com/cwbudde/algo-noisecorr/internal/export"
	"github.com/cwbudde/algo-noisecorr/internal/logging"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	sigma       float64
	sigmaSet    bool
	slider      int
	sweep       bool
	step        int
	seed        int64
	cfg         core.AnalyzerConfig
	fft         bool
	out         string
	compression string
	logLevel    string
	logFormat   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	env := config.Load()

	var o options
	fs := flag.NewFlagSet("noisecorr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.sigma, "sigma", 0, "noise standard deviation (overrides -slider)")
	fs.IntVar(&o.slider, "slider", 0, "slider position in [0, 300]; sigma = position / 100")
	fs.BoolVar(&o.sweep, "sweep", false, "step through the whole slider range and print a table")
	fs.IntVar(&o.step, "step", 50, "slider step for -sweep")
	fs.Int64Var(&o.seed, "seed", env.Seed, "noise generator seed")
	fs.IntVar(&o.cfg.Length, "n", env.Analyzer.Length, "samples per signal")
	fs.Float64Var(&o.cfg.SampleRate, "fs", env.Analyzer.SampleRate, "sample rate in Hz")
	fs.Float64Var(&o.cfg.Frequency, "freq", env.Analyzer.Frequency, "reference sine frequency in Hz")
	fs.IntVar(&o.cfg.Bins, "bins", env.Analyzer.Bins, "histogram buckets for the mode estimate")
	fs.BoolVar(&o.fft, "fft", false, "compute the correlation with FFTs")
	fs.StringVar(&o.out, "out", "", "write all four series to this parquet file")
	fs.StringVar(&o.compression, "compression", "snappy", "parquet codec: snappy, zstd, gzip, brotli, lz4, none")
	fs.StringVar(&o.logLevel, "log-level", env.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", env.LogFormat, "log format: console or json")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: noisecorr [flags]\n\n")
		fmt.Fprintf(stderr, "Adds Gaussian noise to a sine and reports mean, median, mode and correlation peak.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  noisecorr -slider 150\n")
		fmt.Fprintf(stderr, "  noisecorr -sigma 3 -seed 42\n")
		fmt.Fprintf(stderr, "  noisecorr -sweep -step 25 -out sweep.parquet\n")
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.sweep && o.step <= 0 {
		return o, fmt.Errorf("-step must be > 0: %d", o.step)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "sigma" {
			o.sigmaSet = true
		}
	})

	// Reject an unknown codec before -out is created or truncated.
	if _, err := export.CompressionOption(o.compression); err != nil {
		return o, err
	}

	return o, nil
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := logging.NewWithWriter(stderr, o.logLevel, o.logFormat)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	defer func() { _ = logging.Sync(logger) }()

	session, err := analysis.New(
		analysis.WithConfig(o.cfg),
		analysis.WithSeed(o.seed),
		analysis.WithFFT(o.fft),
		analysis.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var exportErr error
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()

		w, err := export.NewWriter(f, o.compression)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		cancel := session.Subscribe(func(r analysis.Result) {
			if exportErr == nil {
				exportErr = w.WriteResult(r)
			}
		})
		defer func() {
			cancel()
			if err := w.Close(); err != nil && exportErr == nil {
				exportErr = err
			}
			if exportErr != nil {
				fmt.Fprintf(stderr, "error: %v\n", exportErr)
				code = 1
				return
			}
			logger.Info("parquet export written", zap.String("path", o.out), zap.Int("rows", w.Rows()))
		}()
	}

	if o.sweep {
		if err := runSweep(session, o.step, stdout); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	sigma := analysis.SigmaFromSlider(o.slider)
	if o.sigmaSet {
		sigma = o.sigma
	}

	cancel := session.Subscribe(func(r analysis.Result) {
		fmt.Fprintln(stdout, analysis.SliderLabel(r.Sigma))
		fmt.Fprintln(stdout, r.Report())
	})
	defer cancel()

	if _, err := session.Update(sigma); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runSweep(session *analysis.Session, step int, stdout io.Writer) error {
	var results []analysis.Result
	for pos := analysis.SliderMin; pos <= analysis.SliderMax; pos += step {
		r, err := session.Update(analysis.SigmaFromSlider(pos))
		if err != nil {
			return err
		}
		results = append(results, r)
	}
	return printSweep(stdout, results)
}

func printSweep(stdout io.Writer, results []analysis.Result) error {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Sigma\tClean μ\tNoise μ\tNoise median\tNoise mode\tNoisy μ\tNoisy median\tNoisy mode\tPeak\tPeak lag [s]\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t-------\t-------\t------------\t----------\t-------\t------------\t----------\t----\t------------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(tw, "%.2f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			r.Sigma,
			r.CleanStats.Mean,
			r.NoiseStats.Mean,
			r.NoiseStats.Median,
			r.NoiseStats.Mode,
			r.NoisyStats.Mean,
			r.NoisyStats.Median,
			r.NoisyStats.Mode,
			r.Peak,
			r.PeakLagSeconds(),
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
