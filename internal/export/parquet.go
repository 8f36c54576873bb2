// Package export writes analysis results as parquet tables for offline
// plotting.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/algo-noisecorr/analysis"
	parquet "github.com/parquet-go/parquet-go"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("export: writer closed")

// SampleRow is one sample index of the four panels at one noise level.
// Time doubles as the correlation lag in seconds.
type SampleRow struct {
	Sigma       float64 `parquet:"sigma"`
	Index       int64   `parquet:"index"`
	Time        float64 `parquet:"time"`
	Clean       float64 `parquet:"clean"`
	Noise       float64 `parquet:"noise"`
	Noisy       float64 `parquet:"noisy"`
	Correlation float64 `parquet:"correlation"`
}

// Writer streams results into a single parquet file.
type Writer struct {
	pw     *parquet.GenericWriter[SampleRow]
	rows   int
	closed bool
}

// NewWriter creates a parquet writer on w using the named compression
// codec: snappy (default), zstd, gzip, brotli, lz4 or none.
func NewWriter(w io.Writer, compression string) (*Writer, error) {
	opt, err := CompressionOption(compression)
	if err != nil {
		return nil, err
	}
	return &Writer{pw: parquet.NewGenericWriter[SampleRow](w, opt)}, nil
}

// WriteResult appends one row per sample of r.
func (x *Writer) WriteResult(r analysis.Result) error {
	if x.closed {
		return ErrClosed
	}
	rows, err := Rows(r)
	if err != nil {
		return err
	}
	n, err := x.pw.Write(rows)
	x.rows += n
	if err != nil {
		return fmt.Errorf("export: write rows: %w", err)
	}
	return nil
}

// Rows returns the number of rows written so far.
func (x *Writer) Rows() int {
	return x.rows
}

// Close flushes buffered rows and writes the parquet footer. The underlying
// io.Writer is not closed.
func (x *Writer) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	if err := x.pw.Close(); err != nil {
		return fmt.Errorf("export: close: %w", err)
	}
	return nil
}

// Rows flattens r into sample rows.
func Rows(r analysis.Result) ([]SampleRow, error) {
	n := len(r.Clean)
	if len(r.Noise) != n || len(r.Noisy) != n || len(r.Correlation) != n {
		return nil, fmt.Errorf("export: inconsistent result lengths %d/%d/%d/%d",
			n, len(r.Noise), len(r.Noisy), len(r.Correlation))
	}
	axis := r.TimeAxis()
	if len(axis) != n {
		return nil, fmt.Errorf("export: invalid sample rate %g", r.SampleRate)
	}

	rows := make([]SampleRow, n)
	for i := range rows {
		rows[i] = SampleRow{
			Sigma:       r.Sigma,
			Index:       int64(i),
			Time:        axis[i],
			Clean:       r.Clean[i],
			Noise:       r.Noise[i],
			Noisy:       r.Noisy[i],
			Correlation: r.Correlation[i],
		}
	}
	return rows, nil
}

// ReadRows reads every sample row from a parquet file.
func ReadRows(ra io.ReaderAt) ([]SampleRow, error) {
	gr := parquet.NewGenericReader[SampleRow](ra)
	defer gr.Close()

	out := make([]SampleRow, 0, 1024)
	batch := make([]SampleRow, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: read rows: %w", err)
		}
	}
	return out, nil
}

// CompressionOption maps a codec name to a parquet writer option.
func CompressionOption(name string) (parquet.WriterOption, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snappy":
		return parquet.Compression(&parquet.Snappy), nil
	case "zstd":
		return parquet.Compression(&parquet.Zstd), nil
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip), nil
	case "brotli":
		return parquet.Compression(&parquet.Brotli), nil
	case "lz4":
		return parquet.Compression(&parquet.Lz4Raw), nil
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed), nil
	default:
		return nil, fmt.Errorf("export: unsupported compression %q", name)
	}
}
