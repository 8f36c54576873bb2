package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-noisecorr/internal/export"
)

func TestRunSlider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-slider", "0", "-seed", "42"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"Adjust Gaussian Noise σ = 0.00",
		"Clean: μ=",
		"Noise: μ=0.000 | median=0.000 | mode=0.000",
		"Noisy: μ=",
		"Correlation peak = 1.000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunSigmaDeterministic(t *testing.T) {
	args := []string{"-sigma", "3", "-seed", "42"}
	var a, b, stderr bytes.Buffer
	if code := run(args, &a, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if code := run(args, &b, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if a.String() != b.String() {
		t.Fatalf("outputs differ:\n%s\n---\n%s", a.String(), b.String())
	}
	if !strings.Contains(a.String(), "σ = 3.00") {
		t.Fatalf("unexpected output:\n%s", a.String())
	}
}

func TestRunSweepWithExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.parquet")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-sweep", "-step", "100", "-n", "64", "-fft", "-out", path, "-compression", "zstd"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	// header, rule, and slider positions 0, 100, 200, 300
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[5], "3.00") {
		t.Fatalf("last row = %q, want sigma 3.00", lines[5])
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := export.ReadRows(f)
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 4*64 {
		t.Fatalf("rows = %d, want %d", len(rows), 4*64)
	}
}

func TestRunInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "negative sigma", args: []string{"-sigma", "-1"}, code: 1},
		{name: "NaN sigma", args: []string{"-sigma", "NaN"}, code: 1},
		{name: "unknown codec", args: []string{"-compression", "bogus"}, code: 2},
		{name: "zero length", args: []string{"-n", "0"}, code: 1},
		{name: "bad sample rate", args: []string{"-fs", "-5"}, code: 1},
		{name: "bad log level", args: []string{"-log-level", "loud"}, code: 2},
		{name: "bad step", args: []string{"-sweep", "-step", "0"}, code: 2},
		{name: "stray argument", args: []string{"extra"}, code: 2},
		{name: "unknown flag", args: []string{"-nope"}, code: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr %s)", code, tt.code, stderr.String())
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "Usage: noisecorr") {
		t.Fatalf("usage not printed: %s", stderr.String())
	}
}

func TestRunBadCompressionKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.parquet")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-sigma", "1", "-n", "64", "-out", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat export: %v", err)
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"-sigma", "1", "-n", "64", "-out", path, "-compression", "bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat export: %v", err)
	}
	if after.Size() != before.Size() || before.Size() == 0 {
		t.Fatalf("export size = %d, want %d", after.Size(), before.Size())
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunNaNSigmaNotReplacedBySlider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-sigma", "NaN", "-slider", "0"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "sigma") {
		t.Fatalf("stderr = %q, want sigma error", stderr.String())
	}
}

func TestRunExplicitZeroSigmaOverridesSlider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-sigma", "0", "-slider", "300"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "σ = 0.00") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}
