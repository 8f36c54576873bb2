package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-noisecorr/dsp/core"
)

func ExampleApplyOptions() {
	cfg := core.ApplyOptions(
		core.WithSampleRate(2000),
		core.WithLength(512),
	)

	fmt.Printf("sampleRate=%.0f length=%d freq=%.0f bins=%d\n", cfg.SampleRate, cfg.Length, cfg.Frequency, cfg.Bins)

	// Output:
	// sampleRate=2000 length=512 freq=5 bins=50
}
