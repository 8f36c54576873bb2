package conv

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-noisecorr/internal/testutil"
)

func BenchmarkCorrelate(b *testing.B) {
	for _, n := range []int{256, 1000, 4096} {
		ref := testutil.DeterministicSine(5, 1000, 1, n)
		tgt := testutil.DeterministicGaussian(1, 1, n)

		b.Run("direct/"+strconv.Itoa(n), func(b *testing.B) {
			c := NewCorrelator()
			b.ReportAllocs()

			for range b.N {
				_, _ = c.Correlate(ref, tgt)
			}
		})

		b.Run("fft/"+strconv.Itoa(n), func(b *testing.B) {
			c := NewCorrelator()
			b.ReportAllocs()

			for range b.N {
				_, _ = c.CorrelateFFT(ref, tgt)
			}
		})
	}
}
