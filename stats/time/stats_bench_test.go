//nolint:revive
package time

import (
	"math"
	"strconv"
	"testing"
)

func makeBenchSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}

	return out
}

func BenchmarkCalculate(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096, 16384}
	for _, n := range sizes {
		signal := makeBenchSignal(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for range b.N {
				_, _ = Calculate(signal)
			}
		})
	}
}

func BenchmarkMedian(b *testing.B) {
	signal := makeBenchSignal(1024)
	b.ReportAllocs()

	for range b.N {
		Median(signal)
	}
}
