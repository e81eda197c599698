package filter

import (
	"math"
	"testing"
)

func TestWeightsSymmetricAndNormalized(t *testing.T) {
	for _, size := range []int{5, 7, 9, 11, 13, 15} {
		k := Weights(size)
		if len(k) != size {
			t.Fatalf("size %d: got %d taps", size, len(k))
		}
		var sum float64
		for i := range k {
			if k[i] != k[size-1-i] {
				t.Errorf("size %d: tap %d not symmetric", size, i)
			}
			sum += float64(k[i])
		}
		if math.Abs(sum-1) > 0.001 {
			t.Errorf("size %d: sum = %f, want 1", size, sum)
		}
	}
}

func TestWeightsUnsupportedFallsBack(t *testing.T) {
	if got := len(Weights(6)); got != DefaultKernelSize {
		t.Errorf("Weights(6) has %d taps, want %d", got, DefaultKernelSize)
	}
	if SupportedKernelSize(4) {
		t.Error("4 should not be supported")
	}
}
