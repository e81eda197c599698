package filter

import "sync"

// halfWeights are the centre-inclusive halves of the fixed blur kernels,
// outermost tap first. Kernels are symmetric around the last entry.
var halfWeights = map[int][]float32{
	5:  {0.153388, 0.221461, 0.250301},
	7:  {0.071303, 0.131514, 0.189879, 0.214607},
	9:  {0.028532, 0.067234, 0.124009, 0.179044, 0.20236},
	11: {0.0093, 0.028002, 0.065984, 0.121703, 0.175713, 0.198596},
	13: {0.002406, 0.009255, 0.027867, 0.065666, 0.121117, 0.174868, 0.197641},
	15: {0.000489, 0.002403, 0.009246, 0.02784, 0.065602, 0.120999, 0.174697, 0.197448},
}

// DefaultKernelSize is used when an unsupported size is requested.
const DefaultKernelSize = 5

// SupportedKernelSize reports whether a fixed weight table exists for size.
func SupportedKernelSize(size int) bool {
	_, ok := halfWeights[size]
	return ok
}

// kernelCache caches full symmetric kernels by size.
var kernelCache sync.Map

// Weights returns the full symmetric kernel for size.
func Weights(size int) []float32 {
	if !SupportedKernelSize(size) {
		size = DefaultKernelSize
	}
	if cached, ok := kernelCache.Load(size); ok {
		return cached.([]float32)
	}
	half := halfWeights[size]
	k := make([]float32, size)
	for i, w := range half {
		k[i] = w
		k[size-1-i] = w
	}
	kernelCache.Store(size, k)
	return k
}
