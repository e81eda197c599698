package filter

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSimplex3Range(t *testing.T) {
	for x := float32(-4); x < 4; x += 0.37 {
		for y := float32(-4); y < 4; y += 0.41 {
			n := Simplex3(x, y, 0.5)
			if math32.IsNaN(n) || n < -1.1 || n > 1.1 {
				t.Fatalf("Simplex3(%v, %v) = %v, out of range", x, y, n)
			}
			if n != Simplex3(x, y, 0.5) {
				t.Fatalf("Simplex3(%v, %v) is not deterministic", x, y)
			}
		}
	}
}

func TestSimplex3Varies(t *testing.T) {
	a := Simplex3(0.3, 0.7, 0.1)
	b := Simplex3(2.9, 1.3, 0.1)
	if a == b {
		t.Errorf("Simplex3 returned %v at two distant points", a)
	}
}

func TestPerlin3ZeroOnLattice(t *testing.T) {
	rep := [3]float32{16, 16, 16}
	for _, p := range [][3]float32{{0, 0, 0}, {1, 2, 3}, {5, 0, 7}} {
		if n := Perlin3(p, rep); math32.Abs(n) > 1e-5 {
			t.Errorf("Perlin3(%v) = %v, want 0 at lattice points", p, n)
		}
	}
}

func TestTurbulenceNonNegative(t *testing.T) {
	rep := [3]float32{8, 8, 8}
	for x := float32(0); x < 4; x += 0.53 {
		if n := Turbulence([3]float32{x, x * 0.5, 1.25}, rep, 2, 0.5); n < 0 || math32.IsNaN(n) {
			t.Fatalf("Turbulence at %v = %v", x, n)
		}
	}
}
