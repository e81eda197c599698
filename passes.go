package filters

import (
	_ "embed"
	"fmt"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// withSurface acquires a pooled surface the size of like, runs fn with it
// and returns it to the pool before withSurface returns, on every path.
func withSurface(sys System, like Surface, fn func(tmp Surface) error) error {
	tmp, err := sys.GetSameSizeSurface(like)
	if err != nil {
		return fmt.Errorf("acquire surface: %w", err)
	}
	defer sys.ReturnSurface(tmp)
	return fn(tmp)
}

// withSurfaces is withSurface for two temporaries.
func withSurfaces(sys System, like Surface, fn func(a, b Surface) error) error {
	return withSurface(sys, like, func(a Surface) error {
		return withSurface(sys, like, func(b Surface) error {
			return fn(a, b)
		})
	})
}

// size returns a texture's dimensions as floats.
func size(t Texture) (w, h float32) {
	return float32(t.Width()), float32(t.Height())
}

// AlphaFilter multiplies every channel by a constant. Multi-pass filters
// use it to copy their input.
type AlphaFilter struct {
	Base
}

//go:embed shaders/alpha.wgsl
var alphaSource string

var (
	alphaLayout  = NewUniformLayout("AlphaUniforms", F32("uAlpha"))
	alphaProgram = NewProgram("alpha", alphaSource, alphaLayout)
)

// NewAlphaFilter creates an alpha filter. Alpha 1 copies the input.
func NewAlphaFilter(alpha float32) *AlphaFilter {
	f := &AlphaFilter{Base: newBase(alphaProgram)}
	f.SetAlpha(alpha)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		if a := f.Alpha(); a == 1 {
			filter.Copy(dst, src)
		} else {
			filter.Scale(dst, src, a)
		}
	}
	return f
}

// Alpha returns the multiplier.
func (f *AlphaFilter) Alpha() float32 { return f.uniforms.Scalar("uAlpha").Get() }

// SetAlpha sets the multiplier.
func (f *AlphaFilter) SetAlpha(v float32) { f.uniforms.Scalar("uAlpha").Set(v) }

// pingPong draws pass n times from input to output, alternating between
// pooled temporaries. prepare runs before draw i.
func pingPong(sys System, pass Pass, input, output Surface, clear bool, n int, prepare func(i int)) error {
	if n <= 1 {
		prepare(0)
		return sys.ApplyFilter(pass, input, output, clear)
	}
	run := func(temps ...Surface) error {
		src := input
		for i := 0; i < n-1; i++ {
			dst := temps[i%len(temps)]
			prepare(i)
			if err := sys.ApplyFilter(pass, src, dst, true); err != nil {
				return err
			}
			src = dst
		}
		prepare(n - 1)
		return sys.ApplyFilter(pass, src, output, clear)
	}
	if n == 2 {
		return withSurface(sys, input, func(a Surface) error { return run(a) })
	}
	return withSurfaces(sys, input, func(a, b Surface) error { return run(a, b) })
}
