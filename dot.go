package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// DotOptions configures DotFilter.
type DotOptions struct {
	Scale     float32 `toml:"scale" yaml:"scale"`
	Angle     float32 `toml:"angle" yaml:"angle"` // radians
	Grayscale bool    `toml:"grayscale" yaml:"grayscale"`
}

// DefaultDotOptions returns scale 1, angle 5 and grayscale output.
func DefaultDotOptions() DotOptions {
	return DotOptions{Scale: 1, Angle: 5, Grayscale: true}
}

// fromPositional maps (scale, angle, grayscale).
func (o *DotOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Scale = v
	}
	if v, ok := a.Float(1); ok {
		o.Angle = v
	}
	if v, ok := a.Bool(2); ok {
		o.Grayscale = v
	}
}

//go:embed shaders/dot.wgsl
var dotSource string

var (
	dotLayout = NewUniformLayout("DotUniforms",
		F32("uScale"),
		F32("uAngle"),
		F32("uGrayScale"),
	)
	dotProgram = NewProgram("dot", dotSource, dotLayout)
)

// DotFilter renders a halftone dot screen.
type DotFilter struct {
	Base
}

// NewDotFilter creates a dot screen filter.
func NewDotFilter(opts ...Option[DotOptions]) *DotFilter {
	o := Resolve(DefaultDotOptions(), opts...)
	f := &DotFilter{Base: newBase(dotProgram)}
	f.Scale().Set(o.Scale)
	f.Angle().Set(o.Angle)
	f.SetGrayscale(o.Grayscale)
	f.raster = f.rasterize
	return f
}

// Scale is the dot frequency.
func (f *DotFilter) Scale() Scalar { return f.uniforms.Scalar("uScale") }

// Angle is the screen rotation in radians.
func (f *DotFilter) Angle() Scalar { return f.uniforms.Scalar("uAngle") }

// Grayscale reports whether colors are flattened before screening.
func (f *DotFilter) Grayscale() bool { return f.uniforms.Scalar("uGrayScale").Bool() }

// SetGrayscale toggles grayscale output.
func (f *DotFilter) SetGrayscale(v bool) { f.uniforms.Scalar("uGrayScale").SetBool(v) }

func (f *DotFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	scale, angle, gray := f.Scale().Get(), f.Angle().Get(), f.Grayscale()
	sin, cos := math32.Sincos(angle)
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		if gray {
			v := (r + g + b) / 3
			r, g, b = v, v, v
		}
		px := (cos*x - sin*y) * scale
		py := (sin*x + cos*y) * scale
		p := math32.Sin(px) * math32.Sin(py) * 4
		return r*10 - 5 + p, g*10 - 5 + p, b*10 - 5 + p, a
	})
}
