package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// EmbossOptions configures EmbossFilter.
type EmbossOptions struct {
	Strength float32 `toml:"strength" yaml:"strength"`
}

// DefaultEmbossOptions returns strength 5.
func DefaultEmbossOptions() EmbossOptions {
	return EmbossOptions{Strength: 5}
}

// fromPositional maps (strength).
func (o *EmbossOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Strength = v
	}
}

//go:embed shaders/emboss.wgsl
var embossSource string

var (
	embossLayout  = NewUniformLayout("EmbossUniforms", F32("uStrength"))
	embossProgram = NewProgram("emboss", embossSource, embossLayout)
)

// EmbossFilter renders a gray relief from diagonal differences.
type EmbossFilter struct {
	Base
}

// NewEmbossFilter creates an emboss filter.
func NewEmbossFilter(opts ...Option[EmbossOptions]) *EmbossFilter {
	o := Resolve(DefaultEmbossOptions(), opts...)
	f := &EmbossFilter{Base: newBase(embossProgram)}
	f.Strength().Set(o.Strength)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		s := filter.NewSampler(src)
		k := f.Strength().Get()
		filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
			r0, g0, b0, _ := s.At(x-1, y-1)
			r1, g1, b1, _ := s.At(x+1, y+1)
			_, _, _, a := s.At(x, y)
			gray := 0.5 + ((r1-r0)+(g1-g0)+(b1-b0))*k/3
			return gray * a, gray * a, gray * a, a
		})
	}
	return f
}

// Strength is the relief strength.
func (f *EmbossFilter) Strength() Scalar { return f.uniforms.Scalar("uStrength") }
