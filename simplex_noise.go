package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// SimplexNoiseOptions configures SimplexNoiseFilter.
type SimplexNoiseOptions struct {
	// Strength in [0, 1]; 0.5 leaves the noise centered.
	Strength   float32 `toml:"strength" yaml:"strength"`
	NoiseScale float32 `toml:"noise_scale" yaml:"noise_scale"`
	OffsetX    float32 `toml:"offset_x" yaml:"offset_x"`
	OffsetY    float32 `toml:"offset_y" yaml:"offset_y"`
	// OffsetZ moves through the third noise dimension; animate it.
	OffsetZ float32 `toml:"offset_z" yaml:"offset_z"`
	// Step thresholds the noise to black and white when positive.
	Step float32 `toml:"step" yaml:"step"`
}

// DefaultSimplexNoiseOptions returns the documented defaults.
func DefaultSimplexNoiseOptions() SimplexNoiseOptions {
	return SimplexNoiseOptions{Strength: 0.5, NoiseScale: 10, Step: -1}
}

//go:embed shaders/simplex_noise.wgsl
var simplexNoiseSource string

var (
	simplexNoiseLayout = NewUniformLayout("SimplexNoiseUniforms",
		F32("uStrength"),
		F32("uNoiseScale"),
		F32("uStep"),
		V3("uOffset"),
	)
	simplexNoiseProgram = NewProgram("simplex-noise", simplexNoiseSource, simplexNoiseLayout)
)

// SimplexNoiseFilter multiplies the input by 3D simplex noise.
type SimplexNoiseFilter struct {
	Base
}

// NewSimplexNoiseFilter creates a simplex noise filter.
func NewSimplexNoiseFilter(opts ...Option[SimplexNoiseOptions]) *SimplexNoiseFilter {
	o := Resolve(DefaultSimplexNoiseOptions(), opts...)
	f := &SimplexNoiseFilter{Base: newBase(simplexNoiseProgram)}
	f.Strength().Set(o.Strength)
	f.NoiseScale().Set(o.NoiseScale)
	f.Step().Set(o.Step)
	f.uniforms.Vec3("uOffset").Set(o.OffsetX, o.OffsetY, o.OffsetZ)
	f.raster = f.rasterize
	return f
}

// Strength biases the noise toward white.
func (f *SimplexNoiseFilter) Strength() Scalar { return f.uniforms.Scalar("uStrength") }

// NoiseScale is the noise frequency across the area.
func (f *SimplexNoiseFilter) NoiseScale() Scalar { return f.uniforms.Scalar("uNoiseScale") }

// Step is the black and white threshold; non-positive disables it.
func (f *SimplexNoiseFilter) Step() Scalar { return f.uniforms.Scalar("uStep") }

// OffsetX shifts the noise horizontally.
func (f *SimplexNoiseFilter) OffsetX() Scalar { return lane(f.uniforms.Vec3("uOffset").Slice(), 0) }

// OffsetY shifts the noise vertically.
func (f *SimplexNoiseFilter) OffsetY() Scalar { return lane(f.uniforms.Vec3("uOffset").Slice(), 1) }

// OffsetZ moves through the third noise dimension.
func (f *SimplexNoiseFilter) OffsetZ() Scalar { return lane(f.uniforms.Vec3("uOffset").Slice(), 2) }

func (f *SimplexNoiseFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	strength, scale, step := f.Strength().Get(), f.NoiseScale().Get(), f.Step().Get()
	ox, oy, oz := f.OffsetX().Get(), f.OffsetY().Get(), f.OffsetZ().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		n := filter.Simplex3(x/w*scale+ox, y/h*scale+oy, oz)*0.5 + 0.5
		n = max(0, min(1, n+2*strength-1))
		if step > 0 {
			if n <= step {
				n = 0
			} else {
				n = 1
			}
		}
		r, g, b, a := s.At(x, y)
		return r * n, g * n, b * n, a * n
	})
}
