package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// OldFilmOptions configures OldFilmFilter.
type OldFilmOptions struct {
	Sepia     float32 `toml:"sepia" yaml:"sepia"`
	Noise     float32 `toml:"noise" yaml:"noise"`
	NoiseSize float32 `toml:"noise_size" yaml:"noise_size"`

	// Scratch is the scratch strength; negative values darken.
	Scratch        float32 `toml:"scratch" yaml:"scratch"`
	ScratchDensity float32 `toml:"scratch_density" yaml:"scratch_density"`
	ScratchWidth   float32 `toml:"scratch_width" yaml:"scratch_width"`

	Vignetting      float32 `toml:"vignetting" yaml:"vignetting"`
	VignettingAlpha float32 `toml:"vignetting_alpha" yaml:"vignetting_alpha"`
	VignettingBlur  float32 `toml:"vignetting_blur" yaml:"vignetting_blur"`

	// Seed varies noise and scratches; animate it per frame.
	Seed float32 `toml:"seed" yaml:"seed"`
}

// DefaultOldFilmOptions returns the documented defaults.
func DefaultOldFilmOptions() OldFilmOptions {
	return OldFilmOptions{
		Sepia:           0.3,
		Noise:           0.3,
		NoiseSize:       1,
		Scratch:         0.5,
		ScratchDensity:  0.3,
		ScratchWidth:    1,
		Vignetting:      0.3,
		VignettingAlpha: 1,
		VignettingBlur:  0.3,
	}
}

//go:embed shaders/old_film.wgsl
var oldFilmSource string

var (
	oldFilmLayout = NewUniformLayout("OldFilmUniforms",
		F32("uSepia"),
		V2("uNoise"),
		V3("uScratch"),
		V3("uVignetting"),
		F32("uSeed"),
		V2("uDimensions"),
	)
	oldFilmProgram = NewProgram("old-film", oldFilmSource, oldFilmLayout)
)

// OldFilmFilter applies sepia, grain, scratches and a vignette.
type OldFilmFilter struct {
	Base
}

// NewOldFilmFilter creates an old film filter.
func NewOldFilmFilter(opts ...Option[OldFilmOptions]) *OldFilmFilter {
	o := Resolve(DefaultOldFilmOptions(), opts...)
	f := &OldFilmFilter{Base: newBase(oldFilmProgram)}
	f.Sepia().Set(o.Sepia)
	f.uniforms.Vec2("uNoise").Set(Pt(o.Noise, o.NoiseSize))
	f.uniforms.Vec3("uScratch").Set(o.Scratch, o.ScratchDensity, o.ScratchWidth)
	f.uniforms.Vec3("uVignetting").Set(o.Vignetting, o.VignettingAlpha, o.VignettingBlur)
	f.Seed().Set(o.Seed)
	f.raster = f.rasterize
	return f
}

// Sepia is the sepia tone amount.
func (f *OldFilmFilter) Sepia() Scalar { return f.uniforms.Scalar("uSepia") }

// Noise is the grain strength.
func (f *OldFilmFilter) Noise() Scalar { return lane(f.uniforms.Vec2("uNoise").Slice(), 0) }

// NoiseSize is the grain size in pixels.
func (f *OldFilmFilter) NoiseSize() Scalar { return lane(f.uniforms.Vec2("uNoise").Slice(), 1) }

// Scratch is the scratch strength.
func (f *OldFilmFilter) Scratch() Scalar { return lane(f.uniforms.Vec3("uScratch").Slice(), 0) }

// ScratchDensity is how many scratches appear.
func (f *OldFilmFilter) ScratchDensity() Scalar { return lane(f.uniforms.Vec3("uScratch").Slice(), 1) }

// ScratchWidth is the scratch width in pixels.
func (f *OldFilmFilter) ScratchWidth() Scalar { return lane(f.uniforms.Vec3("uScratch").Slice(), 2) }

// Vignetting is the vignette radius.
func (f *OldFilmFilter) Vignetting() Scalar { return lane(f.uniforms.Vec3("uVignetting").Slice(), 0) }

// VignettingAlpha is the vignette opacity.
func (f *OldFilmFilter) VignettingAlpha() Scalar {
	return lane(f.uniforms.Vec3("uVignetting").Slice(), 1)
}

// VignettingBlur is the vignette edge softness.
func (f *OldFilmFilter) VignettingBlur() Scalar {
	return lane(f.uniforms.Vec3("uVignetting").Slice(), 2)
}

// Seed varies noise and scratches.
func (f *OldFilmFilter) Seed() Scalar { return f.uniforms.Scalar("uSeed") }

// Apply records the filtered area size.
func (f *OldFilmFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return f.Base.Apply(sys, input, output, clear)
}

var sepiaRGB = [3]float32{112.0 / 255, 66.0 / 255, 20.0 / 255}

func overlay(src, dst float32) float32 {
	if dst <= 0.5 {
		return 2 * src * dst
	}
	return 1 - 2*(1-dst)*(1-src)
}

// scratchTine returns the scratch multiplier at normalized coord, or 1.
func scratchTine(cx, cy, w, scratch, density, width, seed float32) float32 {
	if density <= seed || scratch == 0 {
		return 1
	}
	phase := seed * 256
	s := fmod(math32.Floor(phase), 2)
	dist := 1 / density
	if math32.Hypot(cx-seed*dist, cy-math32.Abs(s-seed*dist)) >= seed*0.6+0.4 {
		return 1
	}
	period := density * 10
	xx := cx*period + phase
	aa := math32.Abs(fmod(xx, 0.5) * 4)
	bb := fmod(math32.Floor(xx/0.5), 2)
	yy := (1-bb)*aa + bb*(2-aa)
	dh := width / w * (0.75 + seed) * 2 * period
	tine := yy - (2 - dh)
	if tine <= 0 {
		return 1
	}
	var sign float32 = 1
	if scratch < 0 {
		sign = -1
	}
	tine = s*tine/period + scratch + 0.1
	return max(0.5+sign*0.5, min(1.5+sign*0.5, tine+1))
}

func (f *OldFilmFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	sepia := f.Sepia().Get()
	noise, noiseSize := f.Noise().Get(), f.NoiseSize().Get()
	scratch, density, width := f.Scratch().Get(), f.ScratchDensity().Get(), f.ScratchWidth().Get()
	vig, vigAlpha, vigBlur := f.Vignetting().Get(), f.VignettingAlpha().Get(), f.VignettingBlur().Get()
	seed := f.Seed().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		if sepia > 0 {
			gray := (r + g + b) / 3
			r = gray + sepia*(overlay(sepiaRGB[0], gray)-gray)
			g = gray + sepia*(overlay(sepiaRGB[1], gray)-gray)
			b = gray + sepia*(overlay(sepiaRGB[2], gray)-gray)
		}
		cx, cy := x/w, y/h
		k := float32(1)
		if vig > 0 {
			k = vignette(cx, cy, h/w, vig, vigAlpha, vigBlur)
		}
		k *= scratchTine(cx, cy, w, scratch, density, width, seed)
		r, g, b = r*k, g*k, b*k
		if noise > 0 && noiseSize > 0 {
			n := grain(x, y, noiseSize, seed) * noise
			r, g, b = r+n, g+n, b+n
		}
		return max(0, min(a, r)), max(0, min(a, g)), max(0, min(a, b)), a
	})
}
