package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// CRTOptions configures CRTFilter.
type CRTOptions struct {
	// Curvature bends the scan lines. Zero keeps them straight.
	Curvature    float32 `toml:"curvature" yaml:"curvature"`
	LineWidth    float32 `toml:"line_width" yaml:"line_width"`
	LineContrast float32 `toml:"line_contrast" yaml:"line_contrast"`
	VerticalLine bool    `toml:"vertical_line" yaml:"vertical_line"`

	Noise     float32 `toml:"noise" yaml:"noise"`
	NoiseSize float32 `toml:"noise_size" yaml:"noise_size"`
	Seed      float32 `toml:"seed" yaml:"seed"`

	Vignetting      float32 `toml:"vignetting" yaml:"vignetting"`
	VignettingAlpha float32 `toml:"vignetting_alpha" yaml:"vignetting_alpha"`
	VignettingBlur  float32 `toml:"vignetting_blur" yaml:"vignetting_blur"`

	// Time animates the scan lines.
	Time float32 `toml:"time" yaml:"time"`
}

// DefaultCRTOptions returns the documented defaults.
func DefaultCRTOptions() CRTOptions {
	return CRTOptions{
		Curvature:       1,
		LineWidth:       1,
		LineContrast:    0.25,
		NoiseSize:       1,
		Vignetting:      0.3,
		VignettingAlpha: 1,
		VignettingBlur:  0.3,
	}
}

//go:embed shaders/crt.wgsl
var crtSource string

var (
	crtLayout = NewUniformLayout("CRTUniforms",
		V4("uLine"),
		V2("uNoise"),
		V3("uVignette"),
		F32("uSeed"),
		F32("uTime"),
		V2("uDimensions"),
	)
	crtProgram = NewProgram("crt", crtSource, crtLayout)
)

// CRTFilter simulates an old CRT display: scan lines, noise and a
// vignette.
type CRTFilter struct {
	Base
}

// NewCRTFilter creates a CRT filter.
func NewCRTFilter(opts ...Option[CRTOptions]) *CRTFilter {
	o := Resolve(DefaultCRTOptions(), opts...)
	f := &CRTFilter{Base: newBase(crtProgram)}
	f.line().Set(o.Curvature, o.LineWidth, o.LineContrast, 0)
	f.SetVerticalLine(o.VerticalLine)
	f.uniforms.Vec2("uNoise").Set(Pt(o.Noise, o.NoiseSize))
	f.uniforms.Vec3("uVignette").Set(o.Vignetting, o.VignettingAlpha, o.VignettingBlur)
	f.Seed().Set(o.Seed)
	f.Time().Set(o.Time)
	f.raster = f.rasterize
	return f
}

func (f *CRTFilter) line() Vec4 { return f.uniforms.Vec4("uLine") }

// Curvature bends the scan lines.
func (f *CRTFilter) Curvature() Scalar { return lane(f.line().Slice(), 0) }

// LineWidth is the scan line width.
func (f *CRTFilter) LineWidth() Scalar { return lane(f.line().Slice(), 1) }

// LineContrast is the scan line contrast.
func (f *CRTFilter) LineContrast() Scalar { return lane(f.line().Slice(), 2) }

// VerticalLine reports whether scan lines run vertically.
func (f *CRTFilter) VerticalLine() bool { return f.line().At(3) != 0 }

// SetVerticalLine toggles vertical scan lines.
func (f *CRTFilter) SetVerticalLine(v bool) { lane(f.line().Slice(), 3).SetBool(v) }

// Noise is the noise strength.
func (f *CRTFilter) Noise() Scalar { return lane(f.uniforms.Vec2("uNoise").Slice(), 0) }

// NoiseSize is the noise grain size in pixels.
func (f *CRTFilter) NoiseSize() Scalar { return lane(f.uniforms.Vec2("uNoise").Slice(), 1) }

// Vignetting is the vignette radius.
func (f *CRTFilter) Vignetting() Scalar { return lane(f.uniforms.Vec3("uVignette").Slice(), 0) }

// VignettingAlpha is the vignette opacity.
func (f *CRTFilter) VignettingAlpha() Scalar {
	return lane(f.uniforms.Vec3("uVignette").Slice(), 1)
}

// VignettingBlur is the vignette edge softness.
func (f *CRTFilter) VignettingBlur() Scalar {
	return lane(f.uniforms.Vec3("uVignette").Slice(), 2)
}

// Seed varies the noise pattern.
func (f *CRTFilter) Seed() Scalar { return f.uniforms.Scalar("uSeed") }

// Time animates the scan lines.
func (f *CRTFilter) Time() Scalar { return f.uniforms.Scalar("uTime") }

// Apply records the filtered area size.
func (f *CRTFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return f.Base.Apply(sys, input, output, clear)
}

const sqrt2 = 1.414213

// rand2 is the classic fract-sine hash used by the noise shaders.
func rand2(x, y float32) float32 {
	v := math32.Sin(x*12.9898+y*78.233) * 43758.5453
	return v - math32.Floor(v)
}

// vignette returns the multiplier for a pixel at normalized coord (cx, cy).
func vignette(cx, cy, aspect, amount, alpha, blur float32) float32 {
	outer := sqrt2 - amount*sqrt2
	dx, dy := 0.5-cx, (0.5-cy)*aspect
	darker := max(0, min(1, (outer-math32.Hypot(dx, dy)*sqrt2)/(0.00001+blur*sqrt2)))
	return darker + (1-darker)*(1-alpha)
}

// grain returns the noise offset for pixel (x, y).
func grain(x, y, noiseSize, seed float32) float32 {
	px, py := math32.Floor(x/noiseSize), math32.Floor(y/noiseSize)
	return rand2(px*noiseSize*seed, py*noiseSize*seed) - 0.5
}

func (f *CRTFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	curvature, lineWidth, contrast := f.Curvature().Get(), f.LineWidth().Get(), f.LineContrast().Get()
	vertical := f.VerticalLine()
	noise, noiseSize := f.Noise().Get(), f.NoiseSize().Get()
	vig, vigAlpha, vigBlur := f.Vignetting().Get(), f.VignettingAlpha().Get(), f.VignettingBlur().Get()
	seed, t := f.Seed().Get(), f.Time().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		k := float32(1)
		if noise > 0 && noiseSize > 0 {
			n := grain(x, y, noiseSize, seed) * noise
			r, g, b = r+n, g+n, b+n
		}
		cx, cy := x/w, y/h
		if lineWidth > 0 {
			dx, dy := cx-0.5, cy-0.5
			c, bend := float32(1), float32(1)
			if curvature > 0 {
				c = curvature
				bend = math32.Hypot(dx*dx, dy*dy)*0.25*c*c + 0.935*c
			}
			v := dy * bend * h
			seg := fmod((dy+0.5)*h, 4)
			if vertical {
				v = dx * bend * w
				seg = fmod((dx+0.5)*w, 4)
			}
			v = v * min(1, 2/lineWidth) / c
			k *= 1 + math32.Cos(v*1.2-t)*0.5*contrast
			k *= 0.99 + math32.Ceil(seg)*0.015
		}
		if vig > 0 {
			k *= vignette(cx, cy, h/w, vig, vigAlpha, vigBlur)
		}
		clampA := func(v float32) float32 { return max(0, min(a, v*k)) }
		return clampA(r), clampA(g), clampA(b), a
	})
}
