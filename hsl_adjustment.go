package filters

import (
	_ "embed"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/filters/internal/filter"
)

// HslAdjustmentOptions configures HslAdjustmentFilter.
type HslAdjustmentOptions struct {
	// Hue shifts (or with Colorize, sets) the hue in degrees.
	Hue float32 `toml:"hue" yaml:"hue"`
	// Saturation in [-1, 1] scales saturation; with Colorize it is the
	// absolute saturation.
	Saturation float32 `toml:"saturation" yaml:"saturation"`
	// Lightness in [-1, 1] mixes toward white or black.
	Lightness float32 `toml:"lightness" yaml:"lightness"`
	Colorize  bool    `toml:"colorize" yaml:"colorize"`
	// Alpha blends the adjusted color over the original.
	Alpha float32 `toml:"alpha" yaml:"alpha"`
}

// DefaultHslAdjustmentOptions returns a no-op adjustment.
func DefaultHslAdjustmentOptions() HslAdjustmentOptions {
	return HslAdjustmentOptions{Alpha: 1}
}

//go:embed shaders/hsl_adjustment.wgsl
var hslAdjustmentSource string

var (
	hslAdjustmentLayout = NewUniformLayout("HslAdjustmentUniforms",
		V3("uHsl"),
		F32("uAlpha"),
		F32("uColorize"),
	)
	hslAdjustmentProgram = NewProgram("hsl-adjustment", hslAdjustmentSource, hslAdjustmentLayout)
)

// HslAdjustmentFilter adjusts hue, saturation and lightness.
type HslAdjustmentFilter struct {
	Base
}

// NewHslAdjustmentFilter creates an HSL adjustment filter.
func NewHslAdjustmentFilter(opts ...Option[HslAdjustmentOptions]) *HslAdjustmentFilter {
	o := Resolve(DefaultHslAdjustmentOptions(), opts...)
	f := &HslAdjustmentFilter{Base: newBase(hslAdjustmentProgram)}
	f.SetHue(o.Hue)
	f.SetSaturation(o.Saturation)
	f.SetLightness(o.Lightness)
	f.SetColorize(o.Colorize)
	f.Alpha().Set(o.Alpha)
	f.raster = f.rasterize
	return f
}

func (f *HslAdjustmentFilter) hsl() Vec3 { return f.uniforms.Vec3("uHsl") }

// Hue returns the hue in degrees.
func (f *HslAdjustmentFilter) Hue() float32 { return f.hsl().At(0) }

// SetHue sets the hue in degrees.
func (f *HslAdjustmentFilter) SetHue(deg float32) { f.hsl().SetAt(0, deg) }

// Saturation returns the saturation adjustment.
func (f *HslAdjustmentFilter) Saturation() float32 { return f.hsl().At(1) }

// SetSaturation sets the saturation adjustment.
func (f *HslAdjustmentFilter) SetSaturation(v float32) { f.hsl().SetAt(1, v) }

// Lightness returns the lightness adjustment.
func (f *HslAdjustmentFilter) Lightness() float32 { return f.hsl().At(2) }

// SetLightness sets the lightness adjustment.
func (f *HslAdjustmentFilter) SetLightness(v float32) { f.hsl().SetAt(2, v) }

// Colorize reports whether the hue is set rather than shifted.
func (f *HslAdjustmentFilter) Colorize() bool { return f.uniforms.Scalar("uColorize").Bool() }

// SetColorize toggles colorize mode.
func (f *HslAdjustmentFilter) SetColorize(v bool) { f.uniforms.Scalar("uColorize").SetBool(v) }

// Alpha blends the result over the original.
func (f *HslAdjustmentFilter) Alpha() Scalar { return f.uniforms.Scalar("uAlpha") }

func (f *HslAdjustmentFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	hue := float64(f.Hue())
	sat := float64(f.Saturation())
	light := float64(f.Lightness())
	colorize := f.Colorize()
	alpha := float64(f.Alpha().Get())
	filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
		if a <= 0 {
			return r, g, b, a
		}
		orig := colorful.Color{R: float64(r), G: float64(g), B: float64(b)}
		h, s, l := orig.Hsl()
		if colorize {
			h = math.Mod(hue, 360)
			s = max(0, min(1, sat))
		} else {
			h = math.Mod(h+hue, 360)
			s = max(0, min(1, s*(1+sat)))
		}
		if h < 0 {
			h += 360
		}
		c := colorful.Hsl(h, s, l)
		switch {
		case light > 0:
			c = c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, light)
		case light < 0:
			c = c.BlendRgb(colorful.Color{}, -light)
		}
		c = orig.BlendRgb(c, alpha)
		return float32(c.R), float32(c.G), float32(c.B), a
	})
}
