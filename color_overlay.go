package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// ColorOverlayOptions configures ColorOverlayFilter.
type ColorOverlayOptions struct {
	Color Color   `toml:"color" yaml:"color"`
	Alpha float32 `toml:"alpha" yaml:"alpha"`
}

// DefaultColorOverlayOptions returns black at full strength.
func DefaultColorOverlayOptions() ColorOverlayOptions {
	return ColorOverlayOptions{Color: Hex(0x000000), Alpha: 1}
}

// fromPositional maps (color, alpha).
func (o *ColorOverlayOptions) fromPositional(a Positional) {
	if c, ok := a.Color(0); ok {
		o.Color = c
	}
	if v, ok := a.Float(1); ok {
		o.Alpha = v
	}
}

//go:embed shaders/color_overlay.wgsl
var colorOverlaySource string

var (
	colorOverlayLayout = NewUniformLayout("ColorOverlayUniforms",
		V3("uColor"),
		F32("uAlpha"),
	)
	colorOverlayProgram = NewProgram("color-overlay", colorOverlaySource, colorOverlayLayout)
)

// ColorOverlayFilter replaces the color of every pixel, keeping its alpha.
type ColorOverlayFilter struct {
	Base

	color Color
}

// NewColorOverlayFilter creates a color overlay.
func NewColorOverlayFilter(opts ...Option[ColorOverlayOptions]) *ColorOverlayFilter {
	o := Resolve(DefaultColorOverlayOptions(), opts...)
	f := &ColorOverlayFilter{Base: newBase(colorOverlayProgram)}
	f.SetColor(o.Color)
	f.Alpha().Set(o.Alpha)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		c, amt := f.color, f.Alpha().Get()
		filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
			return r + (c.R-r)*amt, g + (c.G-g)*amt, b + (c.B-b)*amt, a
		})
	}
	return f
}

// Color returns the overlay color.
func (f *ColorOverlayFilter) Color() Color { return f.color }

// SetColor sets the overlay color.
func (f *ColorOverlayFilter) SetColor(c Color) {
	f.color = c
	f.uniforms.Vec3("uColor").SetRGB(c)
}

// Alpha is the overlay strength.
func (f *ColorOverlayFilter) Alpha() Scalar { return f.uniforms.Scalar("uAlpha") }
