package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// ColorReplaceOptions configures ColorReplaceFilter.
type ColorReplaceOptions struct {
	OriginalColor Color `toml:"original_color" yaml:"original_color"`
	TargetColor   Color `toml:"target_color" yaml:"target_color"`
	// Tolerance is the RGB distance under which a pixel is replaced.
	Tolerance float32 `toml:"tolerance" yaml:"tolerance"`
}

// DefaultColorReplaceOptions replaces red with black.
func DefaultColorReplaceOptions() ColorReplaceOptions {
	return ColorReplaceOptions{
		OriginalColor: Hex(0xff0000),
		TargetColor:   Hex(0x000000),
		Tolerance:     0.4,
	}
}

// fromPositional maps (originalColor, targetColor, tolerance).
func (o *ColorReplaceOptions) fromPositional(a Positional) {
	if c, ok := a.Color(0); ok {
		o.OriginalColor = c
	}
	if c, ok := a.Color(1); ok {
		o.TargetColor = c
	}
	if v, ok := a.Float(2); ok {
		o.Tolerance = v
	}
}

//go:embed shaders/color_replace.wgsl
var colorReplaceSource string

var (
	colorReplaceLayout = NewUniformLayout("ColorReplaceUniforms",
		V3("uOriginalColor"),
		F32("uTolerance"),
		V3("uTargetColor"),
	)
	colorReplaceProgram = NewProgram("color-replace", colorReplaceSource, colorReplaceLayout)
)

// ColorReplaceFilter swaps one color for another within a tolerance.
type ColorReplaceFilter struct {
	Base

	original Color
	target   Color
}

// NewColorReplaceFilter creates a color replace filter.
func NewColorReplaceFilter(opts ...Option[ColorReplaceOptions]) *ColorReplaceFilter {
	o := Resolve(DefaultColorReplaceOptions(), opts...)
	f := &ColorReplaceFilter{Base: newBase(colorReplaceProgram)}
	f.SetOriginalColor(o.OriginalColor)
	f.SetTargetColor(o.TargetColor)
	f.Tolerance().Set(o.Tolerance)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		tol := f.Tolerance().Get()
		filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
			rgb, _ := replaceRGB([3]float32{r, g, b}, f.original, f.target, tol)
			return rgb[0], rgb[1], rgb[2], a
		})
	}
	return f
}

// OriginalColor returns the color being replaced.
func (f *ColorReplaceFilter) OriginalColor() Color { return f.original }

// SetOriginalColor sets the color being replaced.
func (f *ColorReplaceFilter) SetOriginalColor(c Color) {
	f.original = c
	f.uniforms.Vec3("uOriginalColor").SetRGB(c)
}

// TargetColor returns the replacement color.
func (f *ColorReplaceFilter) TargetColor() Color { return f.target }

// SetTargetColor sets the replacement color.
func (f *ColorReplaceFilter) SetTargetColor(c Color) {
	f.target = c
	f.uniforms.Vec3("uTargetColor").SetRGB(c)
}

// Tolerance is the RGB distance under which pixels are replaced.
func (f *ColorReplaceFilter) Tolerance() Scalar { return f.uniforms.Scalar("uTolerance") }

// replaceRGB returns the replacement for a straight color, or the color
// unchanged when it is farther than tol from original.
func replaceRGB(rgb [3]float32, original, target Color, tol float32) ([3]float32, bool) {
	d := [3]float32{original.R - rgb[0], original.G - rgb[1], original.B - rgb[2]}
	if math32.Sqrt(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]) > tol {
		return rgb, false
	}
	return [3]float32{target.R + d[0], target.G + d[1], target.B + d[2]}, true
}
