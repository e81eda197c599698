package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// ColorMapOptions configures ColorMapFilter.
type ColorMapOptions struct {
	// ColorMap is a lookup table of Size slices laid side by side, each
	// Size pixels square. Required.
	ColorMap Texture `toml:"-" yaml:"-"`
	// Nearest samples the table without interpolation.
	Nearest bool `toml:"nearest" yaml:"nearest"`
	// Mix blends between the input (0) and the mapped color (1).
	Mix float32 `toml:"mix" yaml:"mix"`
}

// DefaultColorMapOptions returns full mix with linear sampling and no
// table.
func DefaultColorMapOptions() ColorMapOptions {
	return ColorMapOptions{Mix: 1}
}

// fromPositional maps (colorMap, nearest, mix).
func (o *ColorMapOptions) fromPositional(a Positional) {
	if t, ok := a.Texture(0); ok {
		o.ColorMap = t
	}
	if v, ok := a.Bool(1); ok {
		o.Nearest = v
	}
	if v, ok := a.Float(2); ok {
		o.Mix = v
	}
}

//go:embed shaders/color_map.wgsl
var colorMapSource string

var (
	colorMapLayout = NewUniformLayout("ColorMapUniforms",
		F32("uMix"),
		F32("uSize"),
		F32("uSliceSize"),
		F32("uSlicePixelSize"),
		F32("uSliceInnerSize"),
	)
	colorMapProgram = NewProgram("color-map", colorMapSource, colorMapLayout, "colorMap")
)

// ColorMapFilter remaps colors through a 3D lookup table stored as a 2D
// strip.
type ColorMapFilter struct {
	Base

	nearest bool
}

// NewColorMapFilter creates a color map filter. It fails with a
// ConfigurationError when no table is given.
func NewColorMapFilter(opts ...Option[ColorMapOptions]) (*ColorMapFilter, error) {
	o := Resolve(DefaultColorMapOptions(), opts...)
	if isNilTexture(o.ColorMap) {
		return nil, &ConfigurationError{Filter: "ColorMapFilter", Field: "colorMap"}
	}
	f := &ColorMapFilter{Base: newBase(colorMapProgram)}
	f.Mix().Set(o.Mix)
	f.nearest = o.Nearest
	f.SetColorMap(o.ColorMap)
	f.raster = f.rasterize
	return f, nil
}

// ColorMap returns the lookup table.
func (f *ColorMapFilter) ColorMap() Texture { return f.texture("colorMap") }

// SetColorMap replaces the lookup table and derives the slice geometry
// from its height.
func (f *ColorMapFilter) SetColorMap(t Texture) {
	f.setTexture("colorMap", t)
	if isNilTexture(t) {
		return
	}
	if it, ok := t.(*ImageTexture); ok {
		it.SetNearest(f.nearest)
	}
	size := float32(t.Height())
	slice := 1 / size
	pixel := slice / size
	f.uniforms.Scalar("uSize").Set(size)
	f.uniforms.Scalar("uSliceSize").Set(slice)
	f.uniforms.Scalar("uSlicePixelSize").Set(pixel)
	f.uniforms.Scalar("uSliceInnerSize").Set(pixel * (size - 1))
}

// Nearest reports whether the table is sampled without interpolation.
func (f *ColorMapFilter) Nearest() bool { return f.nearest }

// SetNearest switches table sampling.
func (f *ColorMapFilter) SetNearest(v bool) {
	f.nearest = v
	if it, ok := f.ColorMap().(*ImageTexture); ok {
		it.SetNearest(v)
	}
}

// Mix blends between input and mapped color.
func (f *ColorMapFilter) Mix() Scalar { return f.uniforms.Scalar("uMix") }

func (f *ColorMapFilter) rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) {
	lut := filter.NewSampler(lookup(f.ColorMap()))
	size := f.uniforms.Scalar("uSize").Get()
	slice := f.uniforms.Scalar("uSliceSize").Get()
	pixel := f.uniforms.Scalar("uSlicePixelSize").Get()
	inner := f.uniforms.Scalar("uSliceInnerSize").Get()
	amount := f.Mix().Get()
	filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
		if a <= 0 || size <= 1 {
			return r, g, b, a
		}
		z := b * (size - 1)
		z0 := min(math32.Floor(z), size-1)
		z1 := min(z0+1, size-1)
		xo := pixel*0.5 + r*inner
		yo := slice*0.5 + g*(1-slice)
		r0, g0, b0, a0 := lut.UV(xo+z0*slice, yo)
		r1, g1, b1, a1 := lut.UV(xo+z1*slice, yo)
		t := z - math32.Floor(z)
		mr, mg, mb := unpremul(mix(r0, r1, t), mix(g0, g1, t), mix(b0, b1, t), mix(a0, a1, t))
		return mix(r, mr, amount), mix(g, mg, amount), mix(b, mb, amount), a
	})
}

// unpremul converts premultiplied channels from a Sampler to straight.
func unpremul(r, g, b, a float32) (float32, float32, float32) {
	if a <= 0 {
		return 0, 0, 0
	}
	return r / a, g / a, b / a
}
