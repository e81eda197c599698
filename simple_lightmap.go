package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// SimpleLightmapOptions configures SimpleLightmapFilter.
type SimpleLightmapOptions struct {
	// LightMap is added to the ambient light per pixel. Required.
	LightMap Texture `toml:"-" yaml:"-"`
	// Color is the ambient light color.
	Color Color `toml:"color" yaml:"color"`
	// Alpha scales the ambient light.
	Alpha float32 `toml:"alpha" yaml:"alpha"`
}

// DefaultSimpleLightmapOptions returns black ambient light at full alpha.
func DefaultSimpleLightmapOptions() SimpleLightmapOptions {
	return SimpleLightmapOptions{Color: Hex(0x000000), Alpha: 1}
}

// fromPositional maps (lightMap, color, alpha).
func (o *SimpleLightmapOptions) fromPositional(a Positional) {
	if t, ok := a.Texture(0); ok {
		o.LightMap = t
	}
	if c, ok := a.Color(1); ok {
		o.Color = c
	}
	if v, ok := a.Float(2); ok {
		o.Alpha = v
	}
}

//go:embed shaders/simple_lightmap.wgsl
var simpleLightmapSource string

var (
	simpleLightmapLayout = NewUniformLayout("SimpleLightmapUniforms",
		V4("uColor"),
		V2("uDimensions"),
	)
	simpleLightmapProgram = NewProgram("simple-lightmap", simpleLightmapSource, simpleLightmapLayout, "lightMap")
)

// SimpleLightmapFilter multiplies the image by ambient light plus a light
// map.
type SimpleLightmapFilter struct {
	Base

	color Color
}

// NewSimpleLightmapFilter creates a light map filter. It fails with a
// ConfigurationError when no light map is given.
func NewSimpleLightmapFilter(opts ...Option[SimpleLightmapOptions]) (*SimpleLightmapFilter, error) {
	o := Resolve(DefaultSimpleLightmapOptions(), opts...)
	if isNilTexture(o.LightMap) {
		return nil, &ConfigurationError{Filter: "SimpleLightmapFilter", Field: "lightMap"}
	}
	f := &SimpleLightmapFilter{Base: newBase(simpleLightmapProgram)}
	f.SetLightMap(o.LightMap)
	f.SetColor(o.Color)
	f.SetAlpha(o.Alpha)
	f.raster = f.rasterize
	return f, nil
}

// LightMap returns the light map.
func (f *SimpleLightmapFilter) LightMap() Texture { return f.texture("lightMap") }

// SetLightMap replaces the light map.
func (f *SimpleLightmapFilter) SetLightMap(t Texture) { f.setTexture("lightMap", t) }

// Color returns the ambient color.
func (f *SimpleLightmapFilter) Color() Color { return f.color }

// SetColor sets the ambient color, keeping the alpha.
func (f *SimpleLightmapFilter) SetColor(c Color) {
	f.color = c
	f.uniforms.Vec4("uColor").SetRGBA(RGBA(c.R, c.G, c.B, f.Alpha()))
}

// Alpha returns the ambient strength.
func (f *SimpleLightmapFilter) Alpha() float32 { return f.uniforms.Vec4("uColor").At(3) }

// SetAlpha sets the ambient strength.
func (f *SimpleLightmapFilter) SetAlpha(v float32) { f.uniforms.Vec4("uColor").SetAt(3, v) }

// Apply records the filtered area size the light map is stretched over.
func (f *SimpleLightmapFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return f.Base.Apply(sys, input, output, clear)
}

func (f *SimpleLightmapFilter) rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) {
	in := filter.NewSampler(src)
	light := filter.NewSampler(lookup(f.LightMap()))
	w, h := in.Size()
	dims := f.uniforms.Vec2("uDimensions").Point()
	if dims.IsZero() {
		dims = Pt(w, h)
	}
	c := f.uniforms.Vec4("uColor")
	ar, ag, ab := c.At(0)*c.At(3), c.At(1)*c.At(3), c.At(2)*c.At(3)
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := in.At(x, y)
		lr, lg, lb, _ := light.UV(x/dims.X, y/dims.Y)
		return r * (ar + lr), g * (ag + lg), b * (ab + lb), a
	})
}
