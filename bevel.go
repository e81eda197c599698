package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// BevelOptions configures BevelFilter.
type BevelOptions struct {
	// Rotation is the light direction in degrees.
	Rotation    float32 `toml:"rotation" yaml:"rotation"`
	Thickness   float32 `toml:"thickness" yaml:"thickness"`
	LightColor  Color   `toml:"light_color" yaml:"light_color"`
	LightAlpha  float32 `toml:"light_alpha" yaml:"light_alpha"`
	ShadowColor Color   `toml:"shadow_color" yaml:"shadow_color"`
	ShadowAlpha float32 `toml:"shadow_alpha" yaml:"shadow_alpha"`
}

// DefaultBevelOptions returns the documented defaults.
func DefaultBevelOptions() BevelOptions {
	return BevelOptions{
		Rotation:    45,
		Thickness:   2,
		LightColor:  Hex(0xffffff),
		LightAlpha:  0.7,
		ShadowColor: Hex(0x000000),
		ShadowAlpha: 0.7,
	}
}

//go:embed shaders/bevel.wgsl
var bevelSource string

var (
	bevelLayout = NewUniformLayout("BevelUniforms",
		V2("uTransform"),
		F32("uLightAlpha"),
		F32("uShadowAlpha"),
		V3("uLightColor"),
		V3("uShadowColor"),
	)
	bevelProgram = NewProgram("bevel", bevelSource, bevelLayout)
)

// BevelFilter lights one side of shape edges and shades the other.
type BevelFilter struct {
	Base

	rotation    float32
	thickness   float32
	lightColor  Color
	shadowColor Color
}

// NewBevelFilter creates a bevel filter.
func NewBevelFilter(opts ...Option[BevelOptions]) *BevelFilter {
	o := Resolve(DefaultBevelOptions(), opts...)
	f := &BevelFilter{Base: newBase(bevelProgram)}
	f.rotation = o.Rotation
	f.SetThickness(o.Thickness)
	f.SetLightColor(o.LightColor)
	f.LightAlpha().Set(o.LightAlpha)
	f.SetShadowColor(o.ShadowColor)
	f.ShadowAlpha().Set(o.ShadowAlpha)
	f.updateTransform()
	f.raster = f.rasterize
	return f
}

// Rotation returns the light direction in degrees.
func (f *BevelFilter) Rotation() float32 { return f.rotation }

// SetRotation sets the light direction in degrees.
func (f *BevelFilter) SetRotation(deg float32) {
	f.rotation = deg
	f.updateTransform()
}

// Thickness returns the bevel width in pixels.
func (f *BevelFilter) Thickness() float32 { return f.thickness }

// SetThickness sets the bevel width in pixels.
func (f *BevelFilter) SetThickness(v float32) {
	f.thickness = v
	f.padding = v
	f.updateTransform()
}

func (f *BevelFilter) updateTransform() {
	s, c := math32.Sincos(f.rotation * math32.Pi / 180)
	f.uniforms.Vec2("uTransform").Set(Pt(f.thickness*c, f.thickness*s))
}

// LightColor returns the highlight color.
func (f *BevelFilter) LightColor() Color { return f.lightColor }

// SetLightColor sets the highlight color.
func (f *BevelFilter) SetLightColor(c Color) {
	f.lightColor = c
	f.uniforms.Vec3("uLightColor").SetRGB(c)
}

// LightAlpha is the highlight opacity.
func (f *BevelFilter) LightAlpha() Scalar { return f.uniforms.Scalar("uLightAlpha") }

// ShadowColor returns the shade color.
func (f *BevelFilter) ShadowColor() Color { return f.shadowColor }

// SetShadowColor sets the shade color.
func (f *BevelFilter) SetShadowColor(c Color) {
	f.shadowColor = c
	f.uniforms.Vec3("uShadowColor").SetRGB(c)
}

// ShadowAlpha is the shade opacity.
func (f *BevelFilter) ShadowAlpha() Scalar { return f.uniforms.Scalar("uShadowAlpha") }

func (f *BevelFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	t := f.uniforms.Vec2("uTransform").Point()
	lc, sc := f.lightColor, f.shadowColor
	la, sa := f.LightAlpha().Get(), f.ShadowAlpha().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		if a > 0 {
			r, g, b = r/a, g/a, b/a
		}
		_, _, _, light := s.At(x-t.X, y-t.Y)
		_, _, _, shadow := s.At(x+t.X, y+t.Y)
		k := max(0, min(1, (a-light)*la))
		r, g, b = mix(r, lc.R, k), mix(g, lc.G, k), mix(b, lc.B, k)
		k = max(0, min(1, (a-shadow)*sa))
		r, g, b = mix(r, sc.R, k), mix(g, sc.G, k), mix(b, sc.B, k)
		return r * a, g * a, b * a, a
	})
}
