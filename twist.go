package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// TwistOptions configures TwistFilter.
type TwistOptions struct {
	Radius  float32 `toml:"radius" yaml:"radius"`
	Angle   float32 `toml:"angle" yaml:"angle"`
	Padding float32 `toml:"padding" yaml:"padding"`
	// Offset is the twist center in pixels.
	Offset Point `toml:"offset" yaml:"offset"`
}

// DefaultTwistOptions returns radius 200, angle 4 and padding 20.
func DefaultTwistOptions() TwistOptions {
	return TwistOptions{Radius: 200, Angle: 4, Padding: 20}
}

//go:embed shaders/twist.wgsl
var twistSource string

var (
	twistLayout = NewUniformLayout("TwistUniforms",
		F32("uRadius"),
		F32("uAngle"),
		V2("uOffset"),
	)
	twistProgram = NewProgram("twist", twistSource, twistLayout)
)

// TwistFilter rotates pixels around a point, more strongly near it.
type TwistFilter struct {
	Base
}

// NewTwistFilter creates a twist filter.
func NewTwistFilter(opts ...Option[TwistOptions]) *TwistFilter {
	o := Resolve(DefaultTwistOptions(), opts...)
	f := &TwistFilter{Base: newBase(twistProgram)}
	f.Radius().Set(o.Radius)
	f.Angle().Set(o.Angle)
	f.Offset().Set(o.Offset)
	f.padding = o.Padding
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		radius, angle, off := f.Radius().Get(), f.Angle().Get(), f.Offset().Point()
		filter.Remap(dst, src, func(x, y float32) (float32, float32, bool) {
			dx, dy := x-off.X, y-off.Y
			if dist := math32.Hypot(dx, dy); dist < radius {
				ratio := (radius - dist) / radius
				s, c := math32.Sincos(ratio * ratio * angle)
				dx, dy = dx*c-dy*s, dx*s+dy*c
			}
			return dx + off.X, dy + off.Y, true
		})
	}
	return f
}

// Radius is the twist radius in pixels.
func (f *TwistFilter) Radius() Scalar { return f.uniforms.Scalar("uRadius") }

// Angle is the rotation at the center in radians.
func (f *TwistFilter) Angle() Scalar { return f.uniforms.Scalar("uAngle") }

// Offset is the live center view in pixels.
func (f *TwistFilter) Offset() Vec2 { return f.uniforms.Vec2("uOffset") }
