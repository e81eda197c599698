package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// BulgePinchOptions configures BulgePinchFilter.
type BulgePinchOptions struct {
	// Center is normalized to the filtered area, (0.5, 0.5) is the middle.
	Center Point `toml:"center" yaml:"center"`
	// Radius is in pixels.
	Radius float32 `toml:"radius" yaml:"radius"`
	// Strength in [-1, 1]: positive bulges, negative pinches.
	Strength float32 `toml:"strength" yaml:"strength"`
}

// DefaultBulgePinchOptions returns a centered bulge of radius 100.
func DefaultBulgePinchOptions() BulgePinchOptions {
	return BulgePinchOptions{Center: Pt(0.5, 0.5), Radius: 100, Strength: 1}
}

//go:embed shaders/bulge_pinch.wgsl
var bulgePinchSource string

var (
	bulgePinchLayout = NewUniformLayout("BulgePinchUniforms",
		F32("uRadius"),
		F32("uStrength"),
		V2("uCenter"),
		V2("uDimensions"),
	)
	bulgePinchProgram = NewProgram("bulge-pinch", bulgePinchSource, bulgePinchLayout)
)

// BulgePinchFilter magnifies or shrinks a circular region.
type BulgePinchFilter struct {
	Base
}

// NewBulgePinchFilter creates a bulge/pinch filter.
func NewBulgePinchFilter(opts ...Option[BulgePinchOptions]) *BulgePinchFilter {
	o := Resolve(DefaultBulgePinchOptions(), opts...)
	f := &BulgePinchFilter{Base: newBase(bulgePinchProgram)}
	f.Center().Set(o.Center)
	f.SetRadius(o.Radius)
	f.SetStrength(o.Strength)
	f.raster = f.rasterize
	return f
}

// Radius returns the radius in pixels.
func (f *BulgePinchFilter) Radius() float32 { return f.uniforms.Scalar("uRadius").Get() }

// SetRadius sets the radius in pixels.
func (f *BulgePinchFilter) SetRadius(v float32) { f.uniforms.Scalar("uRadius").Set(v) }

// Strength returns the strength in [-1, 1].
func (f *BulgePinchFilter) Strength() float32 { return f.uniforms.Scalar("uStrength").Get() }

// SetStrength sets the strength, clamped to [-1, 1].
func (f *BulgePinchFilter) SetStrength(v float32) {
	f.uniforms.Scalar("uStrength").Set(max(-1, min(1, v)))
}

// Center is the live normalized center view.
func (f *BulgePinchFilter) Center() Vec2 { return f.uniforms.Vec2("uCenter") }

// SetCenter accepts any point shape.
func (f *BulgePinchFilter) SetCenter(v any) { f.Center().Set(PointOf(v)) }

// Apply records the input size the normalized center refers to.
func (f *BulgePinchFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return f.Base.Apply(sys, input, output, clear)
}

func (f *BulgePinchFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	dims := f.uniforms.Vec2("uDimensions").Point()
	if dims.IsZero() {
		dims = Pt(w, h)
	}
	c := f.Center().Point()
	cx, cy := c.X*dims.X, c.Y*dims.Y
	radius, strength := f.Radius(), f.Strength()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		dx, dy := x-cx, y-cy
		dist := math32.Hypot(dx, dy)
		if dist < radius && dist > 0 {
			percent := dist / radius
			var k float32
			if strength > 0 {
				k = mix(1, smoothstep(0, radius/dist, percent), strength*0.75)
			} else {
				k = mix(1, math32.Pow(percent, 1+strength*0.75)*radius/dist, 1-percent)
			}
			dx *= k
			dy *= k
		}
		return s.At(dx+cx, dy+cy)
	})
}

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func smoothstep(e0, e1, x float32) float32 {
	t := max(0, min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}
