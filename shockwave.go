package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// ShockwaveOptions configures ShockwaveFilter.
type ShockwaveOptions struct {
	// Center is the wave origin in pixels.
	Center     Point   `toml:"center" yaml:"center"`
	Amplitude  float32 `toml:"amplitude" yaml:"amplitude"`
	Wavelength float32 `toml:"wavelength" yaml:"wavelength"`
	Brightness float32 `toml:"brightness" yaml:"brightness"`
	// Speed is in pixels per second.
	Speed float32 `toml:"speed" yaml:"speed"`
	// Radius is the maximum radius; negative means unbounded.
	Radius float32 `toml:"radius" yaml:"radius"`
	// Time is the elapsed time in seconds.
	Time float32 `toml:"time" yaml:"time"`
}

// DefaultShockwaveOptions returns the documented defaults.
func DefaultShockwaveOptions() ShockwaveOptions {
	return ShockwaveOptions{
		Amplitude:  30,
		Wavelength: 160,
		Brightness: 1,
		Speed:      500,
		Radius:     -1,
	}
}

// fromPositional maps (center, options, time). The middle argument may be
// a ShockwaveOptions record carrying the wave parameters.
func (o *ShockwaveOptions) fromPositional(a Positional) {
	if v, ok := a.Value(1); ok {
		switch w := v.(type) {
		case ShockwaveOptions:
			*o = w
		case *ShockwaveOptions:
			if w != nil {
				*o = *w
			}
		}
	}
	if p, ok := a.Point(0); ok {
		o.Center = p
	}
	if v, ok := a.Float(2); ok {
		o.Time = v
	}
}

//go:embed shaders/shockwave.wgsl
var shockwaveSource string

var (
	shockwaveLayout = NewUniformLayout("ShockwaveUniforms",
		V2("uCenter"),
		F32("uTime"),
		F32("uSpeed"),
		F32("uAmplitude"),
		F32("uWavelength"),
		F32("uBrightness"),
		F32("uRadius"),
	)
	shockwaveProgram = NewProgram("shockwave", shockwaveSource, shockwaveLayout)
)

// ShockwaveFilter distorts the image with an expanding ring.
type ShockwaveFilter struct {
	Base
}

// NewShockwaveFilter creates a shockwave filter.
func NewShockwaveFilter(opts ...Option[ShockwaveOptions]) *ShockwaveFilter {
	o := Resolve(DefaultShockwaveOptions(), opts...)
	f := &ShockwaveFilter{Base: newBase(shockwaveProgram)}
	f.Center().Set(o.Center)
	f.Amplitude().Set(o.Amplitude)
	f.Wavelength().Set(o.Wavelength)
	f.Brightness().Set(o.Brightness)
	f.Speed().Set(o.Speed)
	f.Radius().Set(o.Radius)
	f.Time().Set(o.Time)
	f.raster = f.rasterize
	return f
}

// Center is the live origin view in pixels.
func (f *ShockwaveFilter) Center() Vec2 { return f.uniforms.Vec2("uCenter") }

// Amplitude is the displacement strength.
func (f *ShockwaveFilter) Amplitude() Scalar { return f.uniforms.Scalar("uAmplitude") }

// Wavelength is the ring width in pixels.
func (f *ShockwaveFilter) Wavelength() Scalar { return f.uniforms.Scalar("uWavelength") }

// Brightness scales color inside the ring.
func (f *ShockwaveFilter) Brightness() Scalar { return f.uniforms.Scalar("uBrightness") }

// Speed is the expansion speed in pixels per second.
func (f *ShockwaveFilter) Speed() Scalar { return f.uniforms.Scalar("uSpeed") }

// Radius is the maximum radius; negative is unbounded.
func (f *ShockwaveFilter) Radius() Scalar { return f.uniforms.Scalar("uRadius") }

// Time is the elapsed time in seconds.
func (f *ShockwaveFilter) Time() Scalar { return f.uniforms.Scalar("uTime") }

func (f *ShockwaveFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	center := f.Center().Point()
	half := f.Wavelength().Get() * 0.5
	maxRadius := f.Radius().Get()
	current := f.Time().Get() * f.Speed().Get()
	amp, bright := f.Amplitude().Get(), f.Brightness().Get()
	fade := float32(1)
	if maxRadius > 0 {
		if current > maxRadius {
			filter.Copy(dst, src)
			return
		}
		fade = 1 - (current/maxRadius)*(current/maxRadius)
	}
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		dx, dy := x-center.X, y-center.Y
		dist := math32.Hypot(dx, dy)
		if dist <= 0 || dist < current-half || dist > current+half {
			return s.At(x, y)
		}
		diff := (dist - current) / half
		p := 1 - diff*diff
		pow := 1.25 * math32.Sin(diff*math32.Pi) * p * amp * fade
		r, g, b, a := s.At(x+dx/dist*pow, y+dy/dist*pow)
		k := 1 + (bright-1)*p*fade
		return r * k, g * k, b * k, a
	})
}
