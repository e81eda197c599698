package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// GodrayOptions configures GodrayFilter.
type GodrayOptions struct {
	// Angle of parallel rays in degrees.
	Angle float32 `toml:"angle" yaml:"angle"`
	// Gain is the per-octave amplitude falloff of the ray noise.
	Gain float32 `toml:"gain" yaml:"gain"`
	// Lacunarity is the per-octave frequency growth of the ray noise.
	Lacunarity float32 `toml:"lacunarity" yaml:"lacunarity"`
	// Parallel uses Angle; otherwise rays radiate from Center.
	Parallel bool    `toml:"parallel" yaml:"parallel"`
	Time     float32 `toml:"time" yaml:"time"`
	// Center is the light source in pixels when not Parallel.
	Center Point   `toml:"center" yaml:"center"`
	Alpha  float32 `toml:"alpha" yaml:"alpha"`
}

// DefaultGodrayOptions returns the documented defaults.
func DefaultGodrayOptions() GodrayOptions {
	return GodrayOptions{Angle: 30, Gain: 0.5, Lacunarity: 2.5, Parallel: true, Alpha: 1}
}

//go:embed shaders/godray.wgsl
var godraySource string

var (
	godrayLayout = NewUniformLayout("GodrayUniforms",
		V2("uLight"),
		F32("uParallel"),
		F32("uAspect"),
		F32("uTime"),
		V3("uRay"),
		V2("uDimensions"),
	)
	godrayProgram = NewProgram("godray", godraySource, godrayLayout)
)

// GodrayFilter overlays animated light rays made of Perlin turbulence.
type GodrayFilter struct {
	Base

	angle      float32
	angleLight Point
	center     Point
}

// NewGodrayFilter creates a godray filter.
func NewGodrayFilter(opts ...Option[GodrayOptions]) *GodrayFilter {
	o := Resolve(DefaultGodrayOptions(), opts...)
	f := &GodrayFilter{Base: newBase(godrayProgram), center: o.Center}
	f.SetAngle(o.Angle)
	f.Gain().Set(o.Gain)
	f.Lacunarity().Set(o.Lacunarity)
	f.SetParallel(o.Parallel)
	f.Time().Set(o.Time)
	f.Alpha().Set(o.Alpha)
	f.raster = f.rasterize
	return f
}

// Angle returns the ray angle in degrees.
func (f *GodrayFilter) Angle() float32 { return f.angle }

// SetAngle sets the ray angle in degrees.
func (f *GodrayFilter) SetAngle(deg float32) {
	f.angle = deg
	s, c := math32.Sincos(deg * math32.Pi / 180)
	f.angleLight = Pt(c, s)
}

// Center returns the light source position in pixels.
func (f *GodrayFilter) Center() Point { return f.center }

// SetCenter sets the light source from any point shape.
func (f *GodrayFilter) SetCenter(v any) { f.center = PointOf(v) }

// Parallel reports whether rays are parallel.
func (f *GodrayFilter) Parallel() bool { return f.uniforms.Scalar("uParallel").Bool() }

// SetParallel toggles parallel rays.
func (f *GodrayFilter) SetParallel(v bool) { f.uniforms.Scalar("uParallel").SetBool(v) }

// Gain is the per-octave amplitude falloff.
func (f *GodrayFilter) Gain() Scalar { return lane(f.uniforms.Vec3("uRay").Slice(), 0) }

// Lacunarity is the per-octave frequency growth.
func (f *GodrayFilter) Lacunarity() Scalar { return lane(f.uniforms.Vec3("uRay").Slice(), 1) }

// Alpha is the ray opacity.
func (f *GodrayFilter) Alpha() Scalar { return lane(f.uniforms.Vec3("uRay").Slice(), 2) }

// Time animates the rays.
func (f *GodrayFilter) Time() Scalar { return f.uniforms.Scalar("uTime") }

// Apply picks the light vector and records the area size and aspect.
func (f *GodrayFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.syncLight(w, h)
	return f.Base.Apply(sys, input, output, clear)
}

func (f *GodrayFilter) syncLight(w, h float32) {
	light := f.center
	if f.Parallel() {
		light = f.angleLight
	}
	f.uniforms.Vec2("uLight").Set(light)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	f.uniforms.Scalar("uAspect").Set(h / w)
}

func (f *GodrayFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	f.syncLight(w, h)
	light := f.uniforms.Vec2("uLight").Point()
	aspect := h / w
	parallel := f.Parallel()
	gain, lac, alpha := f.Gain().Get(), f.Lacunarity().Get(), f.Alpha().Get()
	t := f.Time().Get()
	rep := [3]float32{480, 320, 480}
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		cx, cy := x/w, y/h
		var d float32
		if parallel {
			d = light.X*cx + light.Y*cy*aspect
		} else {
			dx := cx - light.X/w
			dy := (cy - light.Y/h) * aspect
			d = dy / (math32.Hypot(dx, dy) + 0.00001)
		}
		p := [3]float32{d + t*0.05, d, (62.1 + t) * 0.05}
		n := filter.Turbulence(p, rep, lac, gain) * 0.7
		m := n * (1 - cy) * alpha
		r, g, b, a := s.At(x, y)
		return r + m, g + m, b + m, a + alpha
	})
}
