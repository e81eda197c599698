package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// ReflectionOptions configures ReflectionFilter. Ranges are (start, end)
// pairs interpolated from the boundary to the bottom edge.
type ReflectionOptions struct {
	Mirror bool `toml:"mirror" yaml:"mirror"`
	// Boundary is the normalized vertical position of the water line.
	Boundary   float32 `toml:"boundary" yaml:"boundary"`
	Amplitude  Point   `toml:"amplitude" yaml:"amplitude"`
	WaveLength Point   `toml:"wave_length" yaml:"wave_length"`
	Alpha      Point   `toml:"alpha" yaml:"alpha"`
	Time       float32 `toml:"time" yaml:"time"`
}

// DefaultReflectionOptions returns the documented defaults.
func DefaultReflectionOptions() ReflectionOptions {
	return ReflectionOptions{
		Mirror:     true,
		Boundary:   0.5,
		Amplitude:  Pt(0, 20),
		WaveLength: Pt(30, 100),
		Alpha:      Pt(1, 1),
	}
}

//go:embed shaders/reflection.wgsl
var reflectionSource string

var (
	reflectionLayout = NewUniformLayout("ReflectionUniforms",
		F32("uMirror"),
		F32("uBoundary"),
		V2("uAmplitude"),
		V2("uWaveLength"),
		V2("uAlpha"),
		F32("uTime"),
		V2("uDimensions"),
	)
	reflectionProgram = NewProgram("reflection", reflectionSource, reflectionLayout)
)

// ReflectionFilter mirrors the top part of the image below a boundary
// with animated waves.
type ReflectionFilter struct {
	Base
}

// NewReflectionFilter creates a reflection filter.
func NewReflectionFilter(opts ...Option[ReflectionOptions]) *ReflectionFilter {
	o := Resolve(DefaultReflectionOptions(), opts...)
	f := &ReflectionFilter{Base: newBase(reflectionProgram)}
	f.SetMirror(o.Mirror)
	f.Boundary().Set(o.Boundary)
	f.Amplitude().Set(o.Amplitude)
	f.WaveLength().Set(o.WaveLength)
	f.Alpha().Set(o.Alpha)
	f.Time().Set(o.Time)
	f.raster = f.rasterize
	return f
}

// Mirror reports whether the area below the boundary is flipped.
func (f *ReflectionFilter) Mirror() bool { return f.uniforms.Scalar("uMirror").Bool() }

// SetMirror toggles flipping.
func (f *ReflectionFilter) SetMirror(v bool) { f.uniforms.Scalar("uMirror").SetBool(v) }

// Boundary is the normalized water line.
func (f *ReflectionFilter) Boundary() Scalar { return f.uniforms.Scalar("uBoundary") }

// Amplitude is the live wave amplitude range view.
func (f *ReflectionFilter) Amplitude() Vec2 { return f.uniforms.Vec2("uAmplitude") }

// WaveLength is the live wave length range view.
func (f *ReflectionFilter) WaveLength() Vec2 { return f.uniforms.Vec2("uWaveLength") }

// Alpha is the live opacity range view.
func (f *ReflectionFilter) Alpha() Vec2 { return f.uniforms.Vec2("uAlpha") }

// Time is the wave phase.
func (f *ReflectionFilter) Time() Scalar { return f.uniforms.Scalar("uTime") }

// Apply records the filtered area size.
func (f *ReflectionFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return f.Base.Apply(sys, input, output, clear)
}

func (f *ReflectionFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	boundary := f.Boundary().Get()
	amp, wave, alpha := f.Amplitude().Point(), f.WaveLength().Point(), f.Alpha().Point()
	mirror, t := f.Mirror(), f.Time().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		cy := y / h
		if cy < boundary {
			return s.At(x, y)
		}
		k := cy - boundary
		v := 2*boundary - cy
		sy := y
		if mirror {
			sy = v * h
		}
		a := (amp.Y-amp.X)*k + amp.X
		wl := ((wave.Y-wave.X)*k + wave.X) / h
		al := (alpha.Y-alpha.X)*k + alpha.X
		sx := max(0.5, min(w-0.5, x+math32.Cos(v*6.28/wl-t)*a))
		r, g, b, aa := s.At(sx, sy)
		return r * al, g * al, b * al, aa * al
	})
}
