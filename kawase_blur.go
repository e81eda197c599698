package filters

import (
	_ "embed"
	"image"
	"strings"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/kawase.wgsl
var kawaseSource string

var kawaseLayout = NewUniformLayout("KawaseUniforms", V2("uOffset"))

func kawaseProgram(clamp bool) *Program {
	if clamp {
		return variant("kawase:clamp", func() *Program {
			return NewProgram("kawase-clamp", strings.ReplaceAll(kawaseSource, "SAMPLE", "sampleClamped"), kawaseLayout)
		})
	}
	return variant("kawase", func() *Program {
		return NewProgram("kawase", strings.ReplaceAll(kawaseSource, "SAMPLE", "sampleInput"), kawaseLayout)
	})
}

// KawaseBlurOptions configures KawaseBlurFilter.
type KawaseBlurOptions struct {
	// Strength is the blur distance. Ignored when Kernels is set.
	Strength float32 `toml:"strength" yaml:"strength"`
	// Quality is the number of draws. Ignored when Kernels is set.
	Quality int `toml:"quality" yaml:"quality"`
	// Clamp keeps taps inside the filtered area.
	Clamp bool `toml:"clamp" yaml:"clamp"`
	// Kernels lists per-draw offsets explicitly.
	Kernels []float32 `toml:"kernels" yaml:"kernels"`
	// PixelSize scales offsets per axis.
	PixelSize Point `toml:"pixel_size" yaml:"pixel_size"`
}

// DefaultKawaseBlurOptions returns the documented defaults.
func DefaultKawaseBlurOptions() KawaseBlurOptions {
	return KawaseBlurOptions{Strength: 4, Quality: 3, PixelSize: Broadcast(1)}
}

// fromPositional maps (strength|kernels, quality, clamp).
func (o *KawaseBlurOptions) fromPositional(a Positional) {
	if k, ok := a.Floats(0); ok {
		o.Kernels = k
	} else if v, ok := a.Float(0); ok {
		o.Strength = v
	}
	if v, ok := a.Int(1); ok {
		o.Quality = v
	}
	if v, ok := a.Bool(2); ok {
		o.Clamp = v
	}
}

// KawaseBlurFilter approximates a Gaussian blur with a few cheap four-tap
// draws of growing offset.
type KawaseBlurFilter struct {
	Base

	strength  float32
	quality   int
	kernels   []float32
	pixelSize Point
	clamp     bool
}

// NewKawaseBlurFilter creates a Kawase blur.
func NewKawaseBlurFilter(opts ...Option[KawaseBlurOptions]) *KawaseBlurFilter {
	o := Resolve(DefaultKawaseBlurOptions(), opts...)
	f := &KawaseBlurFilter{
		Base:      newBase(kawaseProgram(o.Clamp)),
		pixelSize: o.PixelSize,
		clamp:     o.Clamp,
	}
	if len(o.Kernels) > 0 {
		f.SetKernels(o.Kernels)
	} else {
		f.strength = o.Strength
		f.quality = max(o.Quality, 1)
		f.generateKernels()
	}
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		off := f.uniforms.Vec2("uOffset")
		filter.Kawase(dst, src, off.X(), off.Y(), f.clamp)
	}
	return f
}

// generateKernels derives per-draw offsets from strength and quality.
func (f *KawaseBlurFilter) generateKernels() {
	k := f.strength
	kernels := []float32{k}
	if f.strength > 0 {
		step := f.strength / float32(f.quality)
		for i := 1; i < f.quality; i++ {
			k -= step
			kernels = append(kernels, k)
		}
	}
	f.kernels = kernels
	f.updatePadding()
}

func (f *KawaseBlurFilter) updatePadding() {
	var sum float32
	for _, k := range f.kernels {
		sum += k + 0.5
	}
	f.padding = float32(int(sum + 0.999999))
}

// Strength returns the blur distance.
func (f *KawaseBlurFilter) Strength() float32 { return f.strength }

// SetStrength sets the blur distance and regenerates the kernels.
func (f *KawaseBlurFilter) SetStrength(v float32) {
	f.strength = v
	f.generateKernels()
}

// Quality returns the number of draws.
func (f *KawaseBlurFilter) Quality() int { return f.quality }

// SetQuality sets the number of draws and regenerates the kernels.
func (f *KawaseBlurFilter) SetQuality(n int) {
	f.quality = max(n, 1)
	f.generateKernels()
}

// Kernels returns the per-draw offsets.
func (f *KawaseBlurFilter) Kernels() []float32 { return f.kernels }

// SetKernels sets explicit offsets; strength becomes the first kernel.
func (f *KawaseBlurFilter) SetKernels(k []float32) {
	if len(k) == 0 {
		f.kernels = []float32{0}
		f.strength = 0
		f.quality = 1
	} else {
		f.kernels = append([]float32(nil), k...)
		f.strength = k[0]
		f.quality = len(k)
	}
	f.updatePadding()
}

// PixelSize returns the per-axis offset scale.
func (f *KawaseBlurFilter) PixelSize() Point { return f.pixelSize }

// SetPixelSize sets the per-axis offset scale.
func (f *KawaseBlurFilter) SetPixelSize(p Point) { f.pixelSize = p }

// Clamp reports whether taps stay inside the filtered area.
func (f *KawaseBlurFilter) Clamp() bool { return f.clamp }

// Apply draws each kernel, ping-ponging through pooled surfaces.
func (f *KawaseBlurFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	n := len(f.kernels)
	if f.quality == 1 || f.strength == 0 {
		n = 1
	}
	off := f.uniforms.Vec2("uOffset")
	return pingPong(sys, f, input, output, clear, n, func(i int) {
		k := f.kernels[i] + 0.5
		off.Set(Pt(k*f.pixelSize.X, k*f.pixelSize.Y))
	})
}
