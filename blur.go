package filters

import (
	_ "embed"
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/blur.wgsl
var blurSource string

var blurLayout = NewUniformLayout("BlurUniforms",
	F32("uStrength"),
	V2("uDirection"),
)

// blurProgram returns the program with the fixed weight table for
// kernelSize unrolled into taps.
func blurProgram(kernelSize int) *Program {
	if !filter.SupportedKernelSize(kernelSize) {
		kernelSize = filter.DefaultKernelSize
	}
	return variant(fmt.Sprintf("blur:%d", kernelSize), func() *Program {
		weights := filter.Weights(kernelSize)
		half := len(weights) / 2
		var taps strings.Builder
		for i, w := range weights {
			fmt.Fprintf(&taps, "  color += sampleInput(in.uv + step * %.1f) * %f;\n", float32(i-half), w)
		}
		src := strings.Replace(blurSource, "{{TAPS}}", taps.String(), 1)
		return NewProgram(fmt.Sprintf("blur-%d", kernelSize), src, blurLayout)
	})
}

// BlurPass is one direction of a Gaussian blur, drawn quality times.
type BlurPass struct {
	Base

	horizontal bool
	strength   float32
	passes     int
	kernelSize int
}

// NewBlurPass creates a pass along the x axis when horizontal is set,
// otherwise along y.
func NewBlurPass(horizontal bool, strength float32, quality, kernelSize int) *BlurPass {
	if !filter.SupportedKernelSize(kernelSize) {
		kernelSize = filter.DefaultKernelSize
	}
	p := &BlurPass{
		Base:       newBase(blurProgram(kernelSize)),
		horizontal: horizontal,
		kernelSize: kernelSize,
	}
	if horizontal {
		p.uniforms.Vec2("uDirection").Set(Pt(1, 0))
	} else {
		p.uniforms.Vec2("uDirection").Set(Pt(0, 1))
	}
	p.SetStrength(strength)
	p.SetQuality(quality)
	p.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		filter.Directional(dst, src, p.kernelSize, p.uniforms.Scalar("uStrength").Get(), p.horizontal)
	}
	return p
}

// Strength returns the blur distance in pixels.
func (p *BlurPass) Strength() float32 { return p.strength }

// SetStrength sets the blur distance in pixels.
func (p *BlurPass) SetStrength(v float32) {
	p.strength = v
	p.padding = 1 + math32.Abs(v)*2
}

// Quality returns the number of draws.
func (p *BlurPass) Quality() int { return p.passes }

// SetQuality sets the number of draws, at least 1.
func (p *BlurPass) SetQuality(n int) { p.passes = max(n, 1) }

// KernelSize returns the tap count.
func (p *BlurPass) KernelSize() int { return p.kernelSize }

// Apply spreads the strength over quality draws.
func (p *BlurPass) Apply(sys System, input, output Surface, clear bool) error {
	if p.destroyed {
		return ErrDestroyed
	}
	p.uniforms.Scalar("uStrength").Set(p.strength / float32(p.passes))
	return pingPong(sys, p, input, output, clear, p.passes, func(int) {})
}

// BlurOptions configures BlurFilter.
type BlurOptions struct {
	// Strength is the blur distance per axis in pixels.
	Strength Point `toml:"strength" yaml:"strength"`
	// Quality is the number of draws per axis.
	Quality int `toml:"quality" yaml:"quality"`
	// KernelSize is one of 5, 7, 9, 11, 13 or 15.
	KernelSize int `toml:"kernel_size" yaml:"kernel_size"`
}

// DefaultBlurOptions returns the documented defaults.
func DefaultBlurOptions() BlurOptions {
	return BlurOptions{Strength: Broadcast(8), Quality: 4, KernelSize: 5}
}

// BlurFilter is a separable Gaussian blur made of a horizontal and a
// vertical BlurPass.
type BlurFilter struct {
	Base

	blurX *BlurPass
	blurY *BlurPass
}

// NewBlurFilter creates a blur filter.
func NewBlurFilter(opts ...Option[BlurOptions]) *BlurFilter {
	o := Resolve(DefaultBlurOptions(), opts...)
	f := &BlurFilter{
		blurX: NewBlurPass(true, o.Strength.X, o.Quality, o.KernelSize),
		blurY: NewBlurPass(false, o.Strength.Y, o.Quality, o.KernelSize),
	}
	f.updatePadding()
	return f
}

// Blur returns the horizontal strength; use BlurX and BlurY when the axes
// differ.
func (f *BlurFilter) Blur() float32 { return f.blurX.Strength() }

// SetBlur sets both axes.
func (f *BlurFilter) SetBlur(v float32) {
	f.blurX.SetStrength(v)
	f.blurY.SetStrength(v)
	f.updatePadding()
}

// BlurX returns the horizontal strength.
func (f *BlurFilter) BlurX() float32 { return f.blurX.Strength() }

// SetBlurX sets the horizontal strength.
func (f *BlurFilter) SetBlurX(v float32) {
	f.blurX.SetStrength(v)
	f.updatePadding()
}

// BlurY returns the vertical strength.
func (f *BlurFilter) BlurY() float32 { return f.blurY.Strength() }

// SetBlurY sets the vertical strength.
func (f *BlurFilter) SetBlurY(v float32) {
	f.blurY.SetStrength(v)
	f.updatePadding()
}

// Quality returns the draws per axis.
func (f *BlurFilter) Quality() int { return f.blurX.Quality() }

// SetQuality sets the draws per axis.
func (f *BlurFilter) SetQuality(n int) {
	f.blurX.SetQuality(n)
	f.blurY.SetQuality(n)
}

// KernelSize returns the tap count.
func (f *BlurFilter) KernelSize() int { return f.blurX.KernelSize() }

func (f *BlurFilter) updatePadding() {
	f.padding = max(math32.Abs(f.blurX.Strength()), math32.Abs(f.blurY.Strength())) * 2
}

// Apply blurs horizontally into a pooled surface, then vertically into
// output. A zero axis is skipped.
func (f *BlurFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	return applyBlur(sys, f.blurX, f.blurY, input, output, clear)
}

func applyBlur(sys System, x, y *BlurPass, input, output Surface, clear bool) error {
	switch {
	case x.Strength() != 0 && y.Strength() != 0:
		return withSurface(sys, input, func(tmp Surface) error {
			if err := x.Apply(sys, input, tmp, true); err != nil {
				return err
			}
			return y.Apply(sys, tmp, output, clear)
		})
	case x.Strength() != 0:
		return x.Apply(sys, input, output, clear)
	default:
		return y.Apply(sys, input, output, clear)
	}
}

// Destroy releases both passes.
func (f *BlurFilter) Destroy() {
	f.Base.Destroy()
	f.blurX.Destroy()
	f.blurY.Destroy()
}
