package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// DropShadowOptions configures DropShadowFilter.
type DropShadowOptions struct {
	// Offset moves the shadow in pixels.
	Offset Point   `toml:"offset" yaml:"offset"`
	Color  Color   `toml:"color" yaml:"color"`
	Alpha  float32 `toml:"alpha" yaml:"alpha"`
	// ShadowOnly skips drawing the input over its shadow.
	ShadowOnly bool    `toml:"shadow_only" yaml:"shadow_only"`
	Blur       float32 `toml:"blur" yaml:"blur"`
	Quality    int     `toml:"quality" yaml:"quality"`
	// Kernels overrides Blur and Quality with explicit Kawase offsets.
	Kernels   []float32 `toml:"kernels" yaml:"kernels"`
	PixelSize Point     `toml:"pixel_size" yaml:"pixel_size"`
}

// DefaultDropShadowOptions returns a soft black shadow 4px down and right.
func DefaultDropShadowOptions() DropShadowOptions {
	return DropShadowOptions{
		Offset:    Pt(4, 4),
		Color:     Hex(0x000000),
		Alpha:     0.5,
		Blur:      2,
		Quality:   3,
		PixelSize: Broadcast(1),
	}
}

//go:embed shaders/drop_shadow.wgsl
var dropShadowSource string

var (
	dropShadowLayout = NewUniformLayout("DropShadowUniforms",
		V3("uColor"),
		F32("uAlpha"),
		V2("uOffset"),
	)
	dropShadowProgram = NewProgram("drop-shadow", dropShadowSource, dropShadowLayout)
)

// shadowTintPass draws the input's alpha mask, offset and colored.
type shadowTintPass struct {
	Base
}

func newShadowTintPass() *shadowTintPass {
	p := &shadowTintPass{Base: newBase(dropShadowProgram)}
	p.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		c := p.uniforms.Vec3("uColor")
		off := p.uniforms.Vec2("uOffset")
		filter.Shadow(dst, src, off.X(), off.Y(), c.At(0), c.At(1), c.At(2), p.uniforms.Scalar("uAlpha").Get())
	}
	return p
}

// DropShadowFilter draws a blurred, offset, colored copy of the input
// beneath it.
type DropShadowFilter struct {
	Base

	tint       *shadowTintPass
	blur       *KawaseBlurFilter
	original   *AlphaFilter
	color      Color
	shadowOnly bool
}

// NewDropShadowFilter creates a drop shadow filter.
func NewDropShadowFilter(opts ...Option[DropShadowOptions]) *DropShadowFilter {
	o := Resolve(DefaultDropShadowOptions(), opts...)
	f := &DropShadowFilter{
		tint: newShadowTintPass(),
		blur: NewKawaseBlurFilter(func(k *KawaseBlurOptions) {
			k.Strength = o.Blur
			k.Quality = o.Quality
			k.Kernels = o.Kernels
			k.PixelSize = o.PixelSize
		}),
		original:   NewAlphaFilter(1),
		shadowOnly: o.ShadowOnly,
	}
	f.SetColor(o.Color)
	f.Alpha().Set(o.Alpha)
	f.SetOffset(o.Offset)
	return f
}

// Offset returns the shadow offset in pixels.
func (f *DropShadowFilter) Offset() Point { return f.tint.uniforms.Vec2("uOffset").Point() }

// SetOffset sets the shadow offset from any point shape.
func (f *DropShadowFilter) SetOffset(v any) {
	f.tint.uniforms.Vec2("uOffset").Set(PointOf(v))
	f.updatePadding()
}

// Color returns the shadow color.
func (f *DropShadowFilter) Color() Color { return f.color }

// SetColor sets the shadow color.
func (f *DropShadowFilter) SetColor(c Color) {
	f.color = c
	f.tint.uniforms.Vec3("uColor").SetRGB(c)
}

// Alpha is the shadow opacity.
func (f *DropShadowFilter) Alpha() Scalar { return f.tint.uniforms.Scalar("uAlpha") }

// ShadowOnly reports whether the input is left out.
func (f *DropShadowFilter) ShadowOnly() bool { return f.shadowOnly }

// SetShadowOnly toggles drawing the input.
func (f *DropShadowFilter) SetShadowOnly(v bool) { f.shadowOnly = v }

// Blur returns the shadow blur strength.
func (f *DropShadowFilter) Blur() float32 { return f.blur.Strength() }

// SetBlur sets the shadow blur strength.
func (f *DropShadowFilter) SetBlur(v float32) {
	f.blur.SetStrength(v)
	f.updatePadding()
}

// Quality returns the blur draw count.
func (f *DropShadowFilter) Quality() int { return f.blur.Quality() }

// SetQuality sets the blur draw count.
func (f *DropShadowFilter) SetQuality(n int) {
	f.blur.SetQuality(n)
	f.updatePadding()
}

// Kernels returns the blur offsets.
func (f *DropShadowFilter) Kernels() []float32 { return f.blur.Kernels() }

// SetKernels sets explicit blur offsets.
func (f *DropShadowFilter) SetKernels(k []float32) {
	f.blur.SetKernels(k)
	f.updatePadding()
}

// PixelSize returns the blur offset scale.
func (f *DropShadowFilter) PixelSize() Point { return f.blur.PixelSize() }

// SetPixelSize sets the blur offset scale.
func (f *DropShadowFilter) SetPixelSize(p Point) { f.blur.SetPixelSize(p) }

func (f *DropShadowFilter) updatePadding() {
	off := f.Offset()
	f.padding = max(math32.Abs(off.X), math32.Abs(off.Y)) + f.blur.Padding()*2
}

// Apply tints into a pooled surface, blurs it into output and draws the
// input on top unless ShadowOnly is set.
func (f *DropShadowFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	return withSurface(sys, input, func(tmp Surface) error {
		if err := f.tint.Apply(sys, input, tmp, true); err != nil {
			return err
		}
		if err := f.blur.Apply(sys, tmp, output, clear); err != nil {
			return err
		}
		if f.shadowOnly {
			return nil
		}
		return f.original.Apply(sys, input, output, false)
	})
}

// Destroy releases the inner passes.
func (f *DropShadowFilter) Destroy() {
	f.Base.Destroy()
	f.tint.Destroy()
	f.blur.Destroy()
	f.original.Destroy()
}
