package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// MotionBlurOptions configures MotionBlurFilter.
type MotionBlurOptions struct {
	// Velocity is the blur direction and length in pixels.
	Velocity Point `toml:"velocity" yaml:"velocity"`
	// KernelSize is the odd sample count, at least 5.
	KernelSize int `toml:"kernel_size" yaml:"kernel_size"`
	// Offset shifts the samples along the velocity.
	Offset float32 `toml:"offset" yaml:"offset"`
}

// DefaultMotionBlurOptions returns a still blur with 5 samples.
func DefaultMotionBlurOptions() MotionBlurOptions {
	return MotionBlurOptions{KernelSize: 5}
}

// fromPositional maps (velocity, kernelSize, offset).
func (o *MotionBlurOptions) fromPositional(a Positional) {
	if p, ok := a.Point(0); ok {
		o.Velocity = p
	}
	if v, ok := a.Int(1); ok {
		o.KernelSize = v
	}
	if v, ok := a.Float(2); ok {
		o.Offset = v
	}
}

//go:embed shaders/motion_blur.wgsl
var motionBlurSource string

var (
	motionBlurLayout = NewUniformLayout("MotionBlurUniforms",
		V2("uVelocity"),
		F32("uKernelSize"),
		F32("uOffset"),
	)
	motionBlurProgram = NewProgram("motion-blur", motionBlurSource, motionBlurLayout)
)

// MotionBlurFilter smears the image along a velocity.
type MotionBlurFilter struct {
	Base

	kernelSize int
}

// NewMotionBlurFilter creates a motion blur.
func NewMotionBlurFilter(opts ...Option[MotionBlurOptions]) *MotionBlurFilter {
	o := Resolve(DefaultMotionBlurOptions(), opts...)
	f := &MotionBlurFilter{Base: newBase(motionBlurProgram)}
	f.SetVelocity(o.Velocity)
	f.SetKernelSize(o.KernelSize)
	f.Offset().Set(o.Offset)
	f.raster = f.rasterize
	return f
}

// Velocity is the live velocity view. Use SetVelocity to keep the padding
// in step.
func (f *MotionBlurFilter) Velocity() Vec2 { return f.uniforms.Vec2("uVelocity") }

// SetVelocity accepts any point shape.
func (f *MotionBlurFilter) SetVelocity(v any) {
	p := PointOf(v)
	f.Velocity().Set(p)
	f.padding = float32(int(max(math32.Abs(p.X), math32.Abs(p.Y)))) + 1
}

// KernelSize returns the sample count.
func (f *MotionBlurFilter) KernelSize() int { return f.kernelSize }

// SetKernelSize sets the sample count.
func (f *MotionBlurFilter) SetKernelSize(n int) { f.kernelSize = n }

// Offset shifts the samples along the velocity.
func (f *MotionBlurFilter) Offset() Scalar { return f.uniforms.Scalar("uOffset") }

// Apply disables the kernel while the velocity is zero.
func (f *MotionBlurFilter) Apply(sys System, input, output Surface, clear bool) error {
	f.syncKernel()
	return f.Base.Apply(sys, input, output, clear)
}

func (f *MotionBlurFilter) syncKernel() {
	k := 0
	if !f.Velocity().Point().IsZero() {
		k = f.kernelSize
	}
	f.uniforms.Scalar("uKernelSize").Set(float32(k))
}

func (f *MotionBlurFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	f.syncKernel()
	k := int(f.uniforms.Scalar("uKernelSize").Get())
	if k <= 1 {
		filter.Copy(dst, src)
		return
	}
	s := filter.NewSampler(src)
	vel := f.Velocity().Point()
	offset := -f.Offset().Get()/math32.Hypot(vel.X, vel.Y) - 0.5
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		for i := 0; i < k-1; i++ {
			t := float32(i)/float32(k-1) + offset
			sr, sg, sb, sa := s.At(x+vel.X*t, y+vel.Y*t)
			r, g, b, a = r+sr, g+sg, b+sb, a+sa
		}
		n := float32(k)
		return r / n, g / n, b / n, a / n
	})
}
