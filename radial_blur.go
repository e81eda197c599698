package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// RadialBlurOptions configures RadialBlurFilter.
type RadialBlurOptions struct {
	// Angle is the sweep in degrees. Zero disables the blur.
	Angle float32 `toml:"angle" yaml:"angle"`
	// Center is in pixels.
	Center Point `toml:"center" yaml:"center"`
	// KernelSize is the sample count.
	KernelSize int `toml:"kernel_size" yaml:"kernel_size"`
	// Radius bounds the blur; negative means infinite.
	Radius float32 `toml:"radius" yaml:"radius"`
}

// DefaultRadialBlurOptions returns the documented defaults.
func DefaultRadialBlurOptions() RadialBlurOptions {
	return RadialBlurOptions{KernelSize: 5, Radius: -1}
}

// fromPositional maps (angle, center, kernelSize, radius).
func (o *RadialBlurOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Angle = v
	}
	if p, ok := a.Point(1); ok {
		o.Center = p
	}
	if v, ok := a.Int(2); ok {
		o.KernelSize = v
	}
	if v, ok := a.Float(3); ok {
		o.Radius = v
	}
}

//go:embed shaders/radial_blur.wgsl
var radialBlurSource string

var (
	radialBlurLayout = NewUniformLayout("RadialBlurUniforms",
		F32("uRadian"),
		F32("uKernelSize"),
		V2("uCenter"),
		F32("uRadius"),
	)
	radialBlurProgram = NewProgram("radial-blur", radialBlurSource, radialBlurLayout)
)

// RadialBlurFilter blurs along arcs around a center.
type RadialBlurFilter struct {
	Base

	angle      float32
	kernelSize int
}

// NewRadialBlurFilter creates a radial blur.
func NewRadialBlurFilter(opts ...Option[RadialBlurOptions]) *RadialBlurFilter {
	o := Resolve(DefaultRadialBlurOptions(), opts...)
	f := &RadialBlurFilter{Base: newBase(radialBlurProgram)}
	f.Center().Set(o.Center)
	f.kernelSize = o.KernelSize
	f.SetAngle(o.Angle)
	f.Radius().Set(o.Radius)
	f.raster = f.rasterize
	return f
}

// Angle returns the sweep in degrees.
func (f *RadialBlurFilter) Angle() float32 { return f.angle }

// SetAngle sets the sweep in degrees.
func (f *RadialBlurFilter) SetAngle(deg float32) {
	f.angle = deg
	f.uniforms.Scalar("uRadian").Set(deg * math32.Pi / 180)
	f.syncKernel()
}

// KernelSize returns the configured sample count.
func (f *RadialBlurFilter) KernelSize() int { return f.kernelSize }

// SetKernelSize sets the sample count.
func (f *RadialBlurFilter) SetKernelSize(n int) {
	f.kernelSize = n
	f.syncKernel()
}

// ActiveKernelSize returns the sample count the shader uses: zero while
// the angle is zero.
func (f *RadialBlurFilter) ActiveKernelSize() int {
	return int(f.uniforms.Scalar("uKernelSize").Get())
}

func (f *RadialBlurFilter) syncKernel() {
	k := 0
	if f.angle != 0 {
		k = f.kernelSize
	}
	f.uniforms.Scalar("uKernelSize").Set(float32(k))
}

// Center is the live center view in pixels.
func (f *RadialBlurFilter) Center() Vec2 { return f.uniforms.Vec2("uCenter") }

// Radius bounds the blur; negative is infinite.
func (f *RadialBlurFilter) Radius() Scalar { return f.uniforms.Scalar("uRadius") }

func (f *RadialBlurFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	k := f.ActiveKernelSize()
	if k == 0 {
		filter.Copy(dst, src)
		return
	}
	s := filter.NewSampler(src)
	c := f.Center().Point()
	radian := f.uniforms.Scalar("uRadian").Get()
	gradient := f.Radius().Get() * 0.3
	radius := f.Radius().Get() - gradient*0.5
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		step := radian
		if dist := math32.Hypot(c.X-x, c.Y-y); radius >= 0 && dist > radius {
			scale := 1 - math32.Abs((dist-radius)/gradient)
			if scale <= 0 {
				return r, g, b, a
			}
			step *= scale
		}
		sin, cos := math32.Sincos(step / float32(k-1))
		px, py := x-c.X, y-c.Y
		for i := 0; i < k-1; i++ {
			px, py = cos*px+sin*py, -sin*px+cos*py
			sr, sg, sb, sa := s.At(px+c.X, py+c.Y)
			r, g, b, a = r+sr, g+sg, b+sb, a+sa
		}
		n := float32(k)
		return r / n, g / n, b / n, a / n
	})
}
