package filters

import (
	_ "embed"
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// ZoomBlurOptions configures ZoomBlurFilter.
type ZoomBlurOptions struct {
	Strength float32 `toml:"strength" yaml:"strength"`
	// Center is in pixels.
	Center      Point   `toml:"center" yaml:"center"`
	InnerRadius float32 `toml:"inner_radius" yaml:"inner_radius"`
	// Radius bounds the blur; negative means infinite.
	Radius float32 `toml:"radius" yaml:"radius"`
	// MaxKernelSize is the sample count, fixed at construction.
	MaxKernelSize int `toml:"max_kernel_size" yaml:"max_kernel_size"`
}

// DefaultZoomBlurOptions returns the documented defaults.
func DefaultZoomBlurOptions() ZoomBlurOptions {
	return ZoomBlurOptions{Strength: 0.1, Radius: -1, MaxKernelSize: 32}
}

//go:embed shaders/zoom_blur.wgsl
var zoomBlurSource string

var zoomBlurLayout = NewUniformLayout("ZoomBlurUniforms",
	F32("uStrength"),
	F32("uInnerRadius"),
	V2("uCenter"),
	F32("uRadius"),
)

func zoomBlurProgram(maxKernel int) *Program {
	return variant(fmt.Sprintf("zoom-blur:%d", maxKernel), func() *Program {
		src := strings.Replace(zoomBlurSource, "{{MAX_KERNEL_SIZE}}", fmt.Sprintf("%d.0", maxKernel), 1)
		return NewProgram(fmt.Sprintf("zoom-blur-%d", maxKernel), src, zoomBlurLayout)
	})
}

// ZoomBlurFilter blurs toward a center point.
type ZoomBlurFilter struct {
	Base

	maxKernel int
}

// NewZoomBlurFilter creates a zoom blur.
func NewZoomBlurFilter(opts ...Option[ZoomBlurOptions]) *ZoomBlurFilter {
	o := Resolve(DefaultZoomBlurOptions(), opts...)
	maxKernel := max(o.MaxKernelSize, 1)
	f := &ZoomBlurFilter{Base: newBase(zoomBlurProgram(maxKernel)), maxKernel: maxKernel}
	f.Strength().Set(o.Strength)
	f.Center().Set(o.Center)
	f.InnerRadius().Set(o.InnerRadius)
	f.Radius().Set(o.Radius)
	f.raster = f.rasterize
	return f
}

// Strength is the zoom amount.
func (f *ZoomBlurFilter) Strength() Scalar { return f.uniforms.Scalar("uStrength") }

// Center is the live center view in pixels.
func (f *ZoomBlurFilter) Center() Vec2 { return f.uniforms.Vec2("uCenter") }

// InnerRadius is the unblurred radius around the center.
func (f *ZoomBlurFilter) InnerRadius() Scalar { return f.uniforms.Scalar("uInnerRadius") }

// Radius bounds the blur; negative is infinite.
func (f *ZoomBlurFilter) Radius() Scalar { return f.uniforms.Scalar("uRadius") }

// MaxKernelSize returns the sample count.
func (f *ZoomBlurFilter) MaxKernelSize() int { return f.maxKernel }

func (f *ZoomBlurFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	n := float32(f.maxKernel)
	c := f.Center().Point()
	inner, outer := f.InnerRadius().Get(), f.Radius().Get()
	minGradient := inner * 0.3
	innerRadius := inner + minGradient*0.5
	gradient := outer * 0.3
	radius := outer - gradient*0.5
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		dx, dy := c.X-x, c.Y-y
		dist := math32.Hypot(dx, dy)
		limit, strength := n, f.Strength().Get()
		var delta, gap float32
		switch {
		case dist < innerRadius:
			delta, gap = innerRadius-dist, minGradient
		case radius >= 0 && dist > radius:
			delta, gap = dist-radius, gradient
		}
		if delta > 0 {
			delta = (gap - delta) / gap
			limit *= delta
			strength *= delta
			if limit < 1 {
				return s.At(x, y)
			}
		}
		var r, g, b, a, total float32
		for t := float32(0); t < n; t++ {
			if t >= limit {
				break
			}
			p := (t + 0.5) / n
			wt := 4 * (p - p*p)
			sr, sg, sb, sa := s.At(x+dx*strength*p, y+dy*strength*p)
			r, g, b, a = r+sr*wt, g+sg*wt, b+sb*wt, a+sa*wt
			total += wt
		}
		return r / total, g / total, b / total, a / total
	})
}
