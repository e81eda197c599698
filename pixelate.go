package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// PixelateOptions configures PixelateFilter.
type PixelateOptions struct {
	// Size is the block size in pixels per axis.
	Size Point `toml:"size" yaml:"size"`
}

// DefaultPixelateOptions returns 10x10 blocks.
func DefaultPixelateOptions() PixelateOptions {
	return PixelateOptions{Size: Broadcast(10)}
}

// fromPositional maps (size), where size is a number or a point.
func (o *PixelateOptions) fromPositional(a Positional) {
	if p, ok := a.Point(0); ok {
		o.Size = p
	}
}

//go:embed shaders/pixelate.wgsl
var pixelateSource string

var (
	pixelateLayout  = NewUniformLayout("PixelateUniforms", V2("uSize"))
	pixelateProgram = NewProgram("pixelate", pixelateSource, pixelateLayout)
)

// PixelateFilter renders the input as square blocks.
type PixelateFilter struct {
	Base
}

// NewPixelateFilter creates a pixelate filter.
func NewPixelateFilter(opts ...Option[PixelateOptions]) *PixelateFilter {
	o := Resolve(DefaultPixelateOptions(), opts...)
	f := &PixelateFilter{Base: newBase(pixelateProgram)}
	f.Size().Set(o.Size)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		sz := f.Size().Point()
		filter.Remap(dst, src, func(x, y float32) (float32, float32, bool) {
			if sz.X <= 0 || sz.Y <= 0 {
				return x, y, true
			}
			// Read the top-left texel of the block.
			return math32.Floor(x/sz.X)*sz.X + 0.5, math32.Floor(y/sz.Y)*sz.Y + 0.5, true
		})
	}
	return f
}

// Size is the live block size view. Writing through it resizes blocks.
func (f *PixelateFilter) Size() Vec2 { return f.uniforms.Vec2("uSize") }

// SetSize accepts a Point, a [2]float32, a slice, or a single number.
func (f *PixelateFilter) SetSize(v any) { f.Size().Set(PointOf(v)) }
