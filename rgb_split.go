package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// RGBSplitOptions configures RGBSplitFilter. Offsets are in pixels.
type RGBSplitOptions struct {
	Red   Point `toml:"red" yaml:"red"`
	Green Point `toml:"green" yaml:"green"`
	Blue  Point `toml:"blue" yaml:"blue"`
}

// DefaultRGBSplitOptions returns red (-10, 0), green (0, 10), blue (0, 0).
func DefaultRGBSplitOptions() RGBSplitOptions {
	return RGBSplitOptions{Red: Pt(-10, 0), Green: Pt(0, 10), Blue: Pt(0, 0)}
}

// fromPositional maps (red, green, blue).
func (o *RGBSplitOptions) fromPositional(a Positional) {
	if p, ok := a.Point(0); ok {
		o.Red = p
	}
	if p, ok := a.Point(1); ok {
		o.Green = p
	}
	if p, ok := a.Point(2); ok {
		o.Blue = p
	}
}

//go:embed shaders/rgb_split.wgsl
var rgbSplitSource string

var (
	rgbSplitLayout = NewUniformLayout("RGBSplitUniforms",
		V2("uRed"),
		V2("uGreen"),
		V2("uBlue"),
	)
	rgbSplitProgram = NewProgram("rgb-split", rgbSplitSource, rgbSplitLayout)
)

// RGBSplitFilter offsets each color channel independently.
type RGBSplitFilter struct {
	Base
}

// NewRGBSplitFilter creates an RGB split filter.
func NewRGBSplitFilter(opts ...Option[RGBSplitOptions]) *RGBSplitFilter {
	o := Resolve(DefaultRGBSplitOptions(), opts...)
	f := &RGBSplitFilter{Base: newBase(rgbSplitProgram)}
	f.Red().Set(o.Red)
	f.Green().Set(o.Green)
	f.Blue().Set(o.Blue)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		s := filter.NewSampler(src)
		red, green, blue := f.Red().Point(), f.Green().Point(), f.Blue().Point()
		filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
			r, _, _, _ := s.At(x+red.X, y+red.Y)
			_, g, _, _ := s.At(x+green.X, y+green.Y)
			_, _, b, _ := s.At(x+blue.X, y+blue.Y)
			_, _, _, a := s.At(x, y)
			return r, g, b, a
		})
	}
	return f
}

// Red is the live red channel offset.
func (f *RGBSplitFilter) Red() Vec2 { return f.uniforms.Vec2("uRed") }

// Green is the live green channel offset.
func (f *RGBSplitFilter) Green() Vec2 { return f.uniforms.Vec2("uGreen") }

// Blue is the live blue channel offset.
func (f *RGBSplitFilter) Blue() Vec2 { return f.uniforms.Vec2("uBlue") }
