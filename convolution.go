package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

// ConvolutionOptions configures ConvolutionFilter.
type ConvolutionOptions struct {
	// Matrix is the row-major 3x3 kernel.
	Matrix [9]float32 `toml:"matrix" yaml:"matrix"`
	// Width and Height set the tap spacing to 1/Width and 1/Height of the
	// input. Zero uses the input's own size, so taps land on neighbours.
	Width  float32 `toml:"width" yaml:"width"`
	Height float32 `toml:"height" yaml:"height"`
}

// DefaultConvolutionOptions returns a zero matrix over a 200x200 grid.
func DefaultConvolutionOptions() ConvolutionOptions {
	return ConvolutionOptions{Width: 200, Height: 200}
}

// fromPositional maps (matrix, width, height).
func (o *ConvolutionOptions) fromPositional(a Positional) {
	if m, ok := a.Floats(0); ok {
		copy(o.Matrix[:], m)
	}
	if v, ok := a.Float(1); ok {
		o.Width = v
	}
	if v, ok := a.Float(2); ok {
		o.Height = v
	}
}

//go:embed shaders/convolution.wgsl
var convolutionSource string

var (
	convolutionLayout = NewUniformLayout("ConvolutionUniforms",
		M3("uMatrix"),
		V2("uTexelSize"),
	)
	convolutionProgram = NewProgram("convolution", convolutionSource, convolutionLayout)
)

// ConvolutionFilter applies a 3x3 kernel.
type ConvolutionFilter struct {
	Base

	width  float32
	height float32
}

// NewConvolutionFilter creates a convolution filter.
func NewConvolutionFilter(opts ...Option[ConvolutionOptions]) *ConvolutionFilter {
	o := Resolve(DefaultConvolutionOptions(), opts...)
	f := &ConvolutionFilter{Base: newBase(convolutionProgram)}
	f.Matrix().Set(o.Matrix)
	f.SetWidth(o.Width)
	f.SetHeight(o.Height)
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		t := f.uniforms.Vec2("uTexelSize")
		filter.Convolve3x3(dst, src, f.Matrix().Values(),
			t.X()*float32(src.Rect.Dx()), t.Y()*float32(src.Rect.Dy()))
	}
	return f
}

// Matrix is the live kernel view.
func (f *ConvolutionFilter) Matrix() Mat3 { return f.uniforms.Mat3("uMatrix") }

// Width returns the horizontal grid size.
func (f *ConvolutionFilter) Width() float32 { return f.width }

// SetWidth sets the horizontal grid size.
func (f *ConvolutionFilter) SetWidth(v float32) {
	f.width = v
	if v != 0 {
		f.uniforms.Vec2("uTexelSize").SetX(1 / v)
	}
}

// Height returns the vertical grid size.
func (f *ConvolutionFilter) Height() float32 { return f.height }

// SetHeight sets the vertical grid size.
func (f *ConvolutionFilter) SetHeight(v float32) {
	f.height = v
	if v != 0 {
		f.uniforms.Vec2("uTexelSize").SetY(1 / v)
	}
}

// Apply fills in the texel size from the input when a grid size is zero.
func (f *ConvolutionFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	t := f.uniforms.Vec2("uTexelSize")
	if f.width == 0 {
		t.SetX(1 / w)
	}
	if f.height == 0 {
		t.SetY(1 / h)
	}
	return f.Base.Apply(sys, input, output, clear)
}
