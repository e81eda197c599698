package filters

import (
	_ "embed"
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// OutlineOptions configures OutlineFilter.
type OutlineOptions struct {
	Thickness float32 `toml:"thickness" yaml:"thickness"`
	Color     Color   `toml:"color" yaml:"color"`
	// Quality in [0, 1] picks the number of samples around the circle. It
	// is fixed at construction.
	Quality float32 `toml:"quality" yaml:"quality"`
	Alpha   float32 `toml:"alpha" yaml:"alpha"`
	// Knockout draws only the outline.
	Knockout bool `toml:"knockout" yaml:"knockout"`
}

// DefaultOutlineOptions returns a 1px black outline.
func DefaultOutlineOptions() OutlineOptions {
	return OutlineOptions{Thickness: 1, Color: Hex(0x000000), Quality: 0.1, Alpha: 1}
}

// fromPositional maps (thickness, color, quality, alpha, knockout).
func (o *OutlineOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Thickness = v
	}
	if v, ok := a.Color(1); ok {
		o.Color = v
	}
	if v, ok := a.Float(2); ok {
		o.Quality = v
	}
	if v, ok := a.Float(3); ok {
		o.Alpha = v
	}
	if v, ok := a.Bool(4); ok {
		o.Knockout = v
	}
}

const (
	outlineMinSamples = 1
	outlineMaxSamples = 100
)

//go:embed shaders/outline.wgsl
var outlineSource string

var outlineLayout = NewUniformLayout("OutlineUniforms",
	V2("uThickness"),
	V3("uColor"),
	F32("uAlpha"),
	F32("uKnockout"),
)

// outlineSamples converts quality to a sample count around the circle.
func outlineSamples(quality float32) int {
	return max(int(quality*outlineMaxSamples), outlineMinSamples)
}

func outlineProgram(samples int) *Program {
	return variant(fmt.Sprintf("outline:%d", samples), func() *Program {
		step := fmt.Sprintf("%.7f", 2*math32.Pi/float32(samples))
		src := strings.Replace(outlineSource, "{{ANGLE_STEP}}", step, 1)
		return NewProgram(fmt.Sprintf("outline-%d", samples), src, outlineLayout)
	})
}

// OutlineFilter draws a solid outline around opaque regions.
type OutlineFilter struct {
	Base

	thickness float32
	color     Color
	quality   float32
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(opts ...Option[OutlineOptions]) *OutlineFilter {
	o := Resolve(DefaultOutlineOptions(), opts...)
	f := &OutlineFilter{
		Base:    newBase(outlineProgram(outlineSamples(o.Quality))),
		quality: o.Quality,
	}
	f.SetThickness(o.Thickness)
	f.SetColor(o.Color)
	f.Alpha().Set(o.Alpha)
	f.SetKnockout(o.Knockout)
	f.raster = f.rasterize
	return f
}

// Thickness returns the outline width in pixels.
func (f *OutlineFilter) Thickness() float32 { return f.thickness }

// SetThickness sets the outline width; padding follows it.
func (f *OutlineFilter) SetThickness(v float32) {
	f.thickness = v
	f.padding = v
}

// Color returns the outline color.
func (f *OutlineFilter) Color() Color { return f.color }

// SetColor sets the outline color.
func (f *OutlineFilter) SetColor(c Color) {
	f.color = c
	f.uniforms.Vec3("uColor").SetRGB(c)
}

// Quality returns the sampling quality chosen at construction.
func (f *OutlineFilter) Quality() float32 { return f.quality }

// Alpha is the outline opacity.
func (f *OutlineFilter) Alpha() Scalar { return f.uniforms.Scalar("uAlpha") }

// Knockout reports whether only the outline is drawn.
func (f *OutlineFilter) Knockout() bool { return f.uniforms.Scalar("uKnockout").Bool() }

// SetKnockout toggles knockout.
func (f *OutlineFilter) SetKnockout(v bool) { f.uniforms.Scalar("uKnockout").SetBool(v) }

// Apply converts the thickness to texture space for this input.
func (f *OutlineFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uThickness").Set(Pt(f.thickness/w, f.thickness/h))
	return f.Base.Apply(sys, input, output, clear)
}

func (f *OutlineFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	samples := outlineSamples(f.quality)
	step := 2 * math32.Pi / float32(samples)
	dirs := make([][2]float32, 0, samples+1)
	for angle := float32(0); angle <= 2*math32.Pi; angle += step {
		sn, cs := math32.Sincos(angle)
		dirs = append(dirs, [2]float32{cs * f.thickness, sn * f.thickness})
	}
	c := f.color
	alpha := f.Alpha().Get()
	keep := float32(1)
	if f.Knockout() {
		keep = 0
	}
	thick := f.thickness
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		var maxA float32
		if thick != 0 {
			for _, d := range dirs {
				px := max(0.5, min(w-0.5, x+d[0]))
				py := max(0.5, min(h-0.5, y+d[1]))
				_, _, _, da := s.At(px, py)
				maxA = max(maxA, da)
			}
		}
		oa := alpha * maxA * (1 - a)
		return r*keep + c.R*oa, g*keep + c.G*oa, b*keep + c.B*oa, a*keep + oa
	})
}
