package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// TiltShiftOptions configures TiltShiftFilter. Start and End are in
// pixels and define the sharp line.
type TiltShiftOptions struct {
	Blur float32 `toml:"blur" yaml:"blur"`
	// GradientBlur is the distance from the line over which blur ramps up.
	GradientBlur float32 `toml:"gradient_blur" yaml:"gradient_blur"`
	Start        Point   `toml:"start" yaml:"start"`
	End          Point   `toml:"end" yaml:"end"`
}

// DefaultTiltShiftOptions returns a horizontal line at y=300.
func DefaultTiltShiftOptions() TiltShiftOptions {
	return TiltShiftOptions{
		Blur:         100,
		GradientBlur: 600,
		Start:        Pt(0, 300),
		End:          Pt(600, 300),
	}
}

// fromPositional maps (blur, gradientBlur, start, end).
func (o *TiltShiftOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Blur = v
	}
	if v, ok := a.Float(1); ok {
		o.GradientBlur = v
	}
	if v, ok := a.Point(2); ok {
		o.Start = v
	}
	if v, ok := a.Point(3); ok {
		o.End = v
	}
}

//go:embed shaders/tilt_shift.wgsl
var tiltShiftSource string

var (
	tiltShiftLayout = NewUniformLayout("TiltShiftUniforms",
		V2("uBlur"),
		V2("uStart"),
		V2("uEnd"),
		V2("uDelta"),
		V2("uDimensions"),
	)
	tiltShiftProgram = NewProgram("tilt-shift", tiltShiftSource, tiltShiftLayout)
)

// TiltShiftAxisPass blurs along or across the tilt line, more strongly
// the farther a pixel is from it.
type TiltShiftAxisPass struct {
	Base

	vertical bool
}

func newTiltShiftAxisPass(vertical bool) *TiltShiftAxisPass {
	p := &TiltShiftAxisPass{Base: newBase(tiltShiftProgram), vertical: vertical}
	p.raster = p.rasterize
	return p
}

// updateDelta derives the sampling direction from the line.
func (p *TiltShiftAxisPass) updateDelta() {
	start := p.uniforms.Vec2("uStart").Point()
	end := p.uniforms.Vec2("uEnd").Point()
	dx, dy := end.X-start.X, end.Y-start.Y
	d := math32.Hypot(dx, dy)
	if d == 0 {
		p.uniforms.Vec2("uDelta").Set(Point{})
		return
	}
	if p.vertical {
		p.uniforms.Vec2("uDelta").Set(Pt(-dy/d, dx/d))
	} else {
		p.uniforms.Vec2("uDelta").Set(Pt(dx/d, dy/d))
	}
}

// Apply records the area size.
func (p *TiltShiftAxisPass) Apply(sys System, input, output Surface, clear bool) error {
	w, h := size(input)
	p.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	return p.Base.Apply(sys, input, output, clear)
}

func (p *TiltShiftAxisPass) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	blur := p.uniforms.Vec2("uBlur").Point()
	start := p.uniforms.Vec2("uStart").Point()
	end := p.uniforms.Vec2("uEnd").Point()
	delta := p.uniforms.Vec2("uDelta").Point()
	nx, ny := start.Y-end.Y, end.X-start.X
	if l := math32.Hypot(nx, ny); l > 0 {
		nx, ny = nx/l, ny/l
	}
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		v := math32.Sin(x*12.9898+y*78.233) * 43758.5453
		offset := v - math32.Floor(v)
		dist := math32.Abs((x-start.X)*nx + (y-start.Y)*ny)
		radius := smoothstep(0, 1, dist/blur.Y) * blur.X
		var r, g, b, a, total float32
		for t := float32(-30); t <= 30; t++ {
			percent := (t + offset - 0.5) / 30
			weight := 1 - math32.Abs(percent)
			sr, sg, sb, sa := s.At(x+delta.X*percent*radius, y+delta.Y*percent*radius)
			r += sr * weight
			g += sg * weight
			b += sb * weight
			a += sa * weight
			total += weight
		}
		return r / total, g / total, b / total, a / total
	})
}

// TiltShiftFilter keeps a line sharp and blurs progressively away from it,
// in two passes.
type TiltShiftFilter struct {
	Base

	x *TiltShiftAxisPass
	y *TiltShiftAxisPass
}

// NewTiltShiftFilter creates a tilt shift filter.
func NewTiltShiftFilter(opts ...Option[TiltShiftOptions]) *TiltShiftFilter {
	o := Resolve(DefaultTiltShiftOptions(), opts...)
	f := &TiltShiftFilter{
		x: newTiltShiftAxisPass(false),
		y: newTiltShiftAxisPass(true),
	}
	f.SetBlur(o.Blur)
	f.SetGradientBlur(o.GradientBlur)
	f.SetStart(o.Start)
	f.SetEnd(o.End)
	return f
}

func (f *TiltShiftFilter) each(fn func(p *TiltShiftAxisPass)) {
	fn(f.x)
	fn(f.y)
}

// Blur returns the maximum blur strength.
func (f *TiltShiftFilter) Blur() float32 { return f.x.uniforms.Vec2("uBlur").X() }

// SetBlur sets the maximum blur strength.
func (f *TiltShiftFilter) SetBlur(v float32) {
	f.each(func(p *TiltShiftAxisPass) { p.uniforms.Vec2("uBlur").SetX(v) })
}

// GradientBlur returns the ramp distance.
func (f *TiltShiftFilter) GradientBlur() float32 { return f.x.uniforms.Vec2("uBlur").Y() }

// SetGradientBlur sets the ramp distance.
func (f *TiltShiftFilter) SetGradientBlur(v float32) {
	f.each(func(p *TiltShiftAxisPass) { p.uniforms.Vec2("uBlur").SetY(v) })
}

// Start returns the first point of the line.
func (f *TiltShiftFilter) Start() Point { return f.x.uniforms.Vec2("uStart").Point() }

// SetStart sets the first point of the line from any point shape.
func (f *TiltShiftFilter) SetStart(v any) {
	pt := PointOf(v)
	f.each(func(p *TiltShiftAxisPass) {
		p.uniforms.Vec2("uStart").Set(pt)
		p.updateDelta()
	})
}

// End returns the second point of the line.
func (f *TiltShiftFilter) End() Point { return f.x.uniforms.Vec2("uEnd").Point() }

// SetEnd sets the second point of the line from any point shape.
func (f *TiltShiftFilter) SetEnd(v any) {
	pt := PointOf(v)
	f.each(func(p *TiltShiftAxisPass) {
		p.uniforms.Vec2("uEnd").Set(pt)
		p.updateDelta()
	})
}

// Apply runs the along-line pass into a pooled surface, then the
// across-line pass into output.
func (f *TiltShiftFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	return withSurface(sys, input, func(tmp Surface) error {
		if err := f.x.Apply(sys, input, tmp, true); err != nil {
			return err
		}
		return f.y.Apply(sys, tmp, output, clear)
	})
}

// Destroy releases both passes.
func (f *TiltShiftFilter) Destroy() {
	f.Base.Destroy()
	f.x.Destroy()
	f.y.Destroy()
}
