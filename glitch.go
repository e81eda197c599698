package filters

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// FillMode selects what Glitch shows where a slice moves past the edge.
type FillMode int

const (
	FillTransparent FillMode = iota
	FillOriginal
	FillLoop
	FillClamp
	FillMirror
)

var fillModeNames = [...]string{"transparent", "original", "loop", "clamp", "mirror"}

// String returns the fill mode name.
func (m FillMode) String() string {
	if m < 0 || int(m) >= len(fillModeNames) {
		return "unknown"
	}
	return fillModeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m FillMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FillMode) UnmarshalText(text []byte) error {
	for i, name := range fillModeNames {
		if name == string(text) {
			*m = FillMode(i)
			return nil
		}
	}
	return fmt.Errorf("filters: unknown fill mode %q", text)
}

// GlitchOptions configures GlitchFilter.
type GlitchOptions struct {
	// Slices is the number of displaced bands.
	Slices int `toml:"slices" yaml:"slices"`
	// Offset is the maximum displacement in pixels.
	Offset float32 `toml:"offset" yaml:"offset"`
	// Direction of the displacement in degrees.
	Direction float32  `toml:"direction" yaml:"direction"`
	FillMode  FillMode `toml:"fill_mode" yaml:"fill_mode"`
	// Seed shifts the color channel offsets.
	Seed float32 `toml:"seed" yaml:"seed"`
	// Average makes slice sizes roughly equal.
	Average bool `toml:"average" yaml:"average"`
	// MinSize is the smallest slice in displacement map pixels.
	MinSize int `toml:"min_size" yaml:"min_size"`
	// SampleSize is the height of the displacement map.
	SampleSize int   `toml:"sample_size" yaml:"sample_size"`
	Red        Point `toml:"red" yaml:"red"`
	Green      Point `toml:"green" yaml:"green"`
	Blue       Point `toml:"blue" yaml:"blue"`
}

// DefaultGlitchOptions returns the documented defaults.
func DefaultGlitchOptions() GlitchOptions {
	return GlitchOptions{Slices: 5, Offset: 100, MinSize: 8, SampleSize: 512}
}

//go:embed shaders/glitch.wgsl
var glitchSource string

var (
	glitchLayout = NewUniformLayout("GlitchUniforms",
		V2("uDimensions"),
		F32("uAspect"),
		F32("uSeed"),
		F32("uOffset"),
		F32("uDirection"),
		F32("uFillMode"),
		V2("uRed"),
		V2("uGreen"),
		V2("uBlue"),
	)
	glitchProgram = NewProgram("glitch", glitchSource, glitchLayout, "displacementMap")
)

// GlitchFilter displaces random bands of the image and splits the color
// channels.
type GlitchFilter struct {
	Base

	direction  float32
	average    bool
	minSize    int
	sampleSize int
	sizes      []float32
	offsets    []float32

	canvas  *image.RGBA
	texture *ImageTexture
}

// NewGlitchFilter creates a glitch filter and draws its first random
// displacement map.
func NewGlitchFilter(opts ...Option[GlitchOptions]) *GlitchFilter {
	o := Resolve(DefaultGlitchOptions(), opts...)
	sample := max(o.SampleSize, 1)
	f := &GlitchFilter{
		Base:       newBase(glitchProgram),
		average:    o.Average,
		minSize:    o.MinSize,
		sampleSize: sample,
		canvas:     image.NewRGBA(image.Rect(0, 0, 4, sample)),
	}
	f.texture = NewImageTexture(f.canvas)
	f.texture.SetNearest(true)
	f.own(f.texture)
	f.setTexture("displacementMap", f.texture)

	f.Offset().Set(o.Offset)
	f.SetDirection(o.Direction)
	f.SetFillMode(o.FillMode)
	f.Seed().Set(o.Seed)
	f.Red().Set(o.Red)
	f.Green().Set(o.Green)
	f.Blue().Set(o.Blue)
	f.SetSlices(o.Slices)
	f.raster = f.rasterize
	return f
}

// Slices returns the number of bands.
func (f *GlitchFilter) Slices() int { return len(f.sizes) }

// SetSlices changes the number of bands and redraws the map.
func (f *GlitchFilter) SetSlices(n int) {
	n = max(n, 1)
	f.sizes = make([]float32, n)
	f.offsets = make([]float32, n)
	f.Refresh()
}

// Sizes returns the normalized band sizes; they sum to 1.
func (f *GlitchFilter) Sizes() []float32 { return f.sizes }

// SetSizes sets band sizes explicitly and redraws. The length must match
// Slices.
func (f *GlitchFilter) SetSizes(s []float32) {
	copy(f.sizes, s)
	f.Redraw()
}

// Offsets returns the per-band displacement in [-1, 1].
func (f *GlitchFilter) Offsets() []float32 { return f.offsets }

// SetOffsets sets band displacements explicitly and redraws.
func (f *GlitchFilter) SetOffsets(o []float32) {
	copy(f.offsets, o)
	f.Redraw()
}

// Offset is the maximum displacement in pixels.
func (f *GlitchFilter) Offset() Scalar { return f.uniforms.Scalar("uOffset") }

// Direction returns the displacement angle in degrees.
func (f *GlitchFilter) Direction() float32 { return f.direction }

// SetDirection sets the displacement angle in degrees.
func (f *GlitchFilter) SetDirection(deg float32) {
	f.direction = deg
	f.uniforms.Scalar("uDirection").Set(deg * math32.Pi / 180)
}

// FillMode returns the edge fill mode.
func (f *GlitchFilter) FillMode() FillMode { return FillMode(f.uniforms.Scalar("uFillMode").Get()) }

// SetFillMode sets the edge fill mode.
func (f *GlitchFilter) SetFillMode(m FillMode) { f.uniforms.Scalar("uFillMode").Set(float32(m)) }

// Seed shifts the color channel offsets.
func (f *GlitchFilter) Seed() Scalar { return f.uniforms.Scalar("uSeed") }

// Red is the red channel offset in pixels.
func (f *GlitchFilter) Red() Vec2 { return f.uniforms.Vec2("uRed") }

// Green is the green channel offset in pixels.
func (f *GlitchFilter) Green() Vec2 { return f.uniforms.Vec2("uGreen") }

// Blue is the blue channel offset in pixels.
func (f *GlitchFilter) Blue() Vec2 { return f.uniforms.Vec2("uBlue") }

// DisplacementMap returns the texture the bands are drawn into.
func (f *GlitchFilter) DisplacementMap() *ImageTexture { return f.texture }

// Refresh picks new random band sizes and offsets and redraws.
func (f *GlitchFilter) Refresh() {
	f.randomizeSizes()
	f.randomizeOffsets()
	f.Redraw()
}

func (f *GlitchFilter) randomizeSizes() {
	n := len(f.sizes)
	last := n - 1
	minSize := min(float32(f.minSize)/float32(f.sampleSize), 0.9/float32(n))
	rest := float32(1)
	if f.average {
		for i := 0; i < last; i++ {
			avg := rest / float32(n-i)
			w := max(avg*(1-rand.Float32()*0.6), minSize)
			f.sizes[i] = w
			rest -= w
		}
	} else {
		ratio := math32.Sqrt(1 / float32(n))
		for i := 0; i < last; i++ {
			w := max(ratio*rest*rand.Float32(), minSize)
			f.sizes[i] = w
			rest -= w
		}
	}
	f.sizes[last] = rest
	rand.Shuffle(n, func(i, j int) { f.sizes[i], f.sizes[j] = f.sizes[j], f.sizes[i] })
}

func (f *GlitchFilter) randomizeOffsets() {
	for i := range f.offsets {
		v := rand.Float32()
		if rand.IntN(2) == 0 {
			v = -v
		}
		f.offsets[i] = v
	}
}

// Redraw paints the current sizes and offsets into the displacement map.
// Positive offsets go to red, negative ones to green.
func (f *GlitchFilter) Redraw() {
	size := float32(f.sampleSize)
	clear(f.canvas.Pix)
	var y float32
	for i, s := range f.sizes {
		off := int(math32.Floor(f.offsets[i] * 256))
		var c color.RGBA
		c.A = 255
		if off > 0 {
			c.R = uint8(min(off, 255))
		} else {
			c.G = uint8(min(-off, 255))
		}
		h := s * size
		y0, y1 := int(y), min(int(y+h+1), f.sampleSize)
		for py := y0; py < y1; py++ {
			for px := 0; px < f.canvas.Rect.Dx(); px++ {
				f.canvas.SetRGBA(px, py, c)
			}
		}
		y += h
	}
	f.texture.Invalidate()
}

// Apply records the area size and aspect for this input.
func (f *GlitchFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	w, h := size(input)
	f.uniforms.Vec2("uDimensions").Set(Pt(w, h))
	f.uniforms.Scalar("uAspect").Set(h / w)
	return f.Base.Apply(sys, input, output, clear)
}

// wrap maps coordinate v in pixels into [lo, hi] for mode; false drops the
// pixel.
func wrap(v, lo, hi float32, mode FillMode) (float32, bool) {
	switch {
	case v > hi:
		switch mode {
		case FillLoop:
			return v - hi, true
		case FillMirror:
			return 2*hi - v, true
		}
		return v, false
	case v < lo:
		switch mode {
		case FillLoop:
			return v + hi, true
		case FillMirror:
			return -v, true
		}
		return v, false
	}
	return v, true
}

func (f *GlitchFilter) rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	disp := filter.NewSampler(lookup(f.texture))
	w, h := s.Size()
	aspect := h / w
	sn, cs := math32.Sincos(f.uniforms.Scalar("uDirection").Get())
	offset := f.Offset().Get()
	mode := f.FillMode()
	seed := f.Seed().Get()
	red, green, blue := f.Red().Point(), f.Green().Point(), f.Blue().Point()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		cx, cy := x/w-0.5, (y/h-0.5)*aspect
		ny := (-sn*cx+cs*cy)/aspect + 0.5
		if ny > 1 {
			ny = 2 - ny
		}
		if ny < 0 {
			ny = -ny
		}
		dr, dg, _, _ := disp.UV(0.5, ny)
		d := (dr - dg) * offset
		px, py := x+cs*d, y+sn*d*aspect*h/w
		if mode == FillClamp {
			px, py = max(0.5, min(w-0.5, px)), max(0.5, min(h-0.5, py))
		} else {
			var okx, oky bool
			px, okx = wrap(px, 0.5, w-0.5, mode)
			py, oky = wrap(py, 0.5, h-0.5, mode)
			if !okx || !oky {
				if mode == FillOriginal {
					return s.At(x, y)
				}
				return 0, 0, 0, 0
			}
		}
		r, _, _, _ := s.At(px+red.X*(1-seed*0.4), py+red.Y*(1-seed*0.4))
		_, g, _, _ := s.At(px+green.X*(1-seed*0.3), py+green.Y*(1-seed*0.3))
		_, _, b, _ := s.At(px+blue.X*(1-seed*0.2), py+blue.Y*(1-seed*0.2))
		_, _, _, a := s.At(px, py)
		return r, g, b, a
	})
}
