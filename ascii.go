package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// AsciiOptions configures AsciiFilter.
type AsciiOptions struct {
	// Size is the character cell size in pixels.
	Size float32 `toml:"size" yaml:"size"`
}

// DefaultAsciiOptions returns 8 pixel cells.
func DefaultAsciiOptions() AsciiOptions {
	return AsciiOptions{Size: 8}
}

// fromPositional maps (size).
func (o *AsciiOptions) fromPositional(a Positional) {
	if v, ok := a.Float(0); ok {
		o.Size = v
	}
}

//go:embed shaders/ascii.wgsl
var asciiSource string

var (
	asciiLayout  = NewUniformLayout("AsciiUniforms", F32("uSize"))
	asciiProgram = NewProgram("ascii", asciiSource, asciiLayout)
)

// asciiGlyphs are 5x5 bitmaps indexed by brightness, darkest first.
var asciiGlyphs = [...]struct {
	threshold float32
	bits      float32
}{
	{0.8, 11512810}, {0.7, 13199452}, {0.6, 15252014}, {0.5, 23385164},
	{0.4, 15255086}, {0.3, 332772}, {0.2, 65600}, {-1, 65536},
}

// AsciiFilter renders each cell as a glyph whose density follows the
// cell's brightness.
type AsciiFilter struct {
	Base
}

// NewAsciiFilter creates an ASCII filter.
func NewAsciiFilter(opts ...Option[AsciiOptions]) *AsciiFilter {
	o := Resolve(DefaultAsciiOptions(), opts...)
	f := &AsciiFilter{Base: newBase(asciiProgram)}
	f.Size().Set(o.Size)
	f.raster = f.rasterize
	return f
}

// Size is the cell size in pixels.
func (f *AsciiFilter) Size() Scalar { return f.uniforms.Scalar("uSize") }

func (f *AsciiFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	size := f.Size().Get()
	if size <= 0 {
		filter.Copy(dst, src)
		return
	}
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		cx := math32.Floor(x/size) * size
		cy := math32.Floor(y/size) * size
		r, g, b, a := s.At(cx+0.5, cy+0.5)
		gray := (r + g + b) / 3
		var n float32
		for _, glyph := range asciiGlyphs {
			if gray > glyph.threshold {
				n = glyph.bits
				break
			}
		}
		mx := (x-cx)/size*2 - 1
		my := (y-cy)/size*2 - 1 + 2
		if glyphBit(n, mx, my) {
			return r, g, b, a
		}
		return 0, 0, 0, 0
	})
}

// glyphBit reports whether the 5x5 glyph n covers point p in [-1, 1].
func glyphBit(n, px, py float32) bool {
	px = math32.Floor(px*4 + 2.5)
	py = math32.Floor(py*-4 + 2.5)
	if px < 0 || px > 4 || py < 0 || py > 4 {
		return false
	}
	return int64(n/math32.Exp2(px+5*py))%2 == 1
}
