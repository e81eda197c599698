package filters

import (
	_ "embed"
	"fmt"
	"image"
	"strings"

	"github.com/gogpu/filters/internal/filter"
)

// Replacement maps one color to another.
type Replacement struct {
	Original Color `toml:"original" yaml:"original"`
	Target   Color `toml:"target" yaml:"target"`
}

// MultiColorReplaceOptions configures MultiColorReplaceFilter.
type MultiColorReplaceOptions struct {
	Replacements []Replacement `toml:"replacements" yaml:"replacements"`
	// Tolerance is the RGB distance under which a pixel is replaced.
	Tolerance float32 `toml:"tolerance" yaml:"tolerance"`
	// MaxColors fixes the table size at construction; zero uses the
	// number of replacements.
	MaxColors int `toml:"max_colors" yaml:"max_colors"`
}

// DefaultMultiColorReplaceOptions returns an empty table with tolerance
// 0.05.
func DefaultMultiColorReplaceOptions() MultiColorReplaceOptions {
	return MultiColorReplaceOptions{Tolerance: 0.05}
}

// fromPositional maps (replacements, tolerance, maxColors). Replacements
// may be []Replacement or pairs of any color shape.
func (o *MultiColorReplaceOptions) fromPositional(a Positional) {
	if v, ok := a.Value(0); ok {
		switch r := v.(type) {
		case []Replacement:
			o.Replacements = r
		case [][2]any:
			o.Replacements = make([]Replacement, len(r))
			for i, pair := range r {
				o.Replacements[i] = Replacement{Original: ColorOf(pair[0]), Target: ColorOf(pair[1])}
			}
		case [][2]uint32:
			o.Replacements = make([]Replacement, len(r))
			for i, pair := range r {
				o.Replacements[i] = Replacement{Original: Hex(pair[0]), Target: Hex(pair[1])}
			}
		}
	}
	if v, ok := a.Float(1); ok {
		o.Tolerance = v
	}
	if v, ok := a.Int(2); ok {
		o.MaxColors = v
	}
}

//go:embed shaders/multi_color_replace.wgsl
var multiColorReplaceSource string

func multiColorReplaceProgram(n int) *Program {
	return variant(fmt.Sprintf("multi-color-replace:%d", n), func() *Program {
		layout := NewUniformLayout("MultiColorReplaceUniforms",
			V4Array("uOriginalColors", n),
			V4Array("uTargetColors", n),
			F32("uTolerance"),
		)
		src := strings.Replace(multiColorReplaceSource, "{{MAX_COLORS}}", fmt.Sprint(n), 1)
		return NewProgram(fmt.Sprintf("multi-color-replace-%d", n), src, layout)
	})
}

// MultiColorReplaceFilter swaps several colors at once.
type MultiColorReplaceFilter struct {
	Base

	replacements []Replacement
	maxColors    int
}

// NewMultiColorReplaceFilter creates a multi color replace filter.
func NewMultiColorReplaceFilter(opts ...Option[MultiColorReplaceOptions]) *MultiColorReplaceFilter {
	o := Resolve(DefaultMultiColorReplaceOptions(), opts...)
	n := o.MaxColors
	if n <= 0 {
		n = len(o.Replacements)
	}
	n = max(n, 1)
	f := &MultiColorReplaceFilter{Base: newBase(multiColorReplaceProgram(n)), maxColors: n}
	f.Tolerance().Set(o.Tolerance)
	f.SetReplacements(o.Replacements)
	f.raster = f.rasterize
	return f
}

// Replacements returns the active table.
func (f *MultiColorReplaceFilter) Replacements() []Replacement { return f.replacements }

// SetReplacements writes the table. Entries beyond MaxColors are dropped;
// unused slots never match.
func (f *MultiColorReplaceFilter) SetReplacements(r []Replacement) {
	if len(r) > f.maxColors {
		Logger().Warn("multi color replace: table truncated", "given", len(r), "max", f.maxColors)
		r = r[:f.maxColors]
	}
	f.replacements = append([]Replacement(nil), r...)
	orig := f.uniforms.Vec4Array("uOriginalColors")
	target := f.uniforms.Vec4Array("uTargetColors")
	for i := 0; i < f.maxColors; i++ {
		if i < len(r) {
			orig.At(i).Set(r[i].Original.R, r[i].Original.G, r[i].Original.B, 1)
			target.At(i).Set(r[i].Target.R, r[i].Target.G, r[i].Target.B, 1)
		} else {
			// Out of reach of any normalized color.
			orig.At(i).Set(-10, -10, -10, 0)
			target.At(i).Set(0, 0, 0, 0)
		}
	}
}

// MaxColors returns the table capacity.
func (f *MultiColorReplaceFilter) MaxColors() int { return f.maxColors }

// Tolerance is the RGB distance under which pixels are replaced.
func (f *MultiColorReplaceFilter) Tolerance() Scalar { return f.uniforms.Scalar("uTolerance") }

func (f *MultiColorReplaceFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	tol := f.Tolerance().Get()
	table := f.replacements
	filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
		for _, rep := range table {
			if out, ok := replaceRGB([3]float32{r, g, b}, rep.Original, rep.Target, tol); ok {
				return out[0], out[1], out[2], a
			}
		}
		return r, g, b, a
	})
}
