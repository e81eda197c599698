package filters

import (
	_ "embed"
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// GradientType selects the gradient geometry.
type GradientType int

const (
	GradientLinear GradientType = iota
	GradientRadial
	GradientConic
)

// String returns the gradient type name.
func (t GradientType) String() string {
	switch t {
	case GradientLinear:
		return "linear"
	case GradientRadial:
		return "radial"
	case GradientConic:
		return "conic"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t GradientType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *GradientType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "linear":
		*t = GradientLinear
	case "radial":
		*t = GradientRadial
	case "conic":
		*t = GradientConic
	default:
		return fmt.Errorf("filters: unknown gradient type %q", text)
	}
	return nil
}

// ColorStop is one gradient stop.
type ColorStop struct {
	// Offset in [0, 1] along the gradient.
	Offset float32 `toml:"offset" yaml:"offset"`
	Color  Color   `toml:"color" yaml:"color"`
	Alpha  float32 `toml:"alpha" yaml:"alpha"`
}

// ColorGradientOptions configures ColorGradientFilter.
type ColorGradientOptions struct {
	Type  GradientType `toml:"type" yaml:"type"`
	Stops []ColorStop  `toml:"stops" yaml:"stops"`
	// Angle in degrees. 90 runs left to right.
	Angle float32 `toml:"angle" yaml:"angle"`
	Alpha float32 `toml:"alpha" yaml:"alpha"`
	// MaxColors posterizes the gradient into that many bands. Zero is
	// continuous.
	MaxColors int `toml:"max_colors" yaml:"max_colors"`
	// Replace draws the gradient in place of the input instead of over it.
	Replace bool `toml:"replace" yaml:"replace"`
}

// DefaultColorGradientOptions returns a linear red to blue gradient.
func DefaultColorGradientOptions() ColorGradientOptions {
	return ColorGradientOptions{
		Type: GradientLinear,
		Stops: []ColorStop{
			{Offset: 0, Color: Hex(0xff0000), Alpha: 1},
			{Offset: 1, Color: Hex(0x0000ff), Alpha: 1},
		},
		Angle: 90,
		Alpha: 1,
	}
}

// maxGradientStops bounds the stop table of the program.
const maxGradientStops = 16

//go:embed shaders/color_gradient.wgsl
var colorGradientSource string

var (
	colorGradientLayout = NewUniformLayout("ColorGradientUniforms",
		V4("uOptions"),
		V2("uCounts"),
		V4Array("uStops", maxGradientStops*2),
	)
	colorGradientProgram = NewProgram("color-gradient",
		strings.Replace(colorGradientSource, "{{MAX_STOPS}}", fmt.Sprint(maxGradientStops), 1),
		colorGradientLayout)
)

// ColorGradientFilter draws a linear, radial or conic gradient through the
// input's alpha.
type ColorGradientFilter struct {
	Base

	stops []ColorStop
}

// NewColorGradientFilter creates a gradient filter.
func NewColorGradientFilter(opts ...Option[ColorGradientOptions]) *ColorGradientFilter {
	o := Resolve(DefaultColorGradientOptions(), opts...)
	f := &ColorGradientFilter{Base: newBase(colorGradientProgram)}
	f.SetType(o.Type)
	f.Angle().Set(o.Angle)
	f.Alpha().Set(o.Alpha)
	f.SetMaxColors(o.MaxColors)
	f.SetReplace(o.Replace)
	f.SetStops(o.Stops)
	f.raster = f.rasterize
	return f
}

func (f *ColorGradientFilter) options() Vec4 { return f.uniforms.Vec4("uOptions") }

// Type returns the gradient geometry.
func (f *ColorGradientFilter) Type() GradientType { return GradientType(f.options().At(0)) }

// SetType sets the gradient geometry.
func (f *ColorGradientFilter) SetType(t GradientType) { f.options().SetAt(0, float32(t)) }

// Angle is the gradient angle in degrees.
func (f *ColorGradientFilter) Angle() Scalar { return lane(f.options().Slice(), 1) }

// Alpha scales the gradient opacity.
func (f *ColorGradientFilter) Alpha() Scalar { return lane(f.options().Slice(), 2) }

// Replace reports whether the gradient replaces the input colors.
func (f *ColorGradientFilter) Replace() bool { return f.options().At(3) != 0 }

// SetReplace toggles replace mode.
func (f *ColorGradientFilter) SetReplace(v bool) { lane(f.options().Slice(), 3).SetBool(v) }

// MaxColors returns the band count, zero for continuous.
func (f *ColorGradientFilter) MaxColors() int { return int(f.uniforms.Vec2("uCounts").Y()) }

// SetMaxColors sets the band count.
func (f *ColorGradientFilter) SetMaxColors(n int) {
	f.uniforms.Vec2("uCounts").SetY(float32(max(n, 0)))
}

// Stops returns the sorted stop table.
func (f *ColorGradientFilter) Stops() []ColorStop { return f.stops }

// SetStops sorts stops by offset and writes them. Stops beyond the table
// capacity are dropped.
func (f *ColorGradientFilter) SetStops(stops []ColorStop) {
	s := slices.Clone(stops)
	slices.SortStableFunc(s, func(a, b ColorStop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	if len(s) > maxGradientStops {
		Logger().Warn("color gradient: stops truncated", "given", len(s), "max", maxGradientStops)
		s = s[:maxGradientStops]
	}
	f.stops = s
	f.uniforms.Vec2("uCounts").SetX(float32(len(s)))
	table := f.uniforms.Vec4Array("uStops")
	for i := 0; i < maxGradientStops; i++ {
		if i < len(s) {
			c := s[i].Color
			table.At(i*2).Set(c.R, c.G, c.B, s[i].Alpha)
			table.At(i*2+1).Set(s[i].Offset, 0, 0, 0)
		} else {
			table.At(i*2).Set(0, 0, 0, 0)
			table.At(i*2+1).Set(0, 0, 0, 0)
		}
	}
}

// at evaluates the gradient at t, returning straight color and alpha.
func (f *ColorGradientFilter) at(t float32) (r, g, b, a float32) {
	stops := f.stops
	if len(stops) == 0 {
		return 0, 0, 0, 0
	}
	c := stops[0]
	r, g, b, a = c.Color.R, c.Color.G, c.Color.B, c.Alpha
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t <= s0.Offset {
			break
		}
		if t < s1.Offset {
			k := (t - s0.Offset) / max(s1.Offset-s0.Offset, 1e-5)
			return mix(s0.Color.R, s1.Color.R, k), mix(s0.Color.G, s1.Color.G, k),
				mix(s0.Color.B, s1.Color.B, k), mix(s0.Alpha, s1.Alpha, k)
		}
		r, g, b, a = s1.Color.R, s1.Color.G, s1.Color.B, s1.Alpha
	}
	return r, g, b, a
}

func (f *ColorGradientFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	typ := f.Type()
	angle := f.Angle().Get() * math32.Pi / 180
	alpha := f.Alpha().Get()
	bands := float32(f.MaxColors())
	replace := f.Replace()
	sin, cos := math32.Sincos(angle)
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		ir, ig, ib, ia := s.At(x, y)
		px, py := x/w-0.5, y/h-0.5
		var t float32
		switch typ {
		case GradientRadial:
			t = min(math32.Hypot(px, py)*2, 1)
		case GradientConic:
			v := (math32.Atan2(py, px)-angle+math32.Pi/2)/(2*math32.Pi) + 1
			t = v - math32.Floor(v)
		default:
			t = max(0, min(1, (px*sin-py*cos)/(math32.Abs(sin)+math32.Abs(cos))+0.5))
		}
		if bands > 1 {
			t = min(math32.Floor(t*bands)/(bands-1), 1)
		}
		r, g, b, a := f.at(t)
		a *= alpha
		r, g, b = r*a*ia, g*a*ia, b*a*ia
		if replace {
			return r, g, b, a * ia
		}
		k := 1 - a
		return r + ir*k, g + ig*k, b + ib*k, a*ia + ia*k
	})
}
