package filters

import (
	_ "embed"
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// GlowOptions configures GlowFilter. Distance and Quality are compiled into
// the program and fixed at construction.
type GlowOptions struct {
	Distance      float32 `toml:"distance" yaml:"distance"`
	OuterStrength float32 `toml:"outer_strength" yaml:"outer_strength"`
	InnerStrength float32 `toml:"inner_strength" yaml:"inner_strength"`
	Color         Color   `toml:"color" yaml:"color"`
	Alpha         float32 `toml:"alpha" yaml:"alpha"`
	Quality       float32 `toml:"quality" yaml:"quality"`
	Knockout      bool    `toml:"knockout" yaml:"knockout"`
}

// DefaultGlowOptions returns a white outer glow.
func DefaultGlowOptions() GlowOptions {
	return GlowOptions{
		Distance:      10,
		OuterStrength: 4,
		Color:         Hex(0xffffff),
		Alpha:         1,
		Quality:       0.1,
	}
}

//go:embed shaders/glow.wgsl
var glowSource string

var glowLayout = NewUniformLayout("GlowUniforms",
	V2("uStrength"),
	V3("uColor"),
	F32("uAlpha"),
	F32("uKnockout"),
)

// glowSteps returns the rounded distance and the angle step for quality.
func glowSteps(distance, quality float32) (dist int, step float32) {
	dist = max(int(math32.Round(distance)), 1)
	q := max(quality, 0.001)
	step = min(1/q/float32(dist), 2*math32.Pi)
	return dist, step
}

func glowProgram(dist int, step float32) *Program {
	stepText := fmt.Sprintf("%.7f", step)
	return variant(fmt.Sprintf("glow:%d:%s", dist, stepText), func() *Program {
		src := strings.Replace(glowSource, "{{DIST}}", fmt.Sprintf("%d.0", dist), 1)
		src = strings.Replace(src, "{{ANGLE_STEP_SIZE}}", stepText, 1)
		return NewProgram(fmt.Sprintf("glow-%d", dist), src, glowLayout)
	})
}

// GlowFilter draws an inner and outer glow around opaque regions.
type GlowFilter struct {
	Base

	distance int
	step     float32
	color    Color
}

// NewGlowFilter creates a glow filter.
func NewGlowFilter(opts ...Option[GlowOptions]) *GlowFilter {
	o := Resolve(DefaultGlowOptions(), opts...)
	dist, step := glowSteps(o.Distance, o.Quality)
	f := &GlowFilter{Base: newBase(glowProgram(dist, step)), distance: dist, step: step}
	f.padding = float32(dist)
	f.OuterStrength().Set(o.OuterStrength)
	f.InnerStrength().Set(o.InnerStrength)
	f.SetColor(o.Color)
	f.Alpha().Set(o.Alpha)
	f.SetKnockout(o.Knockout)
	f.raster = f.rasterize
	return f
}

// Distance returns the glow reach in pixels.
func (f *GlowFilter) Distance() int { return f.distance }

// OuterStrength is the strength of the glow outside opaque regions.
func (f *GlowFilter) OuterStrength() Scalar { return lane(f.uniforms.Vec2("uStrength").Slice(), 0) }

// InnerStrength is the strength of the glow inside opaque regions.
func (f *GlowFilter) InnerStrength() Scalar { return lane(f.uniforms.Vec2("uStrength").Slice(), 1) }

// Color returns the glow color.
func (f *GlowFilter) Color() Color { return f.color }

// SetColor sets the glow color.
func (f *GlowFilter) SetColor(c Color) {
	f.color = c
	f.uniforms.Vec3("uColor").SetRGB(c)
}

// Alpha is the glow opacity.
func (f *GlowFilter) Alpha() Scalar { return f.uniforms.Scalar("uAlpha") }

// Knockout reports whether only the glow is drawn.
func (f *GlowFilter) Knockout() bool { return f.uniforms.Scalar("uKnockout").Bool() }

// SetKnockout toggles knockout.
func (f *GlowFilter) SetKnockout(v bool) { f.uniforms.Scalar("uKnockout").SetBool(v) }

func (f *GlowFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	w, h := s.Size()
	dist := float32(f.distance)
	var dirs [][2]float32
	for angle := float32(0); angle < 2*math32.Pi; angle += f.step {
		sn, cs := math32.Sincos(angle)
		dirs = append(dirs, [2]float32{cs, sn})
	}
	maxTotal := float32(len(dirs)) * dist * (dist + 1) / 2
	outer, inner := f.OuterStrength().Get(), f.InnerStrength().Get()
	c, alpha, knockout := f.color, f.Alpha().Get(), f.Knockout()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		var total float32
		for _, d := range dirs {
			for i := float32(0); i < dist; i++ {
				px := max(0.5, min(w-0.5, x+d[0]*(i+1)))
				py := max(0.5, min(h-0.5, y+d[1]*(i+1)))
				_, _, _, a := s.At(px, py)
				total += (dist - i) * a
			}
		}
		r, g, b, a := s.At(x, y)
		ratio := total / maxTotal
		innerA := (1 - ratio) * inner * a * alpha
		k := min(1, innerA)
		ir, ig, ib, ia := mix(r, c.R, k), mix(g, c.G, k), mix(b, c.B, k), mix(a, alpha, k)
		outerA := ratio * outer * (1 - a) * alpha
		if knockout {
			ra := outerA + innerA
			return c.R * ra, c.G * ra, c.B * ra, ra
		}
		os := min(1-ia, outerA)
		return ir + c.R*os, ig + c.G*os, ib + c.B*os, ia + os
	})
}
