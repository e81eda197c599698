package filters

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is the canonical color value held by color properties.
// Components are straight (not premultiplied) and in the range [0, 1].
type Color struct {
	R, G, B, A float32
}

// Hex creates an opaque color from a packed 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
		A: 1,
	}
}

// RGB creates an opaque color from float components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from float components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromChannels creates a color from a 3 or 4 element channel slice.
// A 3 element slice yields alpha 1.
func FromChannels(ch []float32) Color {
	switch {
	case len(ch) >= 4:
		return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	case len(ch) == 3:
		return Color{R: ch[0], G: ch[1], B: ch[2], A: 1}
	default:
		return Color{}
	}
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" and "0xrrggbb" strings.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s = "#" + rest
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := float32(1)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: alpha}, nil
}

// ColorOf converts any supported color shape into a Color: Color, packed
// integers, 3/4 element float arrays or slices, hex strings, and
// color.Color. Other inputs yield the zero Color.
func ColorOf(v any) Color {
	switch c := v.(type) {
	case Color:
		return c
	case *Color:
		if c != nil {
			return *c
		}
	case uint32:
		return Hex(c)
	case int:
		return Hex(uint32(c)) //nolint:gosec // packed 24-bit color
	case int64:
		return Hex(uint32(c)) //nolint:gosec // packed 24-bit color
	case uint:
		return Hex(uint32(c)) //nolint:gosec // packed 24-bit color
	case float64:
		return Hex(uint32(c))
	case [3]float32:
		return FromChannels(c[:])
	case [4]float32:
		return FromChannels(c[:])
	case []float32:
		return FromChannels(c)
	case []float64:
		ch := make([]float32, len(c))
		for i, x := range c {
			ch[i] = float32(x)
		}
		return FromChannels(ch)
	case string:
		parsed, err := ParseColor(c)
		if err == nil {
			return parsed
		}
	case color.Color:
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		return Color{
			R: float32(nc.R) / 255,
			G: float32(nc.G) / 255,
			B: float32(nc.B) / 255,
			A: float32(nc.A) / 255,
		}
	}
	return Color{}
}

// ToInt packs the RGB channels into 0xRRGGBB.
func (c Color) ToInt() uint32 {
	return uint32(to255(c.R))<<16 | uint32(to255(c.G))<<8 | uint32(to255(c.B))
}

// ToArray returns the RGBA channels.
func (c Color) ToArray() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// ToRGBArray returns the RGB channels.
func (c Color) ToRGBArray() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Premultiply returns the color with RGB scaled by alpha.
func (c Color) Premultiply() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// NRGBA converts to the standard library straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to255(c.R), G: to255(c.G), B: to255(c.B), A: to255(c.A)}
}

// Colorful converts the RGB channels to a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// String formats the color as #rrggbb, with an alpha suffix when not opaque.
func (c Color) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%06x", c.ToInt())
	}
	return fmt.Sprintf("#%06x%02x", c.ToInt(), to255(c.A))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so presets can spell
// colors as hex strings.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func to255(v float32) uint8 {
	return uint8(math32.Round(clamp01(v) * 255))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
