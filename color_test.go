package filters

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex_RoundTrip(t *testing.T) {
	for _, v := range []uint32{0x000000, 0xffffff, 0xff8800, 0x123456, 0x00ff7f} {
		assert.Equal(t, v, Hex(v).ToInt(), "%06x", v)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		a    float32
	}{
		{"#ff8800", 0xff8800, 1},
		{"ff8800", 0xff8800, 1},
		{"0xFF8800", 0xff8800, 1},
		{"#f80", 0xff8800, 1},
		{"#ff880080", 0xff8800, float32(0x80) / 255},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.ToInt())
			assert.InDelta(t, tt.a, c.A, 1e-6)
		})
	}

	_, err := ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestColorOf(t *testing.T) {
	want := Hex(0xff0000)
	tests := []struct {
		name string
		in   any
	}{
		{"color", want},
		{"pointer", &want},
		{"packed int", 0xff0000},
		{"packed uint32", uint32(0xff0000)},
		{"rgb array", [3]float32{1, 0, 0}},
		{"rgba array", [4]float32{1, 0, 0, 1}},
		{"slice", []float32{1, 0, 0}},
		{"float64 slice", []float64{1, 0, 0, 1}},
		{"hex string", "#ff0000"},
		{"image color", color.RGBA{R: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, ColorOf(tt.in))
		})
	}
	assert.Equal(t, Color{}, ColorOf(struct{}{}), "unsupported shapes are not validated")
}

func TestColorProperty_RoundTrip(t *testing.T) {
	f := NewColorOverlayFilter()
	for _, in := range []any{0x336699, [3]float32{0.2, 0.4, 0.6}, []float32{0.1, 0.2, 0.3, 1}, "#abcdef"} {
		c := ColorOf(in)
		f.SetColor(c)
		assert.Equal(t, c, f.Color())
		rgb := f.Uniforms().Vec3("uColor")
		assert.Equal(t, [3]float32{c.R, c.G, c.B}, [3]float32{rgb.At(0), rgb.At(1), rgb.At(2)})
	}
}

func TestColor_Text(t *testing.T) {
	c := RGBA(1, 0.5, 0, 0.5)
	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#ff8000"+"80", string(text))

	var back Color
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, c.ToInt(), back.ToInt())
	assert.InDelta(t, c.A, back.A, 1.0/255)

	assert.Equal(t, "#ffffff", Hex(0xffffff).String())
}

func TestPointOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Point
	}{
		{"point", Pt(1, 2), Pt(1, 2)},
		{"array", [2]float32{1, 2}, Pt(1, 2)},
		{"slice", []float32{1, 2}, Pt(1, 2)},
		{"float64 slice", []float64{1, 2}, Pt(1, 2)},
		{"int slice", []int{1, 2}, Pt(1, 2)},
		{"single", []float32{3}, Broadcast(3)},
		{"number", 4, Broadcast(4)},
		{"unsupported", "x", Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointOf(tt.in))
		})
	}
}

func TestPointProperty_ShapesMatch(t *testing.T) {
	a := NewBulgePinchFilter()
	b := NewBulgePinchFilter()
	a.SetCenter([2]float32{0.25, 0.75})
	b.SetCenter(Point{X: 0.25, Y: 0.75})
	assert.Equal(t, a.Uniforms().Data(), b.Uniforms().Data())

	view := a.Center()
	view.SetX(0.5)
	assert.Equal(t, Pt(0.5, 0.75), a.Center().Point(), "views write through to the filter")
}
