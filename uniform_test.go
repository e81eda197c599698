package filters

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformLayout_Offsets(t *testing.T) {
	l := NewUniformLayout("Test",
		F32("a"),
		V2("b"),
		F32("c"),
		V3("d"),
		F32("e"),
		M3("m"),
		V4Array("arr", 2),
		V2("tail"),
	)
	tests := []struct {
		name string
		want int
	}{
		{"a", 0},
		{"b", 8},
		{"c", 16},
		{"d", 32},
		{"e", 44},
		{"m", 48},
		{"arr", 96},
		{"tail", 128},
	}
	for _, tt := range tests {
		off, ok := l.Offset(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, off, tt.name)
	}
	assert.Equal(t, 144, l.Size())
	assert.Zero(t, l.Size()%16)

	_, ok := l.Offset("missing")
	assert.False(t, ok)
}

func TestUniformLayout_Empty(t *testing.T) {
	assert.Equal(t, 16, NewUniformLayout("Empty").Size())
}

func TestUniformLayout_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { NewUniformLayout("Dup", F32("x"), V2("x")) })
}

func TestUniformLayout_WGSL(t *testing.T) {
	l := NewUniformLayout("Sample", F32("uAlpha"), V4Array("uStops", 3))
	assert.Equal(t, "struct Sample {\n  uAlpha: f32,\n  uStops: array<vec4<f32>, 3>,\n};\n", l.WGSL())
}

func TestUniformGroup_Views(t *testing.T) {
	l := NewUniformLayout("Views", F32("s"), V2("v"), M3("m"), V4Array("arr", 2))
	g := l.New()

	g.Scalar("s").Set(1.5)
	g.Vec2("v").Set(Pt(2, 3))
	g.Mat3("m").Set([9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9})
	g.Vec4Array("arr").At(1).Set(9, 8, 7, 6)

	data := g.Data()
	assert.Equal(t, float32(1.5), data[0])
	assert.Equal(t, []float32{2, 3}, data[2:4])
	// mat3x3 columns are padded to vec4.
	assert.Equal(t, []float32{1, 2, 3, 0, 4, 5, 6, 0, 7, 8, 9, 0}, data[4:16])
	assert.Equal(t, []float32{9, 8, 7, 6}, data[20:24])
	assert.Equal(t, [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, g.Mat3("m").Values())
	assert.Equal(t, 2, g.Vec4Array("arr").Len())

	b := g.Bytes()
	require.Len(t, b, l.Size())
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(b[12:]))

	assert.Panics(t, func() { g.Scalar("v") }, "type mismatch")
	assert.Panics(t, func() { g.Scalar("nope") }, "unknown name")
}

func TestUniformGroup_CopyFrom(t *testing.T) {
	a := NewUniformLayout("A", F32("x"), V2("y"), F32("only")).New()
	b := NewUniformLayout("B", V2("y"), F32("x")).New()
	b.Scalar("x").Set(4)
	b.Vec2("y").Set(Pt(5, 6))

	a.CopyFrom(b)
	assert.Equal(t, float32(4), a.Scalar("x").Get())
	assert.Equal(t, Pt(5, 6), a.Vec2("y").Point())
	assert.Zero(t, a.Scalar("only").Get())
}
