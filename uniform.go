package filters

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// UniformType is the WGSL type of one uniform slot.
type UniformType uint8

// Uniform slot types.
const (
	UniformF32 UniformType = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat3
	UniformVec4Array
)

// String returns the WGSL spelling of the type (arrays without length).
func (t UniformType) String() string {
	switch t {
	case UniformF32:
		return "f32"
	case UniformVec2:
		return "vec2<f32>"
	case UniformVec3:
		return "vec3<f32>"
	case UniformVec4:
		return "vec4<f32>"
	case UniformMat3:
		return "mat3x3<f32>"
	case UniformVec4Array:
		return "array<vec4<f32>>"
	default:
		return "unknown"
	}
}

// alignSize returns alignment and size in float32 slots following the WGSL
// uniform address space rules.
func (t UniformType) alignSize(count int) (align, size int) {
	switch t {
	case UniformF32:
		return 1, 1
	case UniformVec2:
		return 2, 2
	case UniformVec3:
		return 4, 3
	case UniformVec4:
		return 4, 4
	case UniformMat3:
		return 4, 12
	case UniformVec4Array:
		return 4, 4 * count
	default:
		return 1, 1
	}
}

// Uniform declares one named slot of a uniform layout.
type Uniform struct {
	Name  string
	Type  UniformType
	Count int // element count, UniformVec4Array only
}

// F32 declares a scalar slot.
func F32(name string) Uniform { return Uniform{Name: name, Type: UniformF32} }

// V2 declares a vec2 slot.
func V2(name string) Uniform { return Uniform{Name: name, Type: UniformVec2} }

// V3 declares a vec3 slot.
func V3(name string) Uniform { return Uniform{Name: name, Type: UniformVec3} }

// V4 declares a vec4 slot.
func V4(name string) Uniform { return Uniform{Name: name, Type: UniformVec4} }

// M3 declares a mat3x3 slot.
func M3(name string) Uniform { return Uniform{Name: name, Type: UniformMat3} }

// V4Array declares an array<vec4<f32>, n> slot.
func V4Array(name string, n int) Uniform {
	return Uniform{Name: name, Type: UniformVec4Array, Count: n}
}

// UniformLayout is the immutable shape of a uniform group: field order,
// offsets and total size. One layout is shared by every instance of a
// filter type and by both shader backends.
type UniformLayout struct {
	name    string
	fields  []Uniform
	offsets []int
	size    int
	index   map[string]int
}

// NewUniformLayout computes WGSL offsets for fields. structName becomes the
// WGSL struct type name. Duplicate field names panic: layouts are declared
// once at package level.
func NewUniformLayout(structName string, fields ...Uniform) *UniformLayout {
	l := &UniformLayout{
		name:    structName,
		fields:  fields,
		offsets: make([]int, len(fields)),
		index:   make(map[string]int, len(fields)),
	}
	cursor := 0
	for i, f := range fields {
		if _, dup := l.index[f.Name]; dup {
			panic(fmt.Sprintf("filters: duplicate uniform %q in %s", f.Name, structName))
		}
		align, size := f.Type.alignSize(f.Count)
		cursor = alignUp(cursor, align)
		l.offsets[i] = cursor
		l.index[f.Name] = i
		cursor += size
	}
	l.size = alignUp(cursor, 4)
	if l.size == 0 {
		l.size = 4
	}
	return l
}

func alignUp(v, align int) int {
	return (v + align - 1) / align * align
}

// Name returns the WGSL struct type name.
func (l *UniformLayout) Name() string { return l.name }

// Fields returns the declared fields in order.
func (l *UniformLayout) Fields() []Uniform { return l.fields }

// Size returns the buffer size in bytes, a multiple of 16.
func (l *UniformLayout) Size() int { return l.size * 4 }

// Offset returns the byte offset of a field.
func (l *UniformLayout) Offset(name string) (int, bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, false
	}
	return l.offsets[i] * 4, true
}

// WGSL renders the struct declaration consumed by shader sources.
func (l *UniformLayout) WGSL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", l.name)
	for _, f := range l.fields {
		typ := f.Type.String()
		if f.Type == UniformVec4Array {
			typ = fmt.Sprintf("array<vec4<f32>, %d>", f.Count)
		}
		fmt.Fprintf(&sb, "  %s: %s,\n", f.Name, typ)
	}
	sb.WriteString("};\n")
	return sb.String()
}

// New allocates a zeroed uniform group with this layout.
func (l *UniformLayout) New() *UniformGroup {
	return &UniformGroup{layout: l, data: make([]float32, l.size)}
}

// UniformGroup owns the float32 buffer a filter's shader reads. Views
// returned by the accessors alias this buffer: writing through a view is
// writing the uniform, with no separate commit step.
type UniformGroup struct {
	layout *UniformLayout
	data   []float32
}

// Layout returns the group's layout.
func (g *UniformGroup) Layout() *UniformLayout { return g.layout }

// Data returns the live backing buffer.
func (g *UniformGroup) Data() []float32 { return g.data }

// Bytes serializes the buffer little-endian for upload.
func (g *UniformGroup) Bytes() []byte {
	out := make([]byte, len(g.data)*4)
	for i, v := range g.data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// CopyFrom copies every field present in both groups from src.
func (g *UniformGroup) CopyFrom(src *UniformGroup) {
	for i, f := range g.layout.fields {
		j, ok := src.layout.index[f.Name]
		if !ok || src.layout.fields[j].Type != f.Type {
			continue
		}
		_, size := f.Type.alignSize(min(f.Count, src.layout.fields[j].Count))
		dst := g.data[g.layout.offsets[i]:]
		copy(dst[:size], src.data[src.layout.offsets[j]:])
	}
}

// slot returns the buffer window for a field, panicking on unknown names
// or type mismatches since both are programming errors in a filter.
func (g *UniformGroup) slot(name string, want UniformType) ([]float32, Uniform) {
	i, ok := g.layout.index[name]
	if !ok {
		panic(fmt.Sprintf("filters: %s has no uniform %q", g.layout.name, name))
	}
	f := g.layout.fields[i]
	if f.Type != want {
		panic(fmt.Sprintf("filters: uniform %s.%s is %s, not %s", g.layout.name, name, f.Type, want))
	}
	_, size := f.Type.alignSize(f.Count)
	off := g.layout.offsets[i]
	return g.data[off : off+size : off+size], f
}

// Scalar returns a view of an f32 field.
func (g *UniformGroup) Scalar(name string) Scalar {
	s, _ := g.slot(name, UniformF32)
	return Scalar{s: s}
}

// Vec2 returns a view of a vec2 field.
func (g *UniformGroup) Vec2(name string) Vec2 {
	s, _ := g.slot(name, UniformVec2)
	return Vec2{s: s}
}

// Vec3 returns a view of a vec3 field.
func (g *UniformGroup) Vec3(name string) Vec3 {
	s, _ := g.slot(name, UniformVec3)
	return Vec3{s: s}
}

// Vec4 returns a view of a vec4 field.
func (g *UniformGroup) Vec4(name string) Vec4 {
	s, _ := g.slot(name, UniformVec4)
	return Vec4{s: s}
}

// Mat3 returns a view of a mat3x3 field.
func (g *UniformGroup) Mat3(name string) Mat3 {
	s, _ := g.slot(name, UniformMat3)
	return Mat3{s: s}
}

// Vec4Array returns a view of an array<vec4> field.
func (g *UniformGroup) Vec4Array(name string) Vec4Array {
	s, f := g.slot(name, UniformVec4Array)
	return Vec4Array{s: s, n: f.Count}
}
