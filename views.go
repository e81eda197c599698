package filters

// The view types below are windows into a UniformGroup buffer. They are
// returned by filter getters on purpose: mutating a view mutates the filter,
// and the change is visible to the next draw.

// Scalar is a view of an f32 uniform.
type Scalar struct{ s []float32 }

// Get returns the current value.
func (v Scalar) Get() float32 { return v.s[0] }

// Set writes the value.
func (v Scalar) Set(x float32) { v.s[0] = x }

// SetBool writes 1 for true and 0 for false.
func (v Scalar) SetBool(b bool) {
	if b {
		v.s[0] = 1
	} else {
		v.s[0] = 0
	}
}

// Bool reports whether the value is non-zero.
func (v Scalar) Bool() bool { return v.s[0] != 0 }

// Vec2 is a view of a vec2 uniform.
type Vec2 struct{ s []float32 }

// X returns the first component.
func (v Vec2) X() float32 { return v.s[0] }

// Y returns the second component.
func (v Vec2) Y() float32 { return v.s[1] }

// SetX writes the first component.
func (v Vec2) SetX(x float32) { v.s[0] = x }

// SetY writes the second component.
func (v Vec2) SetY(y float32) { v.s[1] = y }

// Set writes both components from a point.
func (v Vec2) Set(p Point) {
	v.s[0] = p.X
	v.s[1] = p.Y
}

// Point copies the components into a Point.
func (v Vec2) Point() Point { return Point{X: v.s[0], Y: v.s[1]} }

// Slice returns the live two element window.
func (v Vec2) Slice() []float32 { return v.s }

// Vec3 is a view of a vec3 uniform.
type Vec3 struct{ s []float32 }

// At returns component i.
func (v Vec3) At(i int) float32 { return v.s[i] }

// Set writes all components.
func (v Vec3) Set(x, y, z float32) {
	v.s[0], v.s[1], v.s[2] = x, y, z
}

// SetAt writes component i.
func (v Vec3) SetAt(i int, x float32) { v.s[i] = x }

// SetRGB writes the color channels.
func (v Vec3) SetRGB(c Color) { v.Set(c.R, c.G, c.B) }

// Slice returns the live three element window.
func (v Vec3) Slice() []float32 { return v.s }

// Vec4 is a view of a vec4 uniform.
type Vec4 struct{ s []float32 }

// At returns component i.
func (v Vec4) At(i int) float32 { return v.s[i] }

// Set writes all components.
func (v Vec4) Set(x, y, z, w float32) {
	v.s[0], v.s[1], v.s[2], v.s[3] = x, y, z, w
}

// SetAt writes component i.
func (v Vec4) SetAt(i int, x float32) { v.s[i] = x }

// SetRGBA writes the color channels including alpha.
func (v Vec4) SetRGBA(c Color) { v.Set(c.R, c.G, c.B, c.A) }

// Slice returns the live four element window.
func (v Vec4) Slice() []float32 { return v.s }

// Mat3 is a view of a mat3x3 uniform. Elements are addressed in the same
// order as a flat 9 element matrix; each column occupies 4 slots in the
// buffer.
type Mat3 struct{ s []float32 }

// At returns element i of the flat 3x3 matrix.
func (m Mat3) At(i int) float32 { return m.s[(i/3)*4+i%3] }

// SetAt writes element i of the flat 3x3 matrix.
func (m Mat3) SetAt(i int, x float32) { m.s[(i/3)*4+i%3] = x }

// Set writes all nine elements.
func (m Mat3) Set(vals [9]float32) {
	for i, x := range vals {
		m.SetAt(i, x)
	}
}

// Values copies the nine elements out.
func (m Mat3) Values() [9]float32 {
	var out [9]float32
	for i := range out {
		out[i] = m.At(i)
	}
	return out
}

// Vec4Array is a view of an array<vec4<f32>, N> uniform.
type Vec4Array struct {
	s []float32
	n int
}

// Len returns the array length.
func (a Vec4Array) Len() int { return a.n }

// At returns a view of element i.
func (a Vec4Array) At(i int) Vec4 { return Vec4{s: a.s[i*4 : i*4+4 : i*4+4]} }

// lane returns a Scalar view of component i of a vector view's slice.
func lane(v []float32, i int) Scalar { return Scalar{s: v[i : i+1 : i+1]} }
