package filters

// Point is a 2D value with named axes, used by vector properties.
type Point struct {
	X float32 `toml:"x" yaml:"x"`
	Y float32 `toml:"y" yaml:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Broadcast returns a point with v on both axes.
func Broadcast(v float32) Point {
	return Point{X: v, Y: v}
}

// PointOf converts any supported point shape into a Point: Point, Vec2
// views, 2 element arrays or slices, and single numbers (broadcast to both
// axes). Other inputs yield the zero Point.
func PointOf(v any) Point {
	switch p := v.(type) {
	case Point:
		return p
	case *Point:
		if p != nil {
			return *p
		}
	case Vec2:
		return p.Point()
	case [2]float32:
		return Point{X: p[0], Y: p[1]}
	case []float32:
		if len(p) >= 2 {
			return Point{X: p[0], Y: p[1]}
		}
		if len(p) == 1 {
			return Broadcast(p[0])
		}
	case []float64:
		if len(p) >= 2 {
			return Point{X: float32(p[0]), Y: float32(p[1])}
		}
		if len(p) == 1 {
			return Broadcast(float32(p[0]))
		}
	case []int:
		if len(p) >= 2 {
			return Point{X: float32(p[0]), Y: float32(p[1])}
		}
	default:
		if f, ok := toFloat(v); ok {
			return Broadcast(f)
		}
	}
	return Point{}
}

// IsZero reports whether both axes are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Array returns the point as a 2 element array.
func (p Point) Array() [2]float32 {
	return [2]float32{p.X, p.Y}
}

// toFloat converts numeric scalars to float32.
func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint32:
		return float32(n), true
	case uint:
		return float32(n), true
	}
	return 0, false
}
