package filters

import (
	"reflect"
	"strings"
)

// Option adjusts a filter's options record during construction.
//
// Every filter constructor takes options of its own record type:
//
//	f := filters.NewRadialBlurFilter(func(o *filters.RadialBlurOptions) {
//	    o.Angle = 0
//	})
//
// Options run in order over the documented defaults, so a field a caller
// sets always wins, zero values included.
type Option[T any] func(*T)

// Resolve returns defaults with opts applied in order.
func Resolve[T any](defaults T, opts ...Option[T]) T {
	o := defaults
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Using returns an option that replaces the whole record, for callers that
// already hold a complete one (for example, one decoded from a preset).
func Using[T any](full T) Option[T] {
	return func(o *T) { *o = full }
}

// positional is implemented by options records of filters that still
// accept the deprecated positional constructor arguments.
type positional interface {
	fromPositional(args Positional)
}

// Legacy returns an option that maps deprecated positional constructor
// arguments onto the record. Only records with a positional mapping accept
// it, so the legacy form is chosen explicitly at compile time:
//
//	f := filters.NewConvolutionFilter(
//	    filters.Legacy[filters.ConvolutionOptions](matrix, 100, 50))
//
// A deprecation notice is logged once per filter type. Positional values
// that are nil or absent keep their defaults.
func Legacy[T any, P interface {
	*T
	positional
}](values ...any) Option[T] {
	return func(o *T) {
		name := strings.TrimSuffix(reflect.TypeFor[T]().Name(), "Options") + "Filter"
		deprecate(name, name+" positional constructor arguments are deprecated, use options instead")
		P(o).fromPositional(Positional(values))
	}
}

// Positional is the argument list of a deprecated constructor call. Each
// accessor checks the runtime kind of one argument explicitly and reports
// whether it was present and of the expected kind.
type Positional []any

func (a Positional) at(i int) (any, bool) {
	if i < 0 || i >= len(a) || a[i] == nil {
		return nil, false
	}
	return a[i], true
}

// Float returns argument i as a number.
func (a Positional) Float(i int) (float32, bool) {
	v, ok := a.at(i)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Int returns argument i as an integer.
func (a Positional) Int(i int) (int, bool) {
	f, ok := a.Float(i)
	return int(f), ok
}

// Bool returns argument i as a boolean.
func (a Positional) Bool(i int) (bool, bool) {
	v, ok := a.at(i)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Point returns argument i converted with PointOf.
func (a Positional) Point(i int) (Point, bool) {
	v, ok := a.at(i)
	if !ok {
		return Point{}, false
	}
	return PointOf(v), true
}

// Color returns argument i converted with ColorOf.
func (a Positional) Color(i int) (Color, bool) {
	v, ok := a.at(i)
	if !ok {
		return Color{}, false
	}
	return ColorOf(v), true
}

// Texture returns argument i as a texture.
func (a Positional) Texture(i int) (Texture, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	t, ok := v.(Texture)
	if !ok || isNilTexture(t) {
		return nil, false
	}
	return t, true
}

// Floats returns argument i as a float slice.
func (a Positional) Floats(i int) ([]float32, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case []float32:
		return s, true
	case [9]float32:
		return s[:], true
	case []float64:
		out := make([]float32, len(s))
		for j, x := range s {
			out[j] = float32(x)
		}
		return out, true
	}
	return nil, false
}

// Value returns argument i unconverted.
func (a Positional) Value(i int) (any, bool) {
	return a.at(i)
}
