package filters

import (
	"image"
	"reflect"
	"sync"
)

// Texture is any image resource a pass can sample: host surfaces and
// images supplied by the application.
type Texture interface {
	Width() int
	Height() int
}

// Surface is a host render target. Every surface is also a Texture.
type Surface interface {
	Texture
}

// Destroyer is implemented by resources with explicit release.
type Destroyer interface {
	Destroy()
}

// ImageTexture wraps an application image so it can be bound to a pass.
// Hosts upload it on first use and drop their copy when it is destroyed.
type ImageTexture struct {
	img     image.Image
	nearest bool

	mu        sync.Mutex
	version   uint64
	destroyed bool
	onDestroy []func()
}

// NewImageTexture wraps img.
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

// Image returns the wrapped image.
func (t *ImageTexture) Image() image.Image { return t.img }

// Width returns the image width.
func (t *ImageTexture) Width() int { return t.img.Bounds().Dx() }

// Height returns the image height.
func (t *ImageTexture) Height() int { return t.img.Bounds().Dy() }

// Nearest reports whether the texture samples with nearest filtering.
func (t *ImageTexture) Nearest() bool { return t.nearest }

// SetNearest selects nearest (true) or linear (false) filtering.
func (t *ImageTexture) SetNearest(v bool) { t.nearest = v }

// Version increments every time Invalidate is called. Hosts compare it
// with the version they uploaded.
func (t *ImageTexture) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Invalidate marks the pixels as changed so hosts upload them again.
func (t *ImageTexture) Invalidate() {
	t.mu.Lock()
	t.version++
	t.mu.Unlock()
}

// OnDestroy registers fn to run when the texture is destroyed. Hosts use it
// to release uploaded copies.
func (t *ImageTexture) OnDestroy(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		fn()
		return
	}
	t.onDestroy = append(t.onDestroy, fn)
}

// Destroy releases host copies. Safe to call more than once.
func (t *ImageTexture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	fns := t.onDestroy
	t.onDestroy = nil
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Destroyed reports whether Destroy was called.
func (t *ImageTexture) Destroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// TextureBinding pairs an extra program texture name with its resource.
type TextureBinding struct {
	Name    string
	Texture Texture
}

// Pass is one draw: a program, its uniforms, and its extra textures.
type Pass interface {
	Program() *Program
	Uniforms() *UniformGroup
	Textures() []TextureBinding
}

// System is the host contract a filter draws through.
type System interface {
	// ApplyFilter runs pass over input into output. When clear is false the
	// result is composited over output with premultiplied source-over.
	ApplyFilter(pass Pass, input, output Surface, clear bool) error

	// GetSameSizeSurface acquires a pooled surface matching s.
	GetSameSizeSurface(s Surface) (Surface, error)

	// ReturnSurface gives a pooled surface back.
	ReturnSurface(s Surface)
}

// BackdropProvider is implemented by hosts that can expose what was
// rendered behind the filtered node.
type BackdropProvider interface {
	Backdrop(output Surface) (Surface, bool)
}

// Filter is what a host holds in its filter list.
type Filter interface {
	Apply(sys System, input, output Surface, clear bool) error
	Padding() float32
	Enabled() bool
	Destroy()
}

// RasterFunc is the CPU rendition of a pass. src and dst never alias.
// lookup resolves extra textures to images.
type RasterFunc func(dst, src *image.RGBA, lookup func(Texture) *image.RGBA)

// Rasterizer is implemented by passes with a CPU rendition.
type Rasterizer interface {
	Rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) bool
}

// Base carries what every filter shares: program, uniform group, extra
// textures, and lifecycle. Filters embed it.
type Base struct {
	program  *Program
	uniforms *UniformGroup
	textures []TextureBinding
	owned    []Destroyer
	raster   RasterFunc

	padding   float32
	disabled  bool
	destroyed bool
}

func newBase(p *Program) Base {
	b := Base{program: p}
	if l := p.Layout(); l != nil {
		b.uniforms = l.New()
	}
	if n := len(p.Textures()); n > 0 {
		b.textures = make([]TextureBinding, n)
		for i, name := range p.Textures() {
			b.textures[i].Name = name
		}
	}
	return b
}

// Program returns the active program.
func (b *Base) Program() *Program { return b.program }

// Uniforms returns the live uniform group, or nil.
func (b *Base) Uniforms() *UniformGroup { return b.uniforms }

// Textures returns the extra texture bindings.
func (b *Base) Textures() []TextureBinding { return b.textures }

// Rasterize runs the CPU rendition when the filter has one.
func (b *Base) Rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) bool {
	if b.raster == nil {
		return false
	}
	b.raster(dst, src, lookup)
	return true
}

// Apply draws the program from input to output.
func (b *Base) Apply(sys System, input, output Surface, clear bool) error {
	if b.destroyed {
		return ErrDestroyed
	}
	return sys.ApplyFilter(b, input, output, clear)
}

// Padding returns the extra pixels the host should reserve around the
// filtered area.
func (b *Base) Padding() float32 { return b.padding }

// SetPadding sets the padding.
func (b *Base) SetPadding(p float32) { b.padding = p }

// Enabled reports whether hosts should run the filter.
func (b *Base) Enabled() bool { return !b.disabled }

// SetEnabled toggles the filter.
func (b *Base) SetEnabled(v bool) { b.disabled = !v }

// Destroy releases textures the filter created for itself. Textures passed
// in by the caller stay alive.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	for _, d := range b.owned {
		d.Destroy()
	}
	b.owned = nil
	for i := range b.textures {
		b.textures[i].Texture = nil
	}
}

// Destroyed reports whether Destroy was called.
func (b *Base) Destroyed() bool { return b.destroyed }

// isNilTexture reports whether t is nil or an interface holding a nil
// pointer, such as a (*ImageTexture)(nil).
func isNilTexture(t Texture) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (b *Base) setTexture(name string, t Texture) {
	if isNilTexture(t) {
		t = nil
	}
	for i := range b.textures {
		if b.textures[i].Name == name {
			b.textures[i].Texture = t
			return
		}
	}
}

func (b *Base) texture(name string) Texture {
	for _, tb := range b.textures {
		if tb.Name == name {
			return tb.Texture
		}
	}
	return nil
}

func (b *Base) own(d Destroyer) {
	b.owned = append(b.owned, d)
}

// setProgram swaps in a program variant, carrying uniform values over.
func (b *Base) setProgram(p *Program) {
	if p == b.program {
		return
	}
	old := b.uniforms
	b.program = p
	if old != nil && old.Layout() == p.Layout() {
		return
	}
	if l := p.Layout(); l != nil {
		b.uniforms = l.New()
		if old != nil {
			b.uniforms.CopyFrom(old)
		}
	} else {
		b.uniforms = nil
	}
}
