// Package raster is the CPU host for filters.
//
// A System runs each pass through its CPU rendition on premultiplied
// *image.RGBA surfaces and pools temporaries by size, so multi-pass filters
// can be driven without a GPU:
//
//	sys := raster.New()
//	out, err := sys.Run(img, filters.NewBlurFilter(), filters.NewGrayscaleFilter())
//
// Passes without a CPU rendition are logged once and copy their input.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/filters"
	"github.com/gogpu/filters/internal/filter"
	"github.com/gogpu/filters/internal/pool"
)

// DefaultMaxPooled is how many idle surfaces of one size a System retains.
const DefaultMaxPooled = 4

// Option configures a System.
type Option func(*System)

// WithMaxPooled sets how many idle surfaces of one size are retained.
// Zero keeps every returned surface.
func WithMaxPooled(n int) Option {
	return func(s *System) {
		s.maxPooled = n
	}
}

// WithBackdrop sets the image BackdropBlurFilter samples behind the
// filtered content.
func WithBackdrop(img image.Image) Option {
	return func(s *System) {
		s.backdrop = img
	}
}

// System is a filters.System that renders on the CPU.
//
// Surfaces are only valid with the System that created them. A System is
// meant to be driven from one goroutine at a time; pool bookkeeping and the
// texture cache are guarded so textures may be destroyed from anywhere.
type System struct {
	maxPooled int
	surfaces  *pool.Pool[image.Point, *Surface]

	mu       sync.Mutex
	textures map[*filters.ImageTexture]*cachedTexture
	warned   map[string]bool

	backdrop     image.Image
	backdropSurf *Surface
}

type cachedTexture struct {
	version uint64
	img     *image.RGBA
}

// New creates a CPU host.
func New(opts ...Option) *System {
	s := &System{
		maxPooled: DefaultMaxPooled,
		textures:  make(map[*filters.ImageTexture]*cachedTexture),
		warned:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.surfaces = pool.New(pool.Config[image.Point, *Surface]{
		MaxPerBucket: s.maxPooled,
		Create: func(size image.Point) (*Surface, error) {
			if size.X <= 0 || size.Y <= 0 {
				return nil, fmt.Errorf("raster: invalid surface size %dx%d", size.X, size.Y)
			}
			filters.Logger().Debug("raster surface created", "width", size.X, "height", size.Y)
			return &Surface{img: image.NewRGBA(image.Rectangle{Max: size}), owner: s, pooled: true}, nil
		},
		Reset: (*Surface).Clear,
	})
	if s.backdrop != nil {
		s.backdropSurf = s.FromImage(s.backdrop)
	}
	return s
}

// NewSurface creates a transparent surface that is not pooled.
func (s *System) NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height)), owner: s}
}

// FromImage copies img into a new surface anchored at the origin.
func (s *System) FromImage(img image.Image) *Surface {
	return &Surface{img: toRGBA(img), owner: s}
}

// SetBackdrop replaces the backdrop image. Nil removes it.
func (s *System) SetBackdrop(img image.Image) {
	s.backdrop = img
	s.backdropSurf = nil
	if img != nil {
		s.backdropSurf = s.FromImage(img)
	}
}

// Backdrop returns the backdrop when one is set with the size of output.
func (s *System) Backdrop(output filters.Surface) (filters.Surface, bool) {
	b := s.backdropSurf
	if b == nil || b.Width() != output.Width() || b.Height() != output.Height() {
		return nil, false
	}
	return b, true
}

// GetSameSizeSurface acquires a cleared pooled surface the size of like.
func (s *System) GetSameSizeSurface(like filters.Surface) (filters.Surface, error) {
	surf, err := s.surfaces.Get(image.Pt(like.Width(), like.Height()))
	if err != nil {
		return nil, err
	}
	surf.checkedOut = true
	return surf, nil
}

// ReturnSurface gives a surface acquired with GetSameSizeSurface back.
func (s *System) ReturnSurface(sf filters.Surface) {
	surf, ok := sf.(*Surface)
	if !ok || surf.owner != s || !surf.pooled {
		filters.Logger().Warn("raster: returned surface was not pooled by this host")
		return
	}
	if !surf.checkedOut {
		filters.Logger().Warn("raster: surface returned twice")
		return
	}
	surf.checkedOut = false
	s.surfaces.Put(image.Pt(surf.Width(), surf.Height()), surf)
}

// Outstanding returns how many pooled surfaces are checked out.
func (s *System) Outstanding() int { return s.surfaces.Outstanding() }

// ApplyFilter runs pass from input into output on the CPU.
func (s *System) ApplyFilter(pass filters.Pass, input, output filters.Surface, clear bool) error {
	if pass.Program() == nil {
		return filters.ErrNoProgram
	}
	in, err := s.surface(input)
	if err != nil {
		return err
	}
	out, err := s.surface(output)
	if err != nil {
		return err
	}

	dst := out.img
	scratch := in == out || !clear
	if scratch {
		tmp, err := s.surfaces.Get(image.Pt(out.Width(), out.Height()))
		if err != nil {
			return fmt.Errorf("raster: scratch surface: %w", err)
		}
		defer s.surfaces.Put(image.Pt(out.Width(), out.Height()), tmp)
		dst = tmp.img
	}

	r, ok := pass.(filters.Rasterizer)
	if !ok || !r.Rasterize(dst, in.img, s.lookup) {
		s.warnOnce(pass.Program().Name())
		filter.Copy(dst, in.img)
	}

	switch {
	case !clear:
		filter.Over(out.img, dst)
	case scratch:
		filter.Copy(out.img, dst)
	}
	return nil
}

// Run applies the enabled filters in chain to img in order. The source is
// first grown on every side by the largest filter padding, so the result
// can be larger than img.
func (s *System) Run(img image.Image, chain ...filters.Filter) (*image.RGBA, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	var padding float32
	for _, f := range chain {
		if f.Enabled() {
			padding = max(padding, f.Padding())
		}
	}
	pad := int(math.Ceil(float64(padding)))

	current := &Surface{img: clone.Pad(img, pad, pad, clone.NoFill), owner: s}
	for _, f := range chain {
		if !f.Enabled() {
			continue
		}
		next, err := s.GetSameSizeSurface(current)
		if err != nil {
			s.release(current)
			return nil, err
		}
		err = f.Apply(s, current, next, true)
		s.release(current)
		current = next.(*Surface)
		if err != nil {
			s.release(current)
			return nil, fmt.Errorf("raster: apply %T: %w", f, err)
		}
	}

	result := image.NewRGBA(current.img.Rect)
	copy(result.Pix, current.img.Pix)
	s.release(current)
	return result, nil
}

// Destroy drops pooled surfaces and cached textures.
func (s *System) Destroy() {
	s.surfaces.Clear()
	s.mu.Lock()
	clear(s.textures)
	s.mu.Unlock()
}

func (s *System) release(surf *Surface) {
	if surf.pooled {
		s.ReturnSurface(surf)
	}
}

func (s *System) surface(sf filters.Surface) (*Surface, error) {
	surf, ok := sf.(*Surface)
	if !ok || surf == nil || surf.owner != s {
		return nil, fmt.Errorf("raster: %w", filters.ErrForeignSurface)
	}
	return surf, nil
}

// lookup resolves an extra pass texture to pixels. Unknown or absent
// textures read as nil, which samples as transparent black.
func (s *System) lookup(t filters.Texture) *image.RGBA {
	switch t := t.(type) {
	case *Surface:
		if t == nil || t.owner != s {
			return nil
		}
		return t.img
	case *filters.ImageTexture:
		if t == nil || t.Destroyed() {
			return nil
		}
		return s.imageTexture(t)
	case nil:
		return nil
	default:
		filters.Logger().Warn("raster: unsupported texture type", "type", fmt.Sprintf("%T", t))
		return nil
	}
}

func (s *System) imageTexture(t *filters.ImageTexture) *image.RGBA {
	version := t.Version()
	s.mu.Lock()
	c, ok := s.textures[t]
	if ok && c.version == version {
		s.mu.Unlock()
		return c.img
	}
	s.mu.Unlock()

	img := rgbaView(t.Image())

	s.mu.Lock()
	s.textures[t] = &cachedTexture{version: version, img: img}
	s.mu.Unlock()
	if !ok {
		t.OnDestroy(func() { s.forget(t) })
	}
	return img
}

func (s *System) forget(t *filters.ImageTexture) {
	s.mu.Lock()
	delete(s.textures, t)
	s.mu.Unlock()
}

// rgbaView returns img itself when it already is an origin-anchored RGBA
// image and a converted copy otherwise.
func rgbaView(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	return toRGBA(img)
}

func (s *System) warnOnce(program string) {
	s.mu.Lock()
	seen := s.warned[program]
	s.warned[program] = true
	s.mu.Unlock()
	if !seen {
		filters.Logger().Warn("raster: pass has no CPU rendition, copying input", "program", program)
	}
}

// ErrNoImage is returned by helpers handed a nil image.
var ErrNoImage = errors.New("raster: nil image")
