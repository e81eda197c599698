package filters

import (
	_ "embed"
	"image"
	"sync"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/backdrop_blur.wgsl
var backdropBlurSource string

var backdropBlendProgram = NewProgram("backdrop-blend", backdropBlurSource, nil, "backdrop")

// backdropBlendPass draws the input over the blurred backdrop.
type backdropBlendPass struct {
	Base
}

func newBackdropBlendPass() *backdropBlendPass {
	p := &backdropBlendPass{Base: newBase(backdropBlendProgram)}
	p.raster = func(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) {
		s := filter.NewSampler(src)
		back := filter.NewSampler(lookup(p.texture("backdrop")))
		filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
			r, g, b, a := s.At(x, y)
			if a == 0 {
				return 0, 0, 0, 0
			}
			br, bg, bb, _ := back.At(x, y)
			return mix(br, r/a, a), mix(bg, g/a, a), mix(bb, b/a, a), 1
		})
	}
	return p
}

// BackdropBlurFilter blurs what was rendered behind the filtered node and
// shows it through the node's transparent areas. It needs a host that
// implements BackdropProvider.
type BackdropBlurFilter struct {
	*BlurFilter

	blend    *backdropBlendPass
	fallback *AlphaFilter
	warnOnce sync.Once
}

// NewBackdropBlurFilter creates a backdrop blur filter. It takes the same
// options as BlurFilter.
func NewBackdropBlurFilter(opts ...Option[BlurOptions]) *BackdropBlurFilter {
	return &BackdropBlurFilter{
		BlurFilter: NewBlurFilter(opts...),
		blend:      newBackdropBlendPass(),
		fallback:   NewAlphaFilter(1),
	}
}

// Apply blurs the backdrop into a pooled surface and blends the input over
// it. Without a backdrop the input is copied unchanged.
func (f *BackdropBlurFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	var back Surface
	if bp, ok := sys.(BackdropProvider); ok {
		back, ok = bp.Backdrop(output)
		if !ok {
			back = nil
		}
	}
	if back == nil {
		f.warnOnce.Do(func() {
			Logger().Warn("backdrop blur: host has no backdrop, drawing input unchanged")
		})
		return f.fallback.Apply(sys, input, output, clear)
	}
	return withSurface(sys, input, func(blurred Surface) error {
		if err := applyBlur(sys, f.blurX, f.blurY, back, blurred, true); err != nil {
			return err
		}
		f.blend.setTexture("backdrop", blurred)
		defer f.blend.setTexture("backdrop", nil)
		return f.blend.Apply(sys, input, output, clear)
	})
}

// Destroy releases the inner passes.
func (f *BackdropBlurFilter) Destroy() {
	f.BlurFilter.Destroy()
	f.blend.Destroy()
	f.fallback.Destroy()
}
