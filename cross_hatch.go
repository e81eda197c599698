package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/cross_hatch.wgsl
var crossHatchSource string

var crossHatchProgram = NewProgram("cross-hatch", crossHatchSource, nil)

// CrossHatchFilter draws the image as black hatching on white, with more
// line directions in darker areas.
type CrossHatchFilter struct {
	Base
}

// NewCrossHatchFilter creates a cross hatch filter. It has no options.
func NewCrossHatchFilter() *CrossHatchFilter {
	f := &CrossHatchFilter{Base: newBase(crossHatchProgram)}
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		s := filter.NewSampler(src)
		filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
			r, g, b, _ := s.At(x, y)
			if hatched(math32.Sqrt(r*r+g*g+b*b), x, y) {
				return 0, 0, 0, 1
			}
			return 1, 1, 1, 1
		})
	}
	return f
}

func hatched(lum, x, y float32) bool {
	on := func(v float32) bool { return fmod(v, 10) == 0 }
	return lum < 1 && on(x+y) ||
		lum < 0.75 && on(x-y) ||
		lum < 0.5 && on(x+y-5) ||
		lum < 0.3 && on(x-y-5)
}

// fmod is the floored modulo WGSL sources use.
func fmod(x, y float32) float32 {
	return x - y*math32.Floor(x/y)
}
