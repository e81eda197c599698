package filters

import (
	_ "embed"
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/grayscale.wgsl
var grayscaleSource string

var grayscaleProgram = NewProgram("grayscale", grayscaleSource, nil)

// GrayscaleFilter converts to luminance with 0.21/0.72/0.07 weights.
type GrayscaleFilter struct {
	Base
}

// NewGrayscaleFilter creates a grayscale filter. It has no options.
func NewGrayscaleFilter() *GrayscaleFilter {
	f := &GrayscaleFilter{Base: newBase(grayscaleProgram)}
	f.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		filter.Copy(dst, effect.GrayscaleWithWeights(src, 0.21, 0.72, 0.07))
	}
	return f
}
