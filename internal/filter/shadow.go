package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Shadow writes src's alpha mask shifted by (dx, dy) pixels and filled
// with the straight color (r, g, b) at opacity alpha.
func Shadow(dst, src *image.RGBA, dx, dy, r, g, b, alpha float32) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				_, _, _, sa := sampleBilinearOrZero(src, float32(x)+0.5-dx, float32(y)+0.5-dy)
				a := sa * alpha
				store(dst, x, y, r*a, g*a, b*a, a)
			}
		}
	})
}
