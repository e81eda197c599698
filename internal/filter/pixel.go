package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Map runs fn over every pixel in straight alpha with channels in [0, 1].
// Results are clamped and premultiplied back.
func Map(dst, src *image.RGBA, fn func(r, g, b, a float32) (float32, float32, float32, float32)) {
	w := min(dst.Rect.Dx(), src.Rect.Dx())
	h := min(dst.Rect.Dy(), src.Rect.Dy())
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := sample(src, x, y)
				r, g, b, a = unpremultiply(r, g, b, a)
				r, g, b, a = fn(r, g, b, a)
				a = clamp01(a)
				store(dst, x, y, clamp01(r)*a*255, clamp01(g)*a*255, clamp01(b)*a*255, a*255)
			}
		}
	})
}

// unpremultiply converts premultiplied bytes to straight channels in [0, 1].
func unpremultiply(r, g, b, a float32) (float32, float32, float32, float32) {
	if a == 0 {
		return 0, 0, 0, 0
	}
	return r / a, g / a, b / a, a / 255
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
