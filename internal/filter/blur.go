package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Directional runs one separable blur pass from src into dst. Taps sit
// step pixels apart along the chosen axis and are read with bilinear
// filtering, so fractional steps blend neighbouring texels the way a GPU
// sampler does.
func Directional(dst, src *image.RGBA, kernelSize int, step float32, horizontal bool) {
	weights := Weights(kernelSize)
	half := len(weights) / 2
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				cx := float32(x) + 0.5
				cy := float32(y) + 0.5
				var r, g, b, a float32
				for i, wt := range weights {
					off := float32(i-half) * step
					var sr, sg, sb, sa float32
					if horizontal {
						sr, sg, sb, sa = sampleBilinear(src, cx+off, cy)
					} else {
						sr, sg, sb, sa = sampleBilinear(src, cx, cy+off)
					}
					r += sr * wt
					g += sg * wt
					b += sb * wt
					a += sa * wt
				}
				store(dst, x, y, r, g, b, a)
			}
		}
	})
}
