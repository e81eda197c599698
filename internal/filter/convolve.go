package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Convolve3x3 applies a row-major 3x3 matrix with taps dx, dy pixels apart.
// Alpha is taken from the centre texel.
func Convolve3x3(dst, src *image.RGBA, m [9]float32, dx, dy float32) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				cx := float32(x) + 0.5
				cy := float32(y) + 0.5
				var r, g, b float32
				for i, k := range m {
					if k == 0 {
						continue
					}
					ox := float32(i%3-1) * dx
					oy := float32(i/3-1) * dy
					sr, sg, sb, _ := sampleBilinear(src, cx+ox, cy+oy)
					r += sr * k
					g += sg * k
					b += sb * k
				}
				_, _, _, a := sample(src, x, y)
				store(dst, x, y, r, g, b, a)
			}
		}
	})
}
