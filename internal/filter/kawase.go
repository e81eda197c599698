package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Kawase runs one Kawase pass: the average of four diagonal bilinear taps
// at (±ox, ±oy) pixels. With clamp set, taps past the edge repeat the
// border texel; otherwise they read transparent black.
func Kawase(dst, src *image.RGBA, ox, oy float32, clamp bool) {
	read := sampleBilinearOrZero
	if clamp {
		read = sampleBilinear
	}
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				cx := float32(x) + 0.5
				cy := float32(y) + 0.5
				var r, g, b, a float32
				for _, d := range [4][2]float32{{-ox, oy}, {ox, oy}, {ox, -oy}, {-ox, -oy}} {
					sr, sg, sb, sa := read(src, cx+d[0], cy+d[1])
					r += sr
					g += sg
					b += sb
					a += sa
				}
				store(dst, x, y, r*0.25, g*0.25, b*0.25, a*0.25)
			}
		}
	})
}
