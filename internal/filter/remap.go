package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Coord maps an output pixel center to the source position to read, in
// pixels. Returning false leaves the output pixel transparent.
type Coord func(x, y float32) (sx, sy float32, ok bool)

// Remap fills dst by reading src at the positions fn returns, with edge
// clamping and bilinear filtering.
func Remap(dst, src *image.RGBA, fn Coord) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				sx, sy, ok := fn(float32(x)+0.5, float32(y)+0.5)
				if !ok {
					store(dst, x, y, 0, 0, 0, 0)
					continue
				}
				r, g, b, a := sampleBilinear(src, sx, sy)
				store(dst, x, y, r, g, b, a)
			}
		}
	})
}

// Shade fills dst with the premultiplied color fn returns for each pixel
// center. fn reads its inputs through the Sampler.
func Shade(dst *image.RGBA, fn func(x, y float32) (r, g, b, a float32)) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := fn(float32(x)+0.5, float32(y)+0.5)
				store(dst, x, y, r*255, g*255, b*255, a*255)
			}
		}
	})
}

// Sampler reads an image in normalized premultiplied channels.
type Sampler struct {
	img *image.RGBA
}

// NewSampler wraps img. A nil image samples as transparent black.
func NewSampler(img *image.RGBA) Sampler { return Sampler{img: img} }

// At reads at a pixel position with bilinear filtering and edge clamping.
func (s Sampler) At(x, y float32) (r, g, b, a float32) {
	if s.img == nil || s.img.Rect.Empty() {
		return 0, 0, 0, 0
	}
	r, g, b, a = sampleBilinear(s.img, x, y)
	return r / 255, g / 255, b / 255, a / 255
}

// UV reads at normalized coordinates.
func (s Sampler) UV(u, v float32) (r, g, b, a float32) {
	if s.img == nil {
		return 0, 0, 0, 0
	}
	return s.At(u*float32(s.img.Rect.Dx()), v*float32(s.img.Rect.Dy()))
}

// Size returns the image size in pixels.
func (s Sampler) Size() (w, h float32) {
	if s.img == nil {
		return 0, 0
	}
	return float32(s.img.Rect.Dx()), float32(s.img.Rect.Dy())
}
