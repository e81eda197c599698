package raster

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Surface is a premultiplied RGBA render target owned by one System.
type Surface struct {
	img    *image.RGBA
	owner  *System
	pooled bool

	// checkedOut is set while GetSameSizeSurface's caller holds the surface.
	checkedOut bool
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Image returns the backing image. Its origin is always (0, 0).
func (s *Surface) Image() *image.RGBA { return s.img }

// Clear makes every pixel transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// toRGBA copies img into a new origin-anchored RGBA buffer.
func toRGBA(img image.Image) *image.RGBA {
	rgba := clone.AsRGBA(img)
	rgba.Rect = image.Rect(0, 0, rgba.Rect.Dx(), rgba.Rect.Dy())
	return rgba
}
