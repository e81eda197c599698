package filter

import (
	"image"
	"testing"
)

func TestShadowOffsetAndColor(t *testing.T) {
	src := dot(10, 10, 2, 2)
	dst := image.NewRGBA(src.Rect)
	Shadow(dst, src, 3, 4, 1, 0, 0, 0.5)

	got := dst.RGBAAt(5, 6)
	if !near(got.A, 128, 1) || !near(got.R, 128, 1) || got.G != 0 {
		t.Errorf("shadow pixel = %v, want half-opaque red", got)
	}
	if dst.RGBAAt(2, 2).A != 0 {
		t.Error("original position should be empty")
	}
}

func TestConvolveIdentity(t *testing.T) {
	src := dot(6, 6, 3, 3)
	dst := image.NewRGBA(src.Rect)
	Convolve3x3(dst, src, [9]float32{0, 0, 0, 0, 1, 0, 0, 0, 0}, 1, 1)
	if got := dst.RGBAAt(3, 3); got.R != 255 || got.A != 255 {
		t.Errorf("identity kernel centre = %v", got)
	}
	if got := dst.RGBAAt(2, 3); got.R != 0 {
		t.Errorf("identity kernel neighbour = %v", got)
	}
}

func TestRemapFlip(t *testing.T) {
	src := dot(4, 1, 0, 0)
	dst := image.NewRGBA(src.Rect)
	Remap(dst, src, func(x, y float32) (float32, float32, bool) {
		return 4 - x, y, true
	})
	if dst.RGBAAt(3, 0).A != 255 {
		t.Error("flip should move the dot to the last column")
	}
}

func TestOverComposites(t *testing.T) {
	dst := dot(2, 1, 0, 0)
	src := dot(2, 1, 1, 0)
	Over(dst, src)
	if dst.RGBAAt(0, 0).A != 255 || dst.RGBAAt(1, 0).A != 255 {
		t.Error("over should keep both dots")
	}
}
