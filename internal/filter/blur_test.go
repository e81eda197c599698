package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestDirectionalPreservesSolid(t *testing.T) {
	src := solid(16, 16, color.RGBA{100, 50, 25, 255})
	dst := image.NewRGBA(src.Rect)
	Directional(dst, src, 9, 2, true)
	got := dst.RGBAAt(8, 8)
	if !near(got.R, 100, 1) || !near(got.G, 50, 1) || !near(got.A, 255, 1) {
		t.Errorf("solid input changed: %v", got)
	}
}

func TestDirectionalSpreadsAlongAxis(t *testing.T) {
	src := dot(15, 15, 7, 7)
	h := image.NewRGBA(src.Rect)
	Directional(h, src, 5, 1, true)
	if h.RGBAAt(8, 7).A == 0 {
		t.Error("horizontal pass should reach the right neighbour")
	}
	if h.RGBAAt(7, 8).A != 0 {
		t.Error("horizontal pass should not reach the lower neighbour")
	}
	if h.RGBAAt(7, 7).A >= 255 {
		t.Error("centre should lose energy to neighbours")
	}

	v := image.NewRGBA(src.Rect)
	Directional(v, src, 5, 1, false)
	if v.RGBAAt(7, 8).A == 0 {
		t.Error("vertical pass should reach the lower neighbour")
	}
}

func TestKawaseZeroOffsetIsIdentity(t *testing.T) {
	src := dot(8, 8, 3, 3)
	dst := image.NewRGBA(src.Rect)
	Kawase(dst, src, 0, 0, true)
	if got := dst.RGBAAt(3, 3); got.A != 255 {
		t.Errorf("Kawase(0,0) centre = %v, want opaque", got)
	}
}

func TestKawaseClampKeepsEdges(t *testing.T) {
	src := solid(8, 8, color.RGBA{0, 0, 255, 255})
	clamped := image.NewRGBA(src.Rect)
	Kawase(clamped, src, 2.5, 2.5, true)
	if got := clamped.RGBAAt(0, 0).A; got != 255 {
		t.Errorf("clamped corner alpha = %d, want 255", got)
	}
	open := image.NewRGBA(src.Rect)
	Kawase(open, src, 2.5, 2.5, false)
	if got := open.RGBAAt(0, 0).A; got >= 255 {
		t.Errorf("unclamped corner alpha = %d, want < 255", got)
	}
}
