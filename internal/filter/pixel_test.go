package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestMapIdentity(t *testing.T) {
	src := solid(4, 4, color.RGBA{128, 64, 32, 255})
	dst := image.NewRGBA(src.Rect)
	Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) { return r, g, b, a })
	got := dst.RGBAAt(1, 1)
	if !near(got.R, 128, 1) || !near(got.G, 64, 1) || !near(got.B, 32, 1) {
		t.Errorf("identity changed color: %v", got)
	}
}

func TestMapKeepsPremultipliedAlpha(t *testing.T) {
	// 50% transparent white, premultiplied.
	src := solid(2, 2, color.RGBA{128, 128, 128, 128})
	dst := image.NewRGBA(src.Rect)
	Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) { return r, g, b, a })
	got := dst.RGBAAt(0, 0)
	if !near(got.R, 128, 1) || !near(got.A, 128, 0) {
		t.Errorf("premultiplied round trip = %v", got)
	}
}

func TestMapClamps(t *testing.T) {
	src := solid(2, 2, color.RGBA{200, 200, 200, 255})
	dst := image.NewRGBA(src.Rect)
	Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) { return r * 4, -g, b, a })
	got := dst.RGBAAt(0, 0)
	if got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("clamped = %v", got)
	}
}
