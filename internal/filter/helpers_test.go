package filter

import (
	"image"
	"image/color"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func dot(w, h, x, y int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
	return img
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}
