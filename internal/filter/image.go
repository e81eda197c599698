package filter

import "image"

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// sample reads a premultiplied pixel with edge clamping.
func sample(img *image.RGBA, x, y int) (r, g, b, a float32) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	x = clampInt(x, 0, w-1)
	y = clampInt(y, 0, h-1)
	i := y*img.Stride + x*4
	p := img.Pix[i : i+4 : i+4]
	return float32(p[0]), float32(p[1]), float32(p[2]), float32(p[3])
}

// sampleOrZero reads a pixel, returning transparent black outside the image.
func sampleOrZero(img *image.RGBA, x, y int) (r, g, b, a float32) {
	if x < 0 || y < 0 || x >= img.Rect.Dx() || y >= img.Rect.Dy() {
		return 0, 0, 0, 0
	}
	return sample(img, x, y)
}

// sampleBilinear reads at a fractional pixel position (pixel centers at .5)
// with edge clamping.
func sampleBilinear(img *image.RGBA, fx, fy float32) (r, g, b, a float32) {
	return bilinear(img, fx, fy, sample)
}

// sampleBilinearOrZero reads at a fractional position, treating texels
// outside the image as transparent.
func sampleBilinearOrZero(img *image.RGBA, fx, fy float32) (r, g, b, a float32) {
	return bilinear(img, fx, fy, sampleOrZero)
}

func bilinear(img *image.RGBA, fx, fy float32, sample func(*image.RGBA, int, int) (float32, float32, float32, float32)) (r, g, b, a float32) {
	fx -= 0.5
	fy -= 0.5
	x0 := floor(fx)
	y0 := floor(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	r00, g00, b00, a00 := sample(img, x0, y0)
	r10, g10, b10, a10 := sample(img, x0+1, y0)
	r01, g01, b01, a01 := sample(img, x0, y0+1)
	r11, g11, b11, a11 := sample(img, x0+1, y0+1)

	lerp2 := func(v00, v10, v01, v11 float32) float32 {
		top := v00 + (v10-v00)*tx
		bot := v01 + (v11-v01)*tx
		return top + (bot-top)*ty
	}
	return lerp2(r00, r10, r01, r11), lerp2(g00, g10, g01, g11),
		lerp2(b00, b10, b01, b11), lerp2(a00, a10, a01, a11)
}

func floor(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

// store writes a premultiplied pixel.
func store(img *image.RGBA, x, y int, r, g, b, a float32) {
	i := y*img.Stride + x*4
	p := img.Pix[i : i+4 : i+4]
	p[0] = clampUint8(r)
	p[1] = clampUint8(g)
	p[2] = clampUint8(b)
	p[3] = clampUint8(a)
}

// Copy copies src into dst over the common area.
func Copy(dst, src *image.RGBA) {
	w := min(dst.Rect.Dx(), src.Rect.Dx())
	h := min(dst.Rect.Dy(), src.Rect.Dy())
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
}

// Scale multiplies every channel by f (alpha filters on premultiplied data).
func Scale(dst, src *image.RGBA, f float32) {
	w := min(dst.Rect.Dx(), src.Rect.Dx())
	h := min(dst.Rect.Dy(), src.Rect.Dy())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := sample(src, x, y)
			store(dst, x, y, r*f, g*f, b*f, a*f)
		}
	}
}

// Over composites src over dst with premultiplied source-over.
func Over(dst, src *image.RGBA) {
	w := min(dst.Rect.Dx(), src.Rect.Dx())
	h := min(dst.Rect.Dy(), src.Rect.Dy())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sr, sg, sb, sa := sample(src, x, y)
			if sa == 0 && sr == 0 && sg == 0 && sb == 0 {
				continue
			}
			dr, dg, db, da := sample(dst, x, y)
			inv := 1 - sa/255
			store(dst, x, y, sr+dr*inv, sg+dg*inv, sb+db*inv, sa+da*inv)
		}
	}
}
