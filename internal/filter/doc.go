// Package filter provides the CPU renditions of filter passes used by the
// raster host.
//
// Every function works on premultiplied *image.RGBA buffers of equal size:
//   - Directional blur passes with fixed Gaussian weight tables
//   - Kawase blur passes (four diagonal taps)
//   - 3x3 convolution
//   - Per-pixel maps in straight-alpha space
//   - UV remapping with bilinear sampling
//   - Simplex and Perlin noise
//   - Offset-and-colorize shadows
//
// Images must have their origin at (0, 0). Hot loops index Pix directly
// and split rows across goroutines with bild's parallel.Line.
package filter
