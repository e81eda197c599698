package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	in := filepath.Join(dir, "in.bmp")
	require.NoError(t, saveImage(src, in))

	chain := filepath.Join(dir, "chain.toml")
	require.NoError(t, os.WriteFile(chain, []byte(`
[[filters]]
filter = "grayscale"

[[filters]]
filter = "glow"
distance = 2.0
`), 0o600))

	out := filepath.Join(dir, "out.png")
	require.NoError(t, render(config{in: in, out: out, preset: chain, scale: 2}))

	img, err := openImage(out)
	require.NoError(t, err)
	// Scaled to 16x12, then padded by the glow distance on every side.
	assert.Equal(t, image.Rect(0, 0, 20, 16), img.Bounds())

	r, g, b, _ := img.At(10, 8).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	require.NoError(t, saveImage(image.NewRGBA(image.Rect(0, 0, 2, 2)), in))

	err := render(config{in: filepath.Join(dir, "missing.png"), out: filepath.Join(dir, "o.png"), preset: "x.toml", scale: 1})
	assert.Error(t, err)

	err = render(config{in: in, out: filepath.Join(dir, "o.png"), preset: "x.toml", scale: 0})
	assert.Error(t, err)

	assert.Error(t, saveImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), filepath.Join(dir, "o.xyz")))
}
