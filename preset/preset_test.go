package preset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/filters"
)

const tomlChain = `
name = "soft glow"

[[filters]]
filter = "blur"
strength = { x = 2.0, y = 3.0 }

[[filters]]
filter = "glow"
color = "#ffcc00"
outer_strength = 2.0
`

const yamlChain = `
name: soft glow
filters:
  - filter: blur
    strength: {x: 2, y: 3}
  - filter: glow
    color: "#ffcc00"
    outer_strength: 2
`

func TestDecode_OverDefaults(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte, ...Option) (*Preset, error)
		doc    string
	}{
		{"toml", DecodeTOML, tomlChain},
		{"yaml", DecodeYAML, yamlChain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.decode([]byte(tt.doc))
			require.NoError(t, err)
			defer p.Destroy()

			assert.Equal(t, "soft glow", p.Name)
			require.Len(t, p.Filters, 2)

			blur, ok := p.Filters[0].(*filters.BlurFilter)
			require.True(t, ok)
			assert.InDelta(t, 2, blur.BlurX(), 1e-6)
			assert.InDelta(t, 3, blur.BlurY(), 1e-6)
			assert.Equal(t, filters.DefaultBlurOptions().Quality, blur.Quality())

			glow, ok := p.Filters[1].(*filters.GlowFilter)
			require.True(t, ok)
			assert.Equal(t, uint32(0xffcc00), glow.Color().ToInt())
			assert.InDelta(t, 2, glow.OuterStrength().Get(), 1e-6)
			assert.Equal(t, 10, glow.Distance(), "absent keys keep defaults")
		})
	}
}

func TestDecode_CommonKeys(t *testing.T) {
	p, err := DecodeTOML([]byte(`
[[filters]]
filter = "grayscale"
enabled = false

[[filters]]
filter = "alpha"
alpha = 0.5
padding = 4.0
`))
	require.NoError(t, err)
	defer p.Destroy()

	require.Len(t, p.Filters, 2)
	assert.False(t, p.Filters[0].Enabled())
	alpha := p.Filters[1].(*filters.AlphaFilter)
	assert.InDelta(t, 0.5, alpha.Alpha(), 1e-6)
	assert.InDelta(t, 4, alpha.Padding(), 1e-6)
}

func TestDecode_NamedEnums(t *testing.T) {
	p, err := DecodeYAML([]byte(`
filters:
  - filter: color_gradient
    type: radial
  - filter: glitch
    fill_mode: loop
`))
	require.NoError(t, err)
	defer p.Destroy()

	assert.Equal(t, filters.GradientRadial, p.Filters[0].(*filters.ColorGradientFilter).Type())
	assert.Equal(t, filters.FillLoop, p.Filters[1].(*filters.GlitchFilter).FillMode())
}

func TestDecode_Errors(t *testing.T) {
	_, err := DecodeTOML([]byte("[[filters]]\nfilter = \"sparkle\"\n"))
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, err = DecodeYAML([]byte("filters:\n  - filter: color_map\n"))
	assert.ErrorIs(t, err, filters.ErrConfiguration)

	_, err = DecodeYAML([]byte("filters:\n  - filter: color_map\n    texture: lut\n"))
	assert.ErrorIs(t, err, ErrUnknownTexture)

	_, err = DecodeTOML([]byte("[[filters]]\nfilter = \"color_gradient\"\ntype = \"spiral\"\n"))
	assert.Error(t, err)

	_, err = DecodeTOML([]byte("filters = ["))
	assert.Error(t, err)
}

func TestDecode_WithTexture(t *testing.T) {
	lut := filters.NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	defer lut.Destroy()

	p, err := DecodeTOML([]byte(`
[[filters]]
filter = "color_map"
texture = "lut"
mix = 0.25
`), WithTexture("lut", lut))
	require.NoError(t, err)

	cm := p.Filters[0].(*filters.ColorMapFilter)
	assert.Same(t, lut, cm.ColorMap())
	assert.InDelta(t, 0.25, cm.Mix().Get(), 1e-6)

	p.Destroy()
	assert.False(t, lut.Destroyed(), "caller textures stay with the caller")
}

func TestLoad_ImageTexture(t *testing.T) {
	dir := t.TempDir()
	light := image.NewRGBA(image.Rect(0, 0, 2, 2))
	light.Set(0, 0, color.White)
	f, err := os.Create(filepath.Join(dir, "light.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, light))
	require.NoError(t, f.Close())

	path := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
filters:
  - filter: simple_lightmap
    texture: light.png
    alpha: 0.5
`), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.textures, 1)
	tex := p.textures[0]

	lm := p.Filters[0].(*filters.SimpleLightmapFilter)
	assert.Same(t, tex, lm.LightMap())
	assert.Equal(t, 2, tex.Width())

	p.Destroy()
	assert.True(t, tex.Destroyed())
}

func TestLoad_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.True(t, slices.IsSorted(names))
	assert.Contains(t, names, "blur")
	assert.Contains(t, names, "zoom_blur")
	assert.Len(t, names, len(registry))
}
