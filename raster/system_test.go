package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/filters"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// barePass has no CPU rendition.
type barePass struct{ p *filters.Program }

func (b barePass) Program() *filters.Program          { return b.p }
func (b barePass) Uniforms() *filters.UniformGroup    { return nil }
func (b barePass) Textures() []filters.TextureBinding { return nil }

func TestFromImage_NormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.Set(10, 20, color.RGBA{R: 255, A: 255})

	s := New()
	surf := s.FromImage(src)
	assert.Equal(t, image.Rect(0, 0, 4, 3), surf.Image().Rect)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, surf.Image().RGBAAt(0, 0))
}

func TestApplyFilter_RunsRasterizer(t *testing.T) {
	s := New()
	in := s.FromImage(solid(4, 4, color.RGBA{R: 200, G: 100, B: 50, A: 255}))
	out := s.NewSurface(4, 4)

	f := filters.NewGrayscaleFilter()
	require.NoError(t, f.Apply(s, in, out, true))

	px := out.Image().RGBAAt(1, 1)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
	assert.Equal(t, uint8(255), px.A)
}

func TestApplyFilter_SameInputAndOutput(t *testing.T) {
	s := New()
	surf := s.FromImage(solid(3, 3, color.RGBA{R: 255, A: 255}))

	f := filters.NewColorOverlayFilter(func(o *filters.ColorOverlayOptions) {
		o.Color = filters.Hex(0x0000ff)
	})
	require.NoError(t, f.Apply(s, surf, surf, true))

	assert.Equal(t, color.RGBA{B: 255, A: 255}, surf.Image().RGBAAt(2, 2))
	assert.Zero(t, s.Outstanding())
}

func TestApplyFilter_CompositesWhenNotClearing(t *testing.T) {
	s := New()
	in := s.FromImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	out := s.FromImage(solid(2, 2, color.RGBA{G: 255, A: 255}))

	// Transparent input over an opaque output leaves the output untouched.
	require.NoError(t, filters.NewAlphaFilter(1).Apply(s, in, out, false))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.Image().RGBAAt(0, 0))
}

func TestApplyFilter_WithoutRasterizerCopies(t *testing.T) {
	s := New()
	in := s.FromImage(solid(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	out := s.NewSurface(2, 2)

	pass := barePass{p: filters.NewProgram("bare", "@fragment fn fs_main(in: VSOutput) -> @location(0) vec4<f32> { return sampleInput(in.uv); }", nil)}
	require.NoError(t, s.ApplyFilter(pass, in, out, true))
	assert.Equal(t, in.Image().Pix, out.Image().Pix)
}

func TestApplyFilter_ForeignSurface(t *testing.T) {
	a, b := New(), New()
	in := a.NewSurface(2, 2)
	out := b.NewSurface(2, 2)

	err := filters.NewGrayscaleFilter().Apply(a, in, out, true)
	require.ErrorIs(t, err, filters.ErrForeignSurface)
}

func TestPool_ReusesAndClears(t *testing.T) {
	s := New()
	like := s.NewSurface(8, 8)

	first, err := s.GetSameSizeSurface(like)
	require.NoError(t, err)
	first.(*Surface).Image().Pix[0] = 99
	s.ReturnSurface(first)

	second, err := s.GetSameSizeSurface(like)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Zero(t, second.(*Surface).Image().Pix[0])
	s.ReturnSurface(second)
	assert.Zero(t, s.Outstanding())
}

func TestReturnSurface_IgnoresSecondReturn(t *testing.T) {
	s := New()
	like := s.NewSurface(4, 4)

	surf, err := s.GetSameSizeSurface(like)
	require.NoError(t, err)
	s.ReturnSurface(surf)
	s.ReturnSurface(surf)

	a, err := s.GetSameSizeSurface(like)
	require.NoError(t, err)
	b, err := s.GetSameSizeSurface(like)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "a surface returned twice must not be handed out twice")
	s.ReturnSurface(a)
	s.ReturnSurface(b)
	assert.Zero(t, s.Outstanding())
}

func TestApplyFilter_CompositeFilterIsNotAPass(t *testing.T) {
	s := New()
	in := s.NewSurface(2, 2)
	out := s.NewSurface(2, 2)
	err := s.ApplyFilter(filters.NewBlurFilter(), in, out, true)
	assert.ErrorIs(t, err, filters.ErrNoProgram)
}

func TestReturnSurface_IgnoresUnpooled(t *testing.T) {
	s := New()
	s.ReturnSurface(s.NewSurface(2, 2))
	assert.Zero(t, s.Outstanding())
}

func TestMultiPassFilters_ReturnEverySurface(t *testing.T) {
	tests := []struct {
		name string
		f    filters.Filter
	}{
		{"blur", filters.NewBlurFilter()},
		{"blur zero strength", filters.NewBlurFilter(func(o *filters.BlurOptions) { o.Strength = filters.Broadcast(0) })},
		{"bloom", filters.NewBloomFilter()},
		{"bloom zero strength", filters.NewBloomFilter(func(o *filters.BloomOptions) { o.Blur = filters.Broadcast(0) })},
		{"kawase", filters.NewKawaseBlurFilter()},
		{"kawase zero strength", filters.NewKawaseBlurFilter(func(o *filters.KawaseBlurOptions) { o.Strength = 0 })},
		{"drop shadow", filters.NewDropShadowFilter()},
		{"advanced bloom", filters.NewAdvancedBloomFilter()},
		{"advanced bloom zero strength", filters.NewAdvancedBloomFilter(func(o *filters.AdvancedBloomOptions) { o.Blur = 0 })},
		{"tilt shift", filters.NewTiltShiftFilter()},
		{"backdrop blur", filters.NewBackdropBlurFilter()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithBackdrop(solid(16, 16, color.RGBA{B: 255, A: 255})))
			in := s.FromImage(solid(16, 16, color.RGBA{R: 255, A: 255}))
			out := s.NewSurface(16, 16)

			require.NoError(t, tt.f.Apply(s, in, out, true))
			assert.Zero(t, s.Outstanding())
		})
	}
}

func TestRun_PadsByLargestPadding(t *testing.T) {
	s := New()
	glow := filters.NewGlowFilter(func(o *filters.GlowOptions) { o.Distance = 3 })

	out, err := s.Run(solid(4, 4, color.White), filters.NewGrayscaleFilter(), glow)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Rect)
	assert.Zero(t, s.Outstanding())
}

func TestRun_SkipsDisabled(t *testing.T) {
	s := New()
	overlay := filters.NewColorOverlayFilter(func(o *filters.ColorOverlayOptions) {
		o.Color = filters.Hex(0x00ff00)
	})
	overlay.SetEnabled(false)

	src := solid(2, 2, color.RGBA{R: 255, A: 255})
	out, err := s.Run(src, overlay)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestRun_Nil(t *testing.T) {
	_, err := New().Run(nil)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestImageTexture_ReuploadedOnInvalidate(t *testing.T) {
	light := solid(4, 4, color.White)
	tex := filters.NewImageTexture(light)
	f, err := filters.NewSimpleLightmapFilter(func(o *filters.SimpleLightmapOptions) {
		o.LightMap = tex
	})
	require.NoError(t, err)

	s := New()
	src := solid(4, 4, color.White)

	out, err := s.Run(src, f)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(1, 1))

	draw.Draw(light, light.Rect, image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	tex.Invalidate()

	out, err = s.Run(src, f)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 1))

	tex.Destroy()
	s.mu.Lock()
	assert.Empty(t, s.textures)
	s.mu.Unlock()
}

func TestBackdrop_SizeMustMatch(t *testing.T) {
	s := New(WithBackdrop(solid(4, 4, color.Black)))

	_, ok := s.Backdrop(s.NewSurface(4, 4))
	assert.True(t, ok)
	_, ok = s.Backdrop(s.NewSurface(5, 4))
	assert.False(t, ok)

	s.SetBackdrop(nil)
	_, ok = s.Backdrop(s.NewSurface(4, 4))
	assert.False(t, ok)
}
