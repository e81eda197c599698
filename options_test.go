package filters

import (
	"bytes"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	o := Resolve(DefaultBlurOptions(),
		func(o *BlurOptions) { o.Quality = 2 },
		nil,
		func(o *BlurOptions) { o.Quality = 0 },
	)
	assert.Equal(t, 0, o.Quality, "later options win, zero values included")
	assert.Equal(t, DefaultBlurOptions().Strength, o.Strength)

	full := BlurOptions{Strength: Pt(1, 2), Quality: 3, KernelSize: 7}
	assert.Equal(t, full, Resolve(DefaultBlurOptions(), Using(full)))
}

func TestLegacy_EqualsOptions(t *testing.T) {
	matrix := []float32{0, 1, 0, 1, -4, 1, 0, 1, 0}
	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	defer lut.Destroy()

	tests := []struct {
		name   string
		legacy any
		want   any
	}{
		{
			"convolution",
			Resolve(DefaultConvolutionOptions(), Legacy[ConvolutionOptions](matrix, 100, 50)),
			Resolve(DefaultConvolutionOptions(), func(o *ConvolutionOptions) {
				copy(o.Matrix[:], matrix)
				o.Width = 100
				o.Height = 50
			}),
		},
		{
			"bloom number blur",
			Resolve(DefaultBloomOptions(), Legacy[BloomOptions](4, 2)),
			Resolve(DefaultBloomOptions(), func(o *BloomOptions) {
				o.Blur = Broadcast(4)
				o.Quality = 2
			}),
		},
		{
			"color overlay",
			Resolve(DefaultColorOverlayOptions(), Legacy[ColorOverlayOptions](0xff0000, 0.5)),
			Resolve(DefaultColorOverlayOptions(), func(o *ColorOverlayOptions) {
				o.Color = Hex(0xff0000)
				o.Alpha = 0.5
			}),
		},
		{
			"color replace",
			Resolve(DefaultColorReplaceOptions(), Legacy[ColorReplaceOptions]([]float32{1, 0, 0}, "#00ff00", 0.1)),
			Resolve(DefaultColorReplaceOptions(), func(o *ColorReplaceOptions) {
				o.OriginalColor = RGB(1, 0, 0)
				o.TargetColor = Hex(0x00ff00)
				o.Tolerance = 0.1
			}),
		},
		{
			"color map",
			Resolve(DefaultColorMapOptions(), Legacy[ColorMapOptions](lut, true, 0.5)),
			Resolve(DefaultColorMapOptions(), func(o *ColorMapOptions) {
				o.ColorMap = lut
				o.Nearest = true
				o.Mix = 0.5
			}),
		},
		{
			"kawase kernels",
			Resolve(DefaultKawaseBlurOptions(), Legacy[KawaseBlurOptions]([]float32{0, 1, 2}, nil, true)),
			Resolve(DefaultKawaseBlurOptions(), func(o *KawaseBlurOptions) {
				o.Kernels = []float32{0, 1, 2}
				o.Clamp = true
			}),
		},
		{
			"pixelate point",
			Resolve(DefaultPixelateOptions(), Legacy[PixelateOptions]([2]float32{4, 8})),
			Resolve(DefaultPixelateOptions(), func(o *PixelateOptions) { o.Size = Pt(4, 8) }),
		},
		{
			"radial blur nil keeps default",
			Resolve(DefaultRadialBlurOptions(), Legacy[RadialBlurOptions](10, nil, 7)),
			Resolve(DefaultRadialBlurOptions(), func(o *RadialBlurOptions) {
				o.Angle = 10
				o.KernelSize = 7
			}),
		},
		{
			"rgb split",
			Resolve(DefaultRGBSplitOptions(), Legacy[RGBSplitOptions](Pt(-1, 0), []float64{0, 1}, Pt(0, 0))),
			Resolve(DefaultRGBSplitOptions(), func(o *RGBSplitOptions) {
				o.Red = Pt(-1, 0)
				o.Green = Pt(0, 1)
				o.Blue = Pt(0, 0)
			}),
		},
		{
			"shockwave",
			Resolve(DefaultShockwaveOptions(), Legacy[ShockwaveOptions](Pt(5, 6), nil, 2)),
			Resolve(DefaultShockwaveOptions(), func(o *ShockwaveOptions) {
				o.Center = Pt(5, 6)
				o.Time = 2
			}),
		},
		{
			"tilt shift",
			Resolve(DefaultTiltShiftOptions(), Legacy[TiltShiftOptions](50, 300, Pt(0, 10), Pt(100, 10))),
			Resolve(DefaultTiltShiftOptions(), func(o *TiltShiftOptions) {
				o.Blur = 50
				o.GradientBlur = 300
				o.Start = Pt(0, 10)
				o.End = Pt(100, 10)
			}),
		},
		{
			"multi color replace pairs",
			Resolve(DefaultMultiColorReplaceOptions(), Legacy[MultiColorReplaceOptions]([][2]uint32{{0xff0000, 0x0000ff}}, 0.2)),
			Resolve(DefaultMultiColorReplaceOptions(), func(o *MultiColorReplaceOptions) {
				o.Replacements = []Replacement{{Original: Hex(0xff0000), Target: Hex(0x0000ff)}}
				o.Tolerance = 0.2
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.legacy)
		})
	}
}

func TestLegacy_FilterStateMatches(t *testing.T) {
	matrix := []float32{1, 2, 1, 2, 4, 2, 1, 2, 1}
	legacy := NewConvolutionFilter(Legacy[ConvolutionOptions](matrix, 100, 50))
	explicit := NewConvolutionFilter(func(o *ConvolutionOptions) {
		copy(o.Matrix[:], matrix)
		o.Width = 100
		o.Height = 50
	})
	assert.Equal(t, explicit.Uniforms().Data(), legacy.Uniforms().Data())
	assert.Equal(t, explicit.Width(), legacy.Width())
	assert.Equal(t, explicit.Height(), legacy.Height())
}

func TestLegacy_DeprecationLoggedOnce(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() {
		SetLogger(orig)
		deprecationsSeen.Clear()
	})
	deprecationsSeen.Clear()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	NewEmbossFilter(Legacy[EmbossOptions](3))
	NewEmbossFilter(Legacy[EmbossOptions](4))
	NewEmbossFilter(func(o *EmbossOptions) { o.Strength = 5 })

	assert.Equal(t, 1, strings.Count(buf.String(), "EmbossFilter positional constructor arguments are deprecated"))
}

func TestPositional(t *testing.T) {
	args := Positional{1.5, nil, true, "x", []float64{1, 2}, int64(7)}

	f, ok := args.Float(0)
	require.True(t, ok)
	assert.Equal(t, float32(1.5), f)

	_, ok = args.Float(1)
	assert.False(t, ok, "nil is absent")
	_, ok = args.Float(9)
	assert.False(t, ok, "out of range is absent")

	_, ok = args.Float(3)
	assert.False(t, ok, "wrong kind is rejected")

	b, ok := args.Bool(2)
	require.True(t, ok)
	assert.True(t, b)

	p, ok := args.Point(4)
	require.True(t, ok)
	assert.Equal(t, Pt(1, 2), p)

	n, ok := args.Int(5)
	require.True(t, ok)
	assert.Equal(t, 7, n)
}
