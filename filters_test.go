package filters

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allFilters constructs every filter with its defaults. Filters that need
// a texture get a small one.
func allFilters(t *testing.T) map[string]Filter {
	t.Helper()
	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	light := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	t.Cleanup(func() {
		lut.Destroy()
		light.Destroy()
	})
	colorMap, err := NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = lut })
	require.NoError(t, err)
	lightmap, err := NewSimpleLightmapFilter(func(o *SimpleLightmapOptions) { o.LightMap = light })
	require.NoError(t, err)

	return map[string]Filter{
		"adjustment":          NewAdjustmentFilter(),
		"advanced bloom":      NewAdvancedBloomFilter(),
		"alpha":               NewAlphaFilter(0.5),
		"ascii":               NewAsciiFilter(),
		"backdrop blur":       NewBackdropBlurFilter(),
		"bevel":               NewBevelFilter(),
		"bloom":               NewBloomFilter(),
		"blur":                NewBlurFilter(),
		"bulge pinch":         NewBulgePinchFilter(),
		"color gradient":      NewColorGradientFilter(),
		"color map":           colorMap,
		"color overlay":       NewColorOverlayFilter(),
		"color replace":       NewColorReplaceFilter(),
		"convolution":         NewConvolutionFilter(),
		"cross hatch":         NewCrossHatchFilter(),
		"crt":                 NewCRTFilter(),
		"dot":                 NewDotFilter(),
		"drop shadow":         NewDropShadowFilter(),
		"emboss":              NewEmbossFilter(),
		"glitch":              NewGlitchFilter(),
		"glow":                NewGlowFilter(),
		"godray":              NewGodrayFilter(),
		"grayscale":           NewGrayscaleFilter(),
		"hsl adjustment":      NewHslAdjustmentFilter(),
		"kawase blur":         NewKawaseBlurFilter(),
		"motion blur":         NewMotionBlurFilter(),
		"multi color replace": NewMultiColorReplaceFilter(),
		"old film":            NewOldFilmFilter(),
		"outline":             NewOutlineFilter(),
		"pixelate":            NewPixelateFilter(),
		"radial blur":         NewRadialBlurFilter(),
		"reflection":          NewReflectionFilter(),
		"rgb split":           NewRGBSplitFilter(),
		"shockwave":           NewShockwaveFilter(),
		"simple lightmap":     lightmap,
		"simplex noise":       NewSimplexNoiseFilter(),
		"tilt shift":          NewTiltShiftFilter(),
		"twist":               NewTwistFilter(),
		"zoom blur":           NewZoomBlurFilter(),
	}
}

func TestDefaults(t *testing.T) {
	t.Run("blur", func(t *testing.T) {
		f := NewBlurFilter()
		d := DefaultBlurOptions()
		assert.Equal(t, d.Strength.X, f.BlurX())
		assert.Equal(t, d.Strength.Y, f.BlurY())
		assert.Equal(t, d.Quality, f.Quality())
		assert.Equal(t, d.KernelSize, f.KernelSize())
	})
	t.Run("adjustment", func(t *testing.T) {
		f := NewAdjustmentFilter()
		assert.Equal(t, DefaultAdjustmentOptions().Gamma, f.Gamma().Get())
	})
	t.Run("color overlay", func(t *testing.T) {
		f := NewColorOverlayFilter()
		d := DefaultColorOverlayOptions()
		assert.Equal(t, d.Color, f.Color())
		assert.Equal(t, d.Alpha, f.Alpha().Get())
	})
	t.Run("dot", func(t *testing.T) {
		f := NewDotFilter()
		d := DefaultDotOptions()
		assert.Equal(t, d.Scale, f.Scale().Get())
		assert.Equal(t, d.Angle, f.Angle().Get())
		assert.Equal(t, d.Grayscale, f.Grayscale())
	})
	t.Run("emboss", func(t *testing.T) {
		assert.Equal(t, DefaultEmbossOptions().Strength, NewEmbossFilter().Strength().Get())
	})
	t.Run("pixelate", func(t *testing.T) {
		assert.Equal(t, DefaultPixelateOptions().Size, NewPixelateFilter().Size().Point())
	})
	t.Run("twist", func(t *testing.T) {
		f := NewTwistFilter()
		d := DefaultTwistOptions()
		assert.Equal(t, d.Radius, f.Radius().Get())
		assert.Equal(t, d.Angle, f.Angle().Get())
		assert.Equal(t, d.Padding, f.Padding())
	})
	t.Run("motion blur", func(t *testing.T) {
		f := NewMotionBlurFilter()
		assert.Equal(t, DefaultMotionBlurOptions().KernelSize, f.KernelSize())
		assert.True(t, f.Velocity().Point().IsZero())
	})
	t.Run("kawase blur", func(t *testing.T) {
		f := NewKawaseBlurFilter()
		d := DefaultKawaseBlurOptions()
		assert.Equal(t, d.Strength, f.Strength())
		assert.Equal(t, d.Quality, f.Quality())
		require.Len(t, f.Kernels(), d.Quality)
		assert.Equal(t, d.Strength, f.Kernels()[0])
		assert.Equal(t, d.PixelSize, f.PixelSize())
	})
	t.Run("glow", func(t *testing.T) {
		f := NewGlowFilter()
		d := DefaultGlowOptions()
		assert.Equal(t, int(d.Distance), f.Distance())
		assert.Equal(t, d.OuterStrength, f.OuterStrength().Get())
		assert.Equal(t, d.Color, f.Color())
		assert.InDelta(t, d.Distance, f.Padding(), 1e-6)
	})
	t.Run("every filter", func(t *testing.T) {
		for name, f := range allFilters(t) {
			assert.True(t, f.Enabled(), name)
			assert.GreaterOrEqual(t, f.Padding(), float32(0), name)
		}
	})
}

// defaultCase pairs a property read from a freshly constructed filter with
// the documented default it must equal.
type defaultCase struct {
	prop      string
	got, want any
}

func TestDefaults_AllFilters(t *testing.T) {
	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	defer lut.Destroy()

	tests := map[string]func() []defaultCase{
		"adjustment": func() []defaultCase {
			f, d := NewAdjustmentFilter(), DefaultAdjustmentOptions()
			return []defaultCase{
				{"gamma", f.Gamma().Get(), d.Gamma},
				{"saturation", f.Saturation().Get(), d.Saturation},
				{"contrast", f.Contrast().Get(), d.Contrast},
				{"brightness", f.Brightness().Get(), d.Brightness},
				{"red", f.Red().Get(), d.Red},
				{"green", f.Green().Get(), d.Green},
				{"blue", f.Blue().Get(), d.Blue},
				{"alpha", f.Alpha().Get(), d.Alpha},
			}
		},
		"advanced bloom": func() []defaultCase {
			f, d := NewAdvancedBloomFilter(), DefaultAdvancedBloomOptions()
			return []defaultCase{
				{"threshold", f.Threshold().Get(), d.Threshold},
				{"bloom scale", f.BloomScale().Get(), d.BloomScale},
				{"brightness", f.Brightness().Get(), d.Brightness},
				{"blur", f.Blur(), d.Blur},
				{"quality", f.Quality(), d.Quality},
				{"pixel size", f.PixelSize(), d.PixelSize},
			}
		},
		"ascii": func() []defaultCase {
			return []defaultCase{{"size", NewAsciiFilter().Size().Get(), DefaultAsciiOptions().Size}}
		},
		"bevel": func() []defaultCase {
			f, d := NewBevelFilter(), DefaultBevelOptions()
			return []defaultCase{
				{"rotation", f.Rotation(), d.Rotation},
				{"thickness", f.Thickness(), d.Thickness},
				{"light color", f.LightColor(), d.LightColor},
				{"light alpha", f.LightAlpha().Get(), d.LightAlpha},
				{"shadow color", f.ShadowColor(), d.ShadowColor},
				{"shadow alpha", f.ShadowAlpha().Get(), d.ShadowAlpha},
			}
		},
		"bloom": func() []defaultCase {
			f, d := NewBloomFilter(), DefaultBloomOptions()
			return []defaultCase{
				{"blur x", f.BlurX(), d.Blur.X},
				{"blur y", f.BlurY(), d.Blur.Y},
				{"quality", f.Quality(), d.Quality},
				{"resolution", f.Resolution(), d.Resolution},
				{"kernel size", f.KernelSize(), d.KernelSize},
			}
		},
		"bulge pinch": func() []defaultCase {
			f, d := NewBulgePinchFilter(), DefaultBulgePinchOptions()
			return []defaultCase{
				{"center", f.Center().Point(), d.Center},
				{"radius", f.Radius(), d.Radius},
				{"strength", f.Strength(), d.Strength},
			}
		},
		"color gradient": func() []defaultCase {
			f, d := NewColorGradientFilter(), DefaultColorGradientOptions()
			return []defaultCase{
				{"type", f.Type(), d.Type},
				{"stops", f.Stops(), d.Stops},
				{"angle", f.Angle().Get(), d.Angle},
				{"alpha", f.Alpha().Get(), d.Alpha},
				{"max colors", f.MaxColors(), d.MaxColors},
				{"replace", f.Replace(), d.Replace},
			}
		},
		"color map": func() []defaultCase {
			f, err := NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = lut })
			require.NoError(t, err)
			d := DefaultColorMapOptions()
			return []defaultCase{
				{"nearest", f.Nearest(), d.Nearest},
				{"mix", f.Mix().Get(), d.Mix},
			}
		},
		"color replace": func() []defaultCase {
			f, d := NewColorReplaceFilter(), DefaultColorReplaceOptions()
			return []defaultCase{
				{"original color", f.OriginalColor(), d.OriginalColor},
				{"target color", f.TargetColor(), d.TargetColor},
				{"tolerance", f.Tolerance().Get(), d.Tolerance},
			}
		},
		"convolution": func() []defaultCase {
			f, d := NewConvolutionFilter(), DefaultConvolutionOptions()
			return []defaultCase{
				{"matrix", f.Matrix().Values(), d.Matrix},
				{"width", f.Width(), d.Width},
				{"height", f.Height(), d.Height},
			}
		},
		"crt": func() []defaultCase {
			f, d := NewCRTFilter(), DefaultCRTOptions()
			return []defaultCase{
				{"curvature", f.Curvature().Get(), d.Curvature},
				{"line width", f.LineWidth().Get(), d.LineWidth},
				{"line contrast", f.LineContrast().Get(), d.LineContrast},
				{"vertical line", f.VerticalLine(), d.VerticalLine},
				{"noise", f.Noise().Get(), d.Noise},
				{"noise size", f.NoiseSize().Get(), d.NoiseSize},
				{"vignetting", f.Vignetting().Get(), d.Vignetting},
				{"vignetting alpha", f.VignettingAlpha().Get(), d.VignettingAlpha},
				{"vignetting blur", f.VignettingBlur().Get(), d.VignettingBlur},
				{"seed", f.Seed().Get(), d.Seed},
				{"time", f.Time().Get(), d.Time},
			}
		},
		"drop shadow": func() []defaultCase {
			f, d := NewDropShadowFilter(), DefaultDropShadowOptions()
			return []defaultCase{
				{"offset", f.Offset(), d.Offset},
				{"color", f.Color(), d.Color},
				{"alpha", f.Alpha().Get(), d.Alpha},
				{"shadow only", f.ShadowOnly(), d.ShadowOnly},
				{"blur", f.Blur(), d.Blur},
				{"quality", f.Quality(), d.Quality},
				{"pixel size", f.PixelSize(), d.PixelSize},
			}
		},
		"glitch": func() []defaultCase {
			f, d := NewGlitchFilter(), DefaultGlitchOptions()
			defer f.Destroy()
			return []defaultCase{
				{"slices", f.Slices(), d.Slices},
				{"offset", f.Offset().Get(), d.Offset},
				{"direction", f.Direction(), d.Direction},
				{"fill mode", f.FillMode(), d.FillMode},
				{"red", f.Red().Point(), d.Red},
				{"green", f.Green().Point(), d.Green},
				{"blue", f.Blue().Point(), d.Blue},
			}
		},
		"glow": func() []defaultCase {
			f, d := NewGlowFilter(), DefaultGlowOptions()
			return []defaultCase{
				{"inner strength", f.InnerStrength().Get(), d.InnerStrength},
				{"alpha", f.Alpha().Get(), d.Alpha},
				{"knockout", f.Knockout(), d.Knockout},
			}
		},
		"godray": func() []defaultCase {
			f, d := NewGodrayFilter(), DefaultGodrayOptions()
			return []defaultCase{
				{"angle", f.Angle(), d.Angle},
				{"gain", f.Gain().Get(), d.Gain},
				{"lacunarity", f.Lacunarity().Get(), d.Lacunarity},
				{"parallel", f.Parallel(), d.Parallel},
				{"time", f.Time().Get(), d.Time},
				{"center", f.Center(), d.Center},
				{"alpha", f.Alpha().Get(), d.Alpha},
			}
		},
		"hsl adjustment": func() []defaultCase {
			f, d := NewHslAdjustmentFilter(), DefaultHslAdjustmentOptions()
			return []defaultCase{
				{"hue", f.Hue(), d.Hue},
				{"saturation", f.Saturation(), d.Saturation},
				{"lightness", f.Lightness(), d.Lightness},
				{"colorize", f.Colorize(), d.Colorize},
				{"alpha", f.Alpha().Get(), d.Alpha},
			}
		},
		"kawase blur": func() []defaultCase {
			f, d := NewKawaseBlurFilter(), DefaultKawaseBlurOptions()
			return []defaultCase{
				{"clamp", f.Clamp(), d.Clamp},
			}
		},
		"motion blur": func() []defaultCase {
			f, d := NewMotionBlurFilter(), DefaultMotionBlurOptions()
			return []defaultCase{
				{"velocity", f.Velocity().Point(), d.Velocity},
				{"offset", f.Offset().Get(), d.Offset},
			}
		},
		"multi color replace": func() []defaultCase {
			f, d := NewMultiColorReplaceFilter(), DefaultMultiColorReplaceOptions()
			return []defaultCase{
				{"replacements", len(f.Replacements()), len(d.Replacements)},
				{"tolerance", f.Tolerance().Get(), d.Tolerance},
			}
		},
		"old film": func() []defaultCase {
			f, d := NewOldFilmFilter(), DefaultOldFilmOptions()
			return []defaultCase{
				{"sepia", f.Sepia().Get(), d.Sepia},
				{"noise", f.Noise().Get(), d.Noise},
				{"noise size", f.NoiseSize().Get(), d.NoiseSize},
				{"scratch", f.Scratch().Get(), d.Scratch},
				{"scratch density", f.ScratchDensity().Get(), d.ScratchDensity},
				{"scratch width", f.ScratchWidth().Get(), d.ScratchWidth},
				{"vignetting", f.Vignetting().Get(), d.Vignetting},
				{"vignetting alpha", f.VignettingAlpha().Get(), d.VignettingAlpha},
				{"vignetting blur", f.VignettingBlur().Get(), d.VignettingBlur},
				{"seed", f.Seed().Get(), d.Seed},
			}
		},
		"outline": func() []defaultCase {
			f, d := NewOutlineFilter(), DefaultOutlineOptions()
			return []defaultCase{
				{"thickness", f.Thickness(), d.Thickness},
				{"color", f.Color(), d.Color},
				{"quality", f.Quality(), d.Quality},
				{"alpha", f.Alpha().Get(), d.Alpha},
				{"knockout", f.Knockout(), d.Knockout},
			}
		},
		"radial blur": func() []defaultCase {
			f, d := NewRadialBlurFilter(), DefaultRadialBlurOptions()
			return []defaultCase{
				{"angle", f.Angle(), d.Angle},
				{"center", f.Center().Point(), d.Center},
				{"kernel size", f.KernelSize(), d.KernelSize},
				{"radius", f.Radius().Get(), d.Radius},
			}
		},
		"reflection": func() []defaultCase {
			f, d := NewReflectionFilter(), DefaultReflectionOptions()
			return []defaultCase{
				{"mirror", f.Mirror(), d.Mirror},
				{"boundary", f.Boundary().Get(), d.Boundary},
				{"amplitude", f.Amplitude().Point(), d.Amplitude},
				{"wave length", f.WaveLength().Point(), d.WaveLength},
				{"alpha", f.Alpha().Point(), d.Alpha},
				{"time", f.Time().Get(), d.Time},
			}
		},
		"rgb split": func() []defaultCase {
			f, d := NewRGBSplitFilter(), DefaultRGBSplitOptions()
			return []defaultCase{
				{"red", f.Red().Point(), d.Red},
				{"green", f.Green().Point(), d.Green},
				{"blue", f.Blue().Point(), d.Blue},
			}
		},
		"shockwave": func() []defaultCase {
			f, d := NewShockwaveFilter(), DefaultShockwaveOptions()
			return []defaultCase{
				{"center", f.Center().Point(), d.Center},
				{"amplitude", f.Amplitude().Get(), d.Amplitude},
				{"wavelength", f.Wavelength().Get(), d.Wavelength},
				{"brightness", f.Brightness().Get(), d.Brightness},
				{"speed", f.Speed().Get(), d.Speed},
				{"radius", f.Radius().Get(), d.Radius},
				{"time", f.Time().Get(), d.Time},
			}
		},
		"simple lightmap": func() []defaultCase {
			f, err := NewSimpleLightmapFilter(func(o *SimpleLightmapOptions) { o.LightMap = lut })
			require.NoError(t, err)
			d := DefaultSimpleLightmapOptions()
			return []defaultCase{
				{"color", f.Color(), d.Color},
				{"alpha", f.Alpha(), d.Alpha},
			}
		},
		"simplex noise": func() []defaultCase {
			f, d := NewSimplexNoiseFilter(), DefaultSimplexNoiseOptions()
			return []defaultCase{
				{"strength", f.Strength().Get(), d.Strength},
				{"noise scale", f.NoiseScale().Get(), d.NoiseScale},
				{"step", f.Step().Get(), d.Step},
				{"offset x", f.OffsetX().Get(), d.OffsetX},
				{"offset y", f.OffsetY().Get(), d.OffsetY},
				{"offset z", f.OffsetZ().Get(), d.OffsetZ},
			}
		},
		"tilt shift": func() []defaultCase {
			f, d := NewTiltShiftFilter(), DefaultTiltShiftOptions()
			return []defaultCase{
				{"blur", f.Blur(), d.Blur},
				{"gradient blur", f.GradientBlur(), d.GradientBlur},
				{"start", f.Start(), d.Start},
				{"end", f.End(), d.End},
			}
		},
		"twist": func() []defaultCase {
			f, d := NewTwistFilter(), DefaultTwistOptions()
			return []defaultCase{
				{"offset", f.Offset().Point(), d.Offset},
			}
		},
		"zoom blur": func() []defaultCase {
			f, d := NewZoomBlurFilter(), DefaultZoomBlurOptions()
			return []defaultCase{
				{"strength", f.Strength().Get(), d.Strength},
				{"center", f.Center().Point(), d.Center},
				{"inner radius", f.InnerRadius().Get(), d.InnerRadius},
				{"radius", f.Radius().Get(), d.Radius},
				{"max kernel size", f.MaxKernelSize(), d.MaxKernelSize},
			}
		},
	}
	for name, cases := range tests {
		t.Run(name, func(t *testing.T) {
			for _, c := range cases() {
				assert.Equal(t, c.want, c.got, c.prop)
			}
		})
	}
}

func TestRadialBlur_ActiveKernelSize(t *testing.T) {
	f := NewRadialBlurFilter(func(o *RadialBlurOptions) { o.Angle = 0 })
	assert.Equal(t, 0, f.ActiveKernelSize())
	assert.Equal(t, 5, f.KernelSize())

	f = NewRadialBlurFilter(func(o *RadialBlurOptions) { o.Angle = 10 })
	assert.Equal(t, 5, f.ActiveKernelSize())

	f.SetAngle(0)
	assert.Equal(t, 0, f.ActiveKernelSize())
	f.SetAngle(10)
	f.SetKernelSize(9)
	assert.Equal(t, 9, f.ActiveKernelSize())
}

func TestBulgePinch_RadiusBuffer(t *testing.T) {
	f := NewBulgePinchFilter(func(o *BulgePinchOptions) {
		o.Radius = 100
		o.Strength = 1
	})
	assert.Equal(t, float32(100), f.Radius())

	f.SetRadius(50)
	assert.Equal(t, float32(50), f.Radius())
	off, ok := f.Uniforms().Layout().Offset("uRadius")
	require.True(t, ok)
	assert.Equal(t, float32(50), f.Uniforms().Data()[off/4])

	f.SetStrength(3)
	assert.Equal(t, float32(1), f.Strength(), "strength is clamped")
}

func TestConfigurationError(t *testing.T) {
	_, err := NewColorMapFilter()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	var cfg *ConfigurationError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "ColorMapFilter", cfg.Filter)

	_, err = NewSimpleLightmapFilter()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestConfigurationError_TypedNilTexture(t *testing.T) {
	var none *ImageTexture

	_, err := NewColorMapFilter(Legacy[ColorMapOptions](none))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = none })
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewSimpleLightmapFilter(Legacy[SimpleLightmapOptions](none))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewSimpleLightmapFilter(func(o *SimpleLightmapOptions) { o.LightMap = none })
	assert.ErrorIs(t, err, ErrConfiguration)

	_, ok := Positional{none}.Texture(0)
	assert.False(t, ok)

	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	defer lut.Destroy()
	f, err := NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = lut })
	require.NoError(t, err)
	f.SetColorMap(none)
	assert.Nil(t, f.ColorMap())
}

func TestDestroy(t *testing.T) {
	for name, f := range allFilters(t) {
		f.Destroy()
		f.Destroy()
		err := f.Apply(nil, nil, nil, true)
		assert.ErrorIs(t, err, ErrDestroyed, name)
	}
}

func TestDestroy_KeepsCallerTextures(t *testing.T) {
	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	f, err := NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = lut })
	require.NoError(t, err)
	f.Destroy()
	assert.False(t, lut.Destroyed())
	assert.Nil(t, f.ColorMap())

	g := NewGlitchFilter()
	owned := g.DisplacementMap()
	g.Destroy()
	assert.True(t, owned.Destroyed())
}

func TestImageTexture(t *testing.T) {
	tex := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	assert.Equal(t, 3, tex.Width())
	assert.Equal(t, 2, tex.Height())

	v := tex.Version()
	tex.Invalidate()
	assert.Greater(t, tex.Version(), v)

	calls := 0
	tex.OnDestroy(func() { calls++ })
	tex.Destroy()
	tex.Destroy()
	assert.Equal(t, 1, calls)
	assert.True(t, tex.Destroyed())

	tex.OnDestroy(func() { calls++ })
	assert.Equal(t, 2, calls, "callbacks registered after Destroy run at once")
}

func TestGlitch_Sizes(t *testing.T) {
	for _, average := range []bool{false, true} {
		f := NewGlitchFilter(func(o *GlitchOptions) {
			o.Slices = 8
			o.Average = average
		})
		require.Len(t, f.Sizes(), 8)
		var sum float32
		for _, s := range f.Sizes() {
			sum += s
		}
		assert.InDelta(t, 1, sum, 1e-4)
		for _, o := range f.Offsets() {
			assert.LessOrEqual(t, o, float32(1))
			assert.GreaterOrEqual(t, o, float32(-1))
		}
		f.Destroy()
	}
}

func TestColorGradient_SortsStops(t *testing.T) {
	f := NewColorGradientFilter(func(o *ColorGradientOptions) {
		o.Stops = []ColorStop{
			{Offset: 1, Color: Hex(0x0000ff)},
			{Offset: 0, Color: Hex(0xff0000)},
			{Offset: 0.5, Color: Hex(0x00ff00)},
		}
	})
	stops := f.Stops()
	require.Len(t, stops, 3)
	assert.Equal(t, []float32{0, 0.5, 1}, []float32{stops[0].Offset, stops[1].Offset, stops[2].Offset})
	assert.Equal(t, float32(3), f.Uniforms().Vec2("uCounts").X())
}

func TestEnumText(t *testing.T) {
	var g GradientType
	require.NoError(t, g.UnmarshalText([]byte("conic")))
	assert.Equal(t, GradientConic, g)
	assert.Error(t, g.UnmarshalText([]byte("spiral")))

	var m FillMode
	require.NoError(t, m.UnmarshalText([]byte("mirror")))
	assert.Equal(t, FillMirror, m)
	text, err := FillClamp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "clamp", string(text))
	assert.Equal(t, "unknown", FillMode(42).String())
}
