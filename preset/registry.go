package preset

import (
	"slices"

	"github.com/gogpu/filters"
)

// builder decodes an entry's options and constructs its filter. tex is the
// entry's named texture, or nil.
type builder func(decode decodeFunc, tex filters.Texture) (filters.Filter, error)

// with builds a filter whose options record decodes over defaults.
func with[T any, F filters.Filter](defaults func() T, construct func(...filters.Option[T]) F) builder {
	return func(decode decodeFunc, _ filters.Texture) (filters.Filter, error) {
		o := defaults()
		if err := decode(&o); err != nil {
			return nil, err
		}
		return construct(filters.Using(o)), nil
	}
}

// plain builds a filter without options.
func plain[F filters.Filter](construct func() F) builder {
	return func(decodeFunc, filters.Texture) (filters.Filter, error) {
		return construct(), nil
	}
}

var registry = map[string]builder{
	"adjustment":     with(filters.DefaultAdjustmentOptions, filters.NewAdjustmentFilter),
	"advanced_bloom": with(filters.DefaultAdvancedBloomOptions, filters.NewAdvancedBloomFilter),
	"alpha": func(decode decodeFunc, _ filters.Texture) (filters.Filter, error) {
		o := struct {
			Alpha float32 `toml:"alpha" yaml:"alpha"`
		}{Alpha: 1}
		if err := decode(&o); err != nil {
			return nil, err
		}
		return filters.NewAlphaFilter(o.Alpha), nil
	},
	"ascii":          with(filters.DefaultAsciiOptions, filters.NewAsciiFilter),
	"backdrop_blur":  with(filters.DefaultBlurOptions, filters.NewBackdropBlurFilter),
	"bevel":          with(filters.DefaultBevelOptions, filters.NewBevelFilter),
	"bloom":          with(filters.DefaultBloomOptions, filters.NewBloomFilter),
	"blur":           with(filters.DefaultBlurOptions, filters.NewBlurFilter),
	"bulge_pinch":    with(filters.DefaultBulgePinchOptions, filters.NewBulgePinchFilter),
	"color_gradient": with(filters.DefaultColorGradientOptions, filters.NewColorGradientFilter),
	"color_map": func(decode decodeFunc, tex filters.Texture) (filters.Filter, error) {
		o := filters.DefaultColorMapOptions()
		if err := decode(&o); err != nil {
			return nil, err
		}
		o.ColorMap = tex
		return filters.NewColorMapFilter(filters.Using(o))
	},
	"color_overlay":       with(filters.DefaultColorOverlayOptions, filters.NewColorOverlayFilter),
	"color_replace":       with(filters.DefaultColorReplaceOptions, filters.NewColorReplaceFilter),
	"convolution":         with(filters.DefaultConvolutionOptions, filters.NewConvolutionFilter),
	"cross_hatch":         plain(filters.NewCrossHatchFilter),
	"crt":                 with(filters.DefaultCRTOptions, filters.NewCRTFilter),
	"dot":                 with(filters.DefaultDotOptions, filters.NewDotFilter),
	"drop_shadow":         with(filters.DefaultDropShadowOptions, filters.NewDropShadowFilter),
	"emboss":              with(filters.DefaultEmbossOptions, filters.NewEmbossFilter),
	"glitch":              with(filters.DefaultGlitchOptions, filters.NewGlitchFilter),
	"glow":                with(filters.DefaultGlowOptions, filters.NewGlowFilter),
	"godray":              with(filters.DefaultGodrayOptions, filters.NewGodrayFilter),
	"grayscale":           plain(filters.NewGrayscaleFilter),
	"hsl_adjustment":      with(filters.DefaultHslAdjustmentOptions, filters.NewHslAdjustmentFilter),
	"kawase_blur":         with(filters.DefaultKawaseBlurOptions, filters.NewKawaseBlurFilter),
	"motion_blur":         with(filters.DefaultMotionBlurOptions, filters.NewMotionBlurFilter),
	"multi_color_replace": with(filters.DefaultMultiColorReplaceOptions, filters.NewMultiColorReplaceFilter),
	"old_film":            with(filters.DefaultOldFilmOptions, filters.NewOldFilmFilter),
	"outline":             with(filters.DefaultOutlineOptions, filters.NewOutlineFilter),
	"pixelate":            with(filters.DefaultPixelateOptions, filters.NewPixelateFilter),
	"radial_blur":         with(filters.DefaultRadialBlurOptions, filters.NewRadialBlurFilter),
	"reflection":          with(filters.DefaultReflectionOptions, filters.NewReflectionFilter),
	"rgb_split":           with(filters.DefaultRGBSplitOptions, filters.NewRGBSplitFilter),
	"shockwave":           with(filters.DefaultShockwaveOptions, filters.NewShockwaveFilter),
	"simple_lightmap": func(decode decodeFunc, tex filters.Texture) (filters.Filter, error) {
		o := filters.DefaultSimpleLightmapOptions()
		if err := decode(&o); err != nil {
			return nil, err
		}
		o.LightMap = tex
		return filters.NewSimpleLightmapFilter(filters.Using(o))
	},
	"simplex_noise": with(filters.DefaultSimplexNoiseOptions, filters.NewSimplexNoiseFilter),
	"tilt_shift":    with(filters.DefaultTiltShiftOptions, filters.NewTiltShiftFilter),
	"twist":         with(filters.DefaultTwistOptions, filters.NewTwistFilter),
	"zoom_blur":     with(filters.DefaultZoomBlurOptions, filters.NewZoomBlurFilter),
}

// Names returns the filter names a preset may use, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
