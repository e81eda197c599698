package filters

import (
	_ "embed"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/filters/internal/filter"
)

// AdjustmentOptions configures AdjustmentFilter. Every field is a
// multiplier where 1 leaves the image unchanged.
type AdjustmentOptions struct {
	Gamma      float32 `toml:"gamma" yaml:"gamma"`
	Saturation float32 `toml:"saturation" yaml:"saturation"`
	Contrast   float32 `toml:"contrast" yaml:"contrast"`
	Brightness float32 `toml:"brightness" yaml:"brightness"`
	Red        float32 `toml:"red" yaml:"red"`
	Green      float32 `toml:"green" yaml:"green"`
	Blue       float32 `toml:"blue" yaml:"blue"`
	Alpha      float32 `toml:"alpha" yaml:"alpha"`
}

// DefaultAdjustmentOptions returns the documented defaults.
func DefaultAdjustmentOptions() AdjustmentOptions {
	return AdjustmentOptions{
		Gamma: 1, Saturation: 1, Contrast: 1, Brightness: 1,
		Red: 1, Green: 1, Blue: 1, Alpha: 1,
	}
}

//go:embed shaders/adjustment.wgsl
var adjustmentSource string

var (
	adjustmentLayout = NewUniformLayout("AdjustmentUniforms",
		F32("uGamma"),
		F32("uContrast"),
		F32("uSaturation"),
		F32("uBrightness"),
		F32("uRed"),
		F32("uGreen"),
		F32("uBlue"),
		F32("uAlpha"),
	)
	adjustmentProgram = NewProgram("adjustment", adjustmentSource, adjustmentLayout)
)

// AdjustmentFilter adjusts gamma, contrast, saturation, brightness and
// per-channel gain in one pass.
type AdjustmentFilter struct {
	Base
}

// NewAdjustmentFilter creates an adjustment filter.
func NewAdjustmentFilter(opts ...Option[AdjustmentOptions]) *AdjustmentFilter {
	o := Resolve(DefaultAdjustmentOptions(), opts...)
	f := &AdjustmentFilter{Base: newBase(adjustmentProgram)}
	f.Gamma().Set(o.Gamma)
	f.Saturation().Set(o.Saturation)
	f.Contrast().Set(o.Contrast)
	f.Brightness().Set(o.Brightness)
	f.Red().Set(o.Red)
	f.Green().Set(o.Green)
	f.Blue().Set(o.Blue)
	f.Alpha().Set(o.Alpha)
	f.raster = f.rasterize
	return f
}

// Gamma is the gamma exponent divisor.
func (f *AdjustmentFilter) Gamma() Scalar { return f.uniforms.Scalar("uGamma") }

// Saturation is the saturation multiplier.
func (f *AdjustmentFilter) Saturation() Scalar { return f.uniforms.Scalar("uSaturation") }

// Contrast is the contrast multiplier.
func (f *AdjustmentFilter) Contrast() Scalar { return f.uniforms.Scalar("uContrast") }

// Brightness is the brightness multiplier.
func (f *AdjustmentFilter) Brightness() Scalar { return f.uniforms.Scalar("uBrightness") }

// Red is the red channel multiplier.
func (f *AdjustmentFilter) Red() Scalar { return f.uniforms.Scalar("uRed") }

// Green is the green channel multiplier.
func (f *AdjustmentFilter) Green() Scalar { return f.uniforms.Scalar("uGreen") }

// Blue is the blue channel multiplier.
func (f *AdjustmentFilter) Blue() Scalar { return f.uniforms.Scalar("uBlue") }

// Alpha is the overall opacity.
func (f *AdjustmentFilter) Alpha() Scalar { return f.uniforms.Scalar("uAlpha") }

func (f *AdjustmentFilter) rasterize(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
	gamma := f.Gamma().Get()
	sat, con, bri := f.Saturation().Get(), f.Contrast().Get(), f.Brightness().Get()
	gain := [3]float32{f.Red().Get(), f.Green().Get(), f.Blue().Get()}
	alpha := f.Alpha().Get()
	filter.Map(dst, src, func(r, g, b, a float32) (float32, float32, float32, float32) {
		if a > 0 {
			rgb := [3]float32{r, g, b}
			for i := range rgb {
				rgb[i] = math32.Pow(max(rgb[i], 0), 1/gamma)
			}
			gray := 0.2125*rgb[0] + 0.7154*rgb[1] + 0.0721*rgb[2]
			for i := range rgb {
				v := gray + (rgb[i]-gray)*sat
				v = 0.5 + (v-0.5)*con
				rgb[i] = v * gain[i] * bri
			}
			r, g, b = rgb[0], rgb[1], rgb[2]
		}
		return r, g, b, a * alpha
	})
}
