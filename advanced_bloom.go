package filters

import (
	_ "embed"
	"image"

	"github.com/gogpu/filters/internal/filter"
)

//go:embed shaders/extract_brightness.wgsl
var extractBrightnessSource string

var (
	extractBrightnessLayout  = NewUniformLayout("ExtractBrightnessUniforms", F32("uThreshold"))
	extractBrightnessProgram = NewProgram("extract-brightness", extractBrightnessSource, extractBrightnessLayout)
)

// ExtractBrightnessPass keeps pixels whose lightness exceeds a threshold
// and clears the rest.
type ExtractBrightnessPass struct {
	Base
}

// NewExtractBrightnessPass creates the pass.
func NewExtractBrightnessPass(threshold float32) *ExtractBrightnessPass {
	p := &ExtractBrightnessPass{Base: newBase(extractBrightnessProgram)}
	p.Threshold().Set(threshold)
	p.raster = func(dst, src *image.RGBA, _ func(Texture) *image.RGBA) {
		t := p.Threshold().Get()
		s := filter.NewSampler(src)
		filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
			r, g, b, a := s.At(x, y)
			if (max(r, g, b)+min(r, g, b))*0.5 > t {
				return r, g, b, a
			}
			return 0, 0, 0, 0
		})
	}
	return p
}

// Threshold is the lightness cut off.
func (p *ExtractBrightnessPass) Threshold() Scalar { return p.uniforms.Scalar("uThreshold") }

// AdvancedBloomOptions configures AdvancedBloomFilter.
type AdvancedBloomOptions struct {
	// Threshold is the lightness above which pixels bloom.
	Threshold float32 `toml:"threshold" yaml:"threshold"`
	// BloomScale multiplies the bloom contribution.
	BloomScale float32 `toml:"bloom_scale" yaml:"bloom_scale"`
	// Brightness multiplies the input.
	Brightness float32   `toml:"brightness" yaml:"brightness"`
	Blur       float32   `toml:"blur" yaml:"blur"`
	Quality    int       `toml:"quality" yaml:"quality"`
	Kernels    []float32 `toml:"kernels" yaml:"kernels"`
	PixelSize  Point     `toml:"pixel_size" yaml:"pixel_size"`
}

// DefaultAdvancedBloomOptions returns the documented defaults.
func DefaultAdvancedBloomOptions() AdvancedBloomOptions {
	return AdvancedBloomOptions{
		Threshold:  0.5,
		BloomScale: 1,
		Brightness: 1,
		Blur:       8,
		Quality:    4,
		PixelSize:  Broadcast(1),
	}
}

//go:embed shaders/advanced_bloom.wgsl
var advancedBloomSource string

var (
	advancedBloomLayout = NewUniformLayout("AdvancedBloomUniforms",
		F32("uBloomScale"),
		F32("uBrightness"),
	)
	advancedBloomProgram = NewProgram("advanced-bloom", advancedBloomSource, advancedBloomLayout, "bloomTexture")
)

// AdvancedBloomFilter extracts bright areas, blurs them and adds them back
// over the input.
type AdvancedBloomFilter struct {
	Base

	extract *ExtractBrightnessPass
	blur    *KawaseBlurFilter
}

// NewAdvancedBloomFilter creates an advanced bloom filter.
func NewAdvancedBloomFilter(opts ...Option[AdvancedBloomOptions]) *AdvancedBloomFilter {
	o := Resolve(DefaultAdvancedBloomOptions(), opts...)
	f := &AdvancedBloomFilter{
		Base:    newBase(advancedBloomProgram),
		extract: NewExtractBrightnessPass(o.Threshold),
		blur: NewKawaseBlurFilter(func(k *KawaseBlurOptions) {
			k.Strength = o.Blur
			k.Quality = o.Quality
			k.Kernels = o.Kernels
			k.PixelSize = o.PixelSize
		}),
	}
	f.BloomScale().Set(o.BloomScale)
	f.Brightness().Set(o.Brightness)
	f.padding = f.blur.Padding()
	f.raster = f.rasterize
	return f
}

// Threshold is the live lightness cut off of the extract pass.
func (f *AdvancedBloomFilter) Threshold() Scalar { return f.extract.Threshold() }

// BloomScale multiplies the bloom contribution.
func (f *AdvancedBloomFilter) BloomScale() Scalar { return f.uniforms.Scalar("uBloomScale") }

// Brightness multiplies the input.
func (f *AdvancedBloomFilter) Brightness() Scalar { return f.uniforms.Scalar("uBrightness") }

// Blur returns the bloom blur strength.
func (f *AdvancedBloomFilter) Blur() float32 { return f.blur.Strength() }

// SetBlur sets the bloom blur strength.
func (f *AdvancedBloomFilter) SetBlur(v float32) {
	f.blur.SetStrength(v)
	f.padding = f.blur.Padding()
}

// Quality returns the blur draw count.
func (f *AdvancedBloomFilter) Quality() int { return f.blur.Quality() }

// SetQuality sets the blur draw count.
func (f *AdvancedBloomFilter) SetQuality(n int) {
	f.blur.SetQuality(n)
	f.padding = f.blur.Padding()
}

// Kernels returns the blur offsets.
func (f *AdvancedBloomFilter) Kernels() []float32 { return f.blur.Kernels() }

// SetKernels sets explicit blur offsets.
func (f *AdvancedBloomFilter) SetKernels(k []float32) {
	f.blur.SetKernels(k)
	f.padding = f.blur.Padding()
}

// PixelSize returns the blur offset scale.
func (f *AdvancedBloomFilter) PixelSize() Point { return f.blur.PixelSize() }

// SetPixelSize sets the blur offset scale.
func (f *AdvancedBloomFilter) SetPixelSize(p Point) { f.blur.SetPixelSize(p) }

// Apply extracts into one pooled surface, blurs into a second and combines
// the input with the second into output.
func (f *AdvancedBloomFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	return withSurfaces(sys, input, func(bright, bloom Surface) error {
		if err := f.extract.Apply(sys, input, bright, true); err != nil {
			return err
		}
		if err := f.blur.Apply(sys, bright, bloom, true); err != nil {
			return err
		}
		f.setTexture("bloomTexture", bloom)
		defer f.setTexture("bloomTexture", nil)
		return sys.ApplyFilter(f, input, output, clear)
	})
}

func (f *AdvancedBloomFilter) rasterize(dst, src *image.RGBA, lookup func(Texture) *image.RGBA) {
	s := filter.NewSampler(src)
	bloom := filter.NewSampler(lookup(f.texture("bloomTexture")))
	scale, brightness := f.BloomScale().Get(), f.Brightness().Get()
	filter.Shade(dst, func(x, y float32) (float32, float32, float32, float32) {
		r, g, b, a := s.At(x, y)
		br, bg, bb, _ := bloom.At(x, y)
		return r*brightness + br*scale, g*brightness + bg*scale, b*brightness + bb*scale, a
	})
}

// Destroy releases the inner passes.
func (f *AdvancedBloomFilter) Destroy() {
	f.Base.Destroy()
	f.extract.Destroy()
	f.blur.Destroy()
}
