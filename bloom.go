package filters

import "github.com/chewxy/math32"

// BloomOptions configures BloomFilter.
type BloomOptions struct {
	// Blur is the strength per axis.
	Blur    Point `toml:"blur" yaml:"blur"`
	Quality int   `toml:"quality" yaml:"quality"`
	// Resolution is recorded for hosts that render filters at a reduced
	// resolution.
	Resolution float32 `toml:"resolution" yaml:"resolution"`
	KernelSize int     `toml:"kernel_size" yaml:"kernel_size"`
}

// DefaultBloomOptions returns the documented defaults.
func DefaultBloomOptions() BloomOptions {
	return BloomOptions{Blur: Broadcast(2), Quality: 4, Resolution: 1, KernelSize: 5}
}

// fromPositional maps (blur, quality, resolution, kernelSize). Blur may be
// a number or any point shape.
func (o *BloomOptions) fromPositional(a Positional) {
	if v, ok := a.Point(0); ok {
		o.Blur = v
	}
	if v, ok := a.Int(1); ok {
		o.Quality = v
	}
	if v, ok := a.Float(2); ok {
		o.Resolution = v
	}
	if v, ok := a.Int(3); ok {
		o.KernelSize = v
	}
}

// BloomFilter draws the input, then a blurred copy of it on top.
type BloomFilter struct {
	Base

	original   *AlphaFilter
	blurX      *BlurPass
	blurY      *BlurPass
	resolution float32
}

// NewBloomFilter creates a bloom filter.
func NewBloomFilter(opts ...Option[BloomOptions]) *BloomFilter {
	o := Resolve(DefaultBloomOptions(), opts...)
	f := &BloomFilter{
		original:   NewAlphaFilter(1),
		blurX:      NewBlurPass(true, o.Blur.X, o.Quality, o.KernelSize),
		blurY:      NewBlurPass(false, o.Blur.Y, o.Quality, o.KernelSize),
		resolution: o.Resolution,
	}
	f.updatePadding()
	return f
}

// Blur returns the horizontal strength.
func (f *BloomFilter) Blur() float32 { return f.blurX.Strength() }

// SetBlur sets both axes.
func (f *BloomFilter) SetBlur(v float32) {
	f.blurX.SetStrength(v)
	f.blurY.SetStrength(v)
	f.updatePadding()
}

// BlurX returns the horizontal strength.
func (f *BloomFilter) BlurX() float32 { return f.blurX.Strength() }

// SetBlurX sets the horizontal strength.
func (f *BloomFilter) SetBlurX(v float32) {
	f.blurX.SetStrength(v)
	f.updatePadding()
}

// BlurY returns the vertical strength.
func (f *BloomFilter) BlurY() float32 { return f.blurY.Strength() }

// SetBlurY sets the vertical strength.
func (f *BloomFilter) SetBlurY(v float32) {
	f.blurY.SetStrength(v)
	f.updatePadding()
}

// Quality returns the draws per axis.
func (f *BloomFilter) Quality() int { return f.blurX.Quality() }

// SetQuality sets the draws per axis.
func (f *BloomFilter) SetQuality(n int) {
	f.blurX.SetQuality(n)
	f.blurY.SetQuality(n)
}

// KernelSize returns the tap count.
func (f *BloomFilter) KernelSize() int { return f.blurX.KernelSize() }

// Resolution returns the recorded resolution.
func (f *BloomFilter) Resolution() float32 { return f.resolution }

func (f *BloomFilter) updatePadding() {
	f.padding = max(math32.Abs(f.blurX.Strength()), math32.Abs(f.blurY.Strength())) * 2
}

// Apply copies the input to output, blurs it horizontally into a pooled
// surface and composites the vertical pass over output.
func (f *BloomFilter) Apply(sys System, input, output Surface, clear bool) error {
	if f.destroyed {
		return ErrDestroyed
	}
	if err := f.original.Apply(sys, input, output, clear); err != nil {
		return err
	}
	return withSurface(sys, input, func(tmp Surface) error {
		if err := f.blurX.Apply(sys, input, tmp, true); err != nil {
			return err
		}
		return f.blurY.Apply(sys, tmp, output, false)
	})
}

// Destroy releases the inner passes.
func (f *BloomFilter) Destroy() {
	f.Base.Destroy()
	f.original.Destroy()
	f.blurX.Destroy()
	f.blurY.Destroy()
}
