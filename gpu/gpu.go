//go:build !nogpu

// Package gpu is the WebGPU HAL host for filters.
//
// A System draws every pass as a full-screen quad with the program's
// pipeline, binding the global block, the input texture and the filter's
// own uniforms and textures. Programs compile on first use to WGSL or, with
// WithBackend(filters.BackendSPIRV), to SPIR-V through naga.
//
// The device is supplied by the caller, either directly:
//
//	sys, err := gpu.New(device, queue)
//
// or from a shared provider such as a gogpu window:
//
//	sys, err := gpu.NewFromProvider(provider)
package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/filters"
	"github.com/gogpu/filters/internal/pool"
)

// ErrNoDevice is returned when no HAL device could be obtained.
var ErrNoDevice = errors.New("gpu: no HAL device")

// DefaultMaxPooled is how many idle surfaces of one size a System retains.
const DefaultMaxPooled = 4

// Option configures a System.
type Option func(*System)

// WithBackend selects the shader artifact handed to the device.
func WithBackend(b filters.Backend) Option {
	return func(s *System) {
		s.backend = b
	}
}

// WithMaxPooled sets how many idle surfaces of one size are retained.
func WithMaxPooled(n int) Option {
	return func(s *System) {
		s.maxPooled = n
	}
}

// System is a filters.System backed by a HAL device. It is not safe for
// concurrent use; ImageTexture destruction may happen on any goroutine.
type System struct {
	device  hal.Device
	queue   hal.Queue
	backend filters.Backend

	maxPooled int
	surfaces  *pool.Pool[image.Point, *Surface]

	globalLayout hal.BindGroupLayout
	globalBuf    hal.Buffer
	quad         hal.Buffer
	linear       hal.Sampler
	nearest      hal.Sampler
	blank        *Surface

	pipelines map[*filters.Program]*pipeline

	mu       sync.Mutex
	textures map[*filters.ImageTexture]*uploaded
	stale    []*Surface

	backdrop *Surface
}

// New creates a host on device and queue. The caller keeps ownership of
// both.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*System, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	s := &System{
		device:    device,
		queue:     queue,
		maxPooled: DefaultMaxPooled,
		pipelines: make(map[*filters.Program]*pipeline),
		textures:  make(map[*filters.ImageTexture]*uploaded),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.surfaces = pool.New(pool.Config[image.Point, *Surface]{
		MaxPerBucket: s.maxPooled,
		Create: func(size image.Point) (*Surface, error) {
			surf, err := s.newSurface(size.X, size.Y, "filters-pooled")
			if err != nil {
				return nil, err
			}
			surf.pooled = true
			return surf, nil
		},
		Drop: func(surf *Surface) { surf.destroy() },
	})
	if err := s.init(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// NewFromProvider creates a host on the HAL device behind provider. The
// provider, or the device it returns, must expose HalDevice() and HalQueue().
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*System, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	var hp halProvider
	if p, ok := provider.(halProvider); ok {
		hp = p
	} else if p, ok := provider.Device().(halProvider); ok {
		hp = p
	}
	if hp == nil {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types: %w", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device: %w", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue: %w", ErrNoDevice)
	}
	return New(device, queue, opts...)
}

// Backend returns the shader artifact kind in use.
func (s *System) Backend() filters.Backend { return s.backend }

func (s *System) init() error {
	var err error
	s.globalLayout, err = s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "filters-global-bgl",
		Entries: filters.GlobalBindLayout(),
	})
	if err != nil {
		return fmt.Errorf("gpu: create global bind group layout: %w", err)
	}

	s.globalBuf, err = s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filters-global-uniforms",
		Size:  uint64(filters.GlobalLayout.Size()),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create global uniform buffer: %w", err)
	}

	quad := []float32{0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 1}
	quadBytes := make([]byte, len(quad)*4)
	for i, v := range quad {
		binary.LittleEndian.PutUint32(quadBytes[i*4:], math.Float32bits(v))
	}
	s.quad, err = s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filters-quad",
		Size:  uint64(len(quadBytes)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad buffer: %w", err)
	}
	if err := s.queue.WriteBuffer(s.quad, 0, quadBytes); err != nil {
		return fmt.Errorf("gpu: upload quad: %w", err)
	}

	if s.linear, err = s.createSampler("filters-linear", gputypes.FilterModeLinear); err != nil {
		return err
	}
	if s.nearest, err = s.createSampler("filters-nearest", gputypes.FilterModeNearest); err != nil {
		return err
	}

	if s.blank, err = s.newSurface(1, 1, "filters-blank"); err != nil {
		return err
	}
	return s.write(s.blank, image.NewRGBA(image.Rect(0, 0, 1, 1)))
}

func (s *System) createSampler(label string, mode gputypes.FilterMode) (hal.Sampler, error) {
	smp, err := s.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    mode,
		MinFilter:    mode,
		MipmapFilter: mode,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler %s: %w", label, err)
	}
	return smp, nil
}

// SetBackdrop sets the surface BackdropBlurFilter samples. Nil removes it.
// The System does not take ownership.
func (s *System) SetBackdrop(surf *Surface) { s.backdrop = surf }

// Backdrop returns the backdrop when one is set with the size of output.
func (s *System) Backdrop(output filters.Surface) (filters.Surface, bool) {
	b := s.backdrop
	if b == nil || b.Width() != output.Width() || b.Height() != output.Height() {
		return nil, false
	}
	return b, true
}

// GetSameSizeSurface acquires a pooled surface the size of like. Its
// contents are undefined until it is drawn with clear set.
func (s *System) GetSameSizeSurface(like filters.Surface) (filters.Surface, error) {
	surf, err := s.surfaces.Get(image.Pt(like.Width(), like.Height()))
	if err != nil {
		return nil, err
	}
	surf.checkedOut = true
	return surf, nil
}

// ReturnSurface gives a surface acquired with GetSameSizeSurface back.
func (s *System) ReturnSurface(sf filters.Surface) {
	surf, ok := sf.(*Surface)
	if !ok || surf.owner != s || !surf.pooled {
		filters.Logger().Warn("gpu: returned surface was not pooled by this host")
		return
	}
	if !surf.checkedOut {
		filters.Logger().Warn("gpu: surface returned twice")
		return
	}
	surf.checkedOut = false
	s.surfaces.Put(image.Pt(surf.Width(), surf.Height()), surf)
}

// Outstanding returns how many pooled surfaces are checked out.
func (s *System) Outstanding() int { return s.surfaces.Outstanding() }

// Destroy releases every resource the System created. Surfaces handed
// out by NewSurface and Upload must be destroyed by the caller first.
func (s *System) Destroy() {
	if s.device == nil {
		return
	}
	_ = s.device.WaitIdle()
	if s.surfaces != nil {
		s.surfaces.Clear()
	}
	for _, p := range s.pipelines {
		p.destroy(s.device)
	}
	clear(s.pipelines)

	s.mu.Lock()
	for _, u := range s.textures {
		u.surf.destroy()
	}
	clear(s.textures)
	stale := s.stale
	s.stale = nil
	s.mu.Unlock()
	for _, surf := range stale {
		surf.destroy()
	}

	if s.blank != nil {
		s.blank.destroy()
	}
	for _, smp := range []hal.Sampler{s.linear, s.nearest} {
		if smp != nil {
			s.device.DestroySampler(smp)
		}
	}
	for _, b := range []hal.Buffer{s.quad, s.globalBuf} {
		if b != nil {
			s.device.DestroyBuffer(b)
		}
	}
	if s.globalLayout != nil {
		s.device.DestroyBindGroupLayout(s.globalLayout)
	}
	s.device = nil
	s.queue = nil
}
