//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/filters"
)

// surfaceFormat is the format of every surface and uploaded texture.
const surfaceFormat = gputypes.TextureFormatRGBA8Unorm

// surfaceUsage lets a surface be drawn to, sampled, uploaded and read back.
const surfaceUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// Surface is an RGBA8 texture owned by one System. Pixels are
// premultiplied.
type Surface struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int

	owner  *System
	pooled bool
	usage  gputypes.TextureUsage

	// checkedOut is set while GetSameSizeSurface's caller holds the surface.
	checkedOut bool
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Texture returns the underlying HAL texture.
func (s *Surface) Texture() hal.Texture { return s.tex }

// View returns the texture view used for drawing and sampling.
func (s *Surface) View() hal.TextureView { return s.view }

// Destroy releases a surface made with NewSurface or Upload. Pooled
// surfaces go back through ReturnSurface instead.
func (s *Surface) Destroy() {
	if s.pooled {
		filters.Logger().Warn("gpu: destroying a pooled surface")
		return
	}
	s.destroy()
}

func (s *Surface) destroy() {
	if s.owner == nil || s.owner.device == nil {
		return
	}
	d := s.owner.device
	if s.view != nil {
		d.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		d.DestroyTexture(s.tex)
		s.tex = nil
	}
}

func (s *System) newSurface(w, h int, label string) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu: invalid surface size %dx%d", w, h)
	}
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(w), //nolint:gosec // checked positive
			Height:             uint32(h), //nolint:gosec // checked positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        surfaceFormat,
		Usage:         surfaceUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %s: %w", label, err)
	}
	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "-view",
		Format:        surfaceFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view %s: %w", label, err)
	}
	filters.Logger().Debug("gpu surface created", "label", label, "width", w, "height", h)
	return &Surface{tex: tex, view: view, width: w, height: h, owner: s}, nil
}

// NewSurface creates a surface that is not pooled. Its contents are
// undefined until it is drawn with clear set or written with Upload.
func (s *System) NewSurface(width, height int) (*Surface, error) {
	return s.newSurface(width, height, "filters-surface")
}

// Upload copies img into a new surface.
func (s *System) Upload(img image.Image) (*Surface, error) {
	rgba := rgbaOf(img)
	surf, err := s.newSurface(rgba.Rect.Dx(), rgba.Rect.Dy(), "filters-upload")
	if err != nil {
		return nil, err
	}
	if err := s.write(surf, rgba); err != nil {
		surf.destroy()
		return nil, err
	}
	return surf, nil
}

// write replaces the pixels of surf. rgba must be origin-anchored and the
// size of surf.
func (s *System) write(surf *Surface, rgba *image.RGBA) error {
	err := s.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: surf.tex, MipLevel: 0},
		rgba.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(rgba.Stride), //nolint:gosec // image strides fit in uint32
			RowsPerImage: uint32(surf.height), //nolint:gosec // checked positive at creation
		},
		&hal.Extent3D{
			Width:              uint32(surf.width),  //nolint:gosec // checked positive at creation
			Height:             uint32(surf.height), //nolint:gosec // checked positive at creation
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return fmt.Errorf("gpu: write texture: %w", err)
	}
	return nil
}

// Download reads surf back into a new image.
func (s *System) Download(surf *Surface) (*image.RGBA, error) {
	if surf == nil || surf.owner != s {
		return nil, fmt.Errorf("gpu: %w", filters.ErrForeignSurface)
	}
	w, h := surf.width, surf.height
	// WebGPU requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := (w*4 + 255) &^ 255
	size := uint64(bytesPerRow) * uint64(h) //nolint:gosec // checked positive at creation

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filters-readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback buffer: %w", err)
	}
	defer s.device.DestroyBuffer(staging)

	err = s.submit("filters-readback", func(enc hal.CommandEncoder) {
		s.transition(enc, surf, gputypes.TextureUsageCopySrc)
		enc.CopyTextureToBuffer(surf.tex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(bytesPerRow), //nolint:gosec // small
				RowsPerImage: uint32(h),           //nolint:gosec // checked positive at creation
			},
			TextureBase: hal.ImageCopyTexture{Texture: surf.tex, MipLevel: 0},
			Size: hal.Extent3D{
				Width:              uint32(w), //nolint:gosec // checked positive at creation
				Height:             uint32(h), //nolint:gosec // checked positive at creation
				DepthOrArrayLayers: 1,
			},
		}})
	})
	if err != nil {
		return nil, err
	}

	mapping, err := s.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: map readback buffer: %w", err)
	}
	data := unsafe.Slice((*byte)(mapping.Ptr), size)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], data[y*bytesPerRow:y*bytesPerRow+w*4])
	}
	if err := s.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("gpu: unmap readback buffer: %w", err)
	}
	return img, nil
}

// uploaded is the device copy of an ImageTexture.
type uploaded struct {
	version uint64
	surf    *Surface
}

// imageTexture returns the device copy of t, uploading it when it is new
// or its version changed.
func (s *System) imageTexture(t *filters.ImageTexture) (*Surface, error) {
	version := t.Version()
	s.mu.Lock()
	u, ok := s.textures[t]
	s.mu.Unlock()
	if ok && u.version == version {
		return u.surf, nil
	}

	rgba := rgbaOf(t.Image())
	if ok && (u.surf.width != rgba.Rect.Dx() || u.surf.height != rgba.Rect.Dy()) {
		s.retire(u.surf)
		ok = false
	}
	if !ok {
		surf, err := s.newSurface(rgba.Rect.Dx(), rgba.Rect.Dy(), "filters-image-texture")
		if err != nil {
			return nil, err
		}
		u = &uploaded{surf: surf}
	}
	if err := s.write(u.surf, rgba); err != nil {
		return nil, err
	}
	u.version = version

	s.mu.Lock()
	_, registered := s.textures[t]
	s.textures[t] = u
	s.mu.Unlock()
	if !registered {
		t.OnDestroy(func() { s.forget(t) })
	}
	return u.surf, nil
}

// forget drops the device copy of a destroyed ImageTexture. The texture
// is released at the next submit so in-flight draws can finish.
func (s *System) forget(t *filters.ImageTexture) {
	s.mu.Lock()
	u, ok := s.textures[t]
	delete(s.textures, t)
	s.mu.Unlock()
	if ok {
		s.retire(u.surf)
	}
}

func (s *System) retire(surf *Surface) {
	s.mu.Lock()
	s.stale = append(s.stale, surf)
	s.mu.Unlock()
}

func (s *System) releaseStale() {
	s.mu.Lock()
	stale := s.stale
	s.stale = nil
	s.mu.Unlock()
	for _, surf := range stale {
		surf.destroy()
	}
}

// transition records a usage barrier when surf is about to be used
// differently from its last use.
func (s *System) transition(enc hal.CommandEncoder, surf *Surface, usage gputypes.TextureUsage) {
	if surf.usage == usage {
		return
	}
	old := surf.usage
	if old == 0 {
		old = gputypes.TextureUsageCopyDst
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: surf.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: old,
			NewUsage: usage,
		},
	}})
	surf.usage = usage
}

// rgbaOf returns img as an origin-anchored RGBA image, copying only when
// needed.
func rgbaOf(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	rgba := clone.AsRGBA(img)
	rgba.Rect = image.Rect(0, 0, rgba.Rect.Dx(), rgba.Rect.Dy())
	return rgba
}
