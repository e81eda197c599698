//go:build !nogpu

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/filters"
)

// ApplyFilter draws pass from input into output.
func (s *System) ApplyFilter(pass filters.Pass, input, output filters.Surface, clear bool) error {
	if s.device == nil {
		return ErrNoDevice
	}
	in, err := s.surface(input)
	if err != nil {
		return err
	}
	out, err := s.surface(output)
	if err != nil {
		return err
	}

	prog := pass.Program()
	if prog == nil {
		return filters.ErrNoProgram
	}
	pl, err := s.pipelineFor(prog)
	if err != nil {
		return err
	}

	// A texture cannot be sampled while it is the render target.
	src := in
	if in == out {
		key := image.Pt(in.width, in.height)
		tmp, err := s.surfaces.Get(key)
		if err != nil {
			return fmt.Errorf("gpu: scratch surface: %w", err)
		}
		defer s.surfaces.Put(key, tmp)
		src = tmp
	}

	if err := s.queue.WriteBuffer(s.globalBuf, 0, filters.GlobalUniforms(src, out).Bytes()); err != nil {
		return fmt.Errorf("gpu: write global uniforms: %w", err)
	}
	global, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "filters-global-bg",
		Layout: s.globalLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: s.globalBuf.NativeHandle(),
				Size:   uint64(filters.GlobalLayout.Size()),
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: s.linear.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create global bind group: %w", err)
	}
	defer s.device.DestroyBindGroup(global)

	var (
		group    hal.BindGroup
		sampled  []*Surface
		uniforms hal.Buffer
	)
	if pl.groupLayout != nil {
		var entries []gputypes.BindGroupEntry
		if u := pass.Uniforms(); u != nil {
			data := u.Bytes()
			uniforms, err = s.device.CreateBuffer(&hal.BufferDescriptor{
				Label: prog.Name() + "-uniforms",
				Size:  uint64(len(data)),
				Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("gpu: create uniform buffer: %w", err)
			}
			defer s.device.DestroyBuffer(uniforms)
			if err := s.queue.WriteBuffer(uniforms, 0, data); err != nil {
				return fmt.Errorf("gpu: write uniforms: %w", err)
			}
			entries = append(entries, gputypes.BindGroupEntry{
				Binding:  0,
				Resource: gputypes.BufferBinding{Buffer: uniforms.NativeHandle(), Size: uint64(len(data))},
			})
		}
		for i, tb := range pass.Textures() {
			surf, smp, err := s.resolve(tb.Texture)
			if err != nil {
				return fmt.Errorf("gpu: texture %s: %w", tb.Name, err)
			}
			sampled = append(sampled, surf)
			b := prog.TextureBinding(i)
			entries = append(entries,
				gputypes.BindGroupEntry{Binding: b, Resource: gputypes.TextureViewBinding{TextureView: surf.view.NativeHandle()}},
				gputypes.BindGroupEntry{Binding: b + 1, Resource: gputypes.SamplerBinding{Sampler: smp.NativeHandle()}},
			)
		}
		group, err = s.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   prog.Name() + "-bg",
			Layout:  pl.groupLayout,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("gpu: create bind group: %w", err)
		}
		defer s.device.DestroyBindGroup(group)
	}

	load := gputypes.LoadOpLoad
	if clear {
		load = gputypes.LoadOpClear
	}
	return s.submit(prog.Name(), func(enc hal.CommandEncoder) {
		if src != in {
			s.transition(enc, in, gputypes.TextureUsageCopySrc)
			s.transition(enc, src, gputypes.TextureUsageCopyDst)
			enc.CopyTextureToTexture(in.tex, src.tex, []hal.TextureCopy{{
				SrcBase: hal.ImageCopyTexture{Texture: in.tex},
				DstBase: hal.ImageCopyTexture{Texture: src.tex},
				Size: hal.Extent3D{
					Width:              uint32(in.width),  //nolint:gosec // checked positive at creation
					Height:             uint32(in.height), //nolint:gosec // checked positive at creation
					DepthOrArrayLayers: 1,
				},
			}})
		}
		s.transition(enc, src, gputypes.TextureUsageTextureBinding)
		for _, surf := range sampled {
			s.transition(enc, surf, gputypes.TextureUsageTextureBinding)
		}
		s.transition(enc, out, gputypes.TextureUsageRenderAttachment)

		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: prog.Name(),
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       out.view,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			}},
		})
		rp.SetPipeline(pl.pipeline)
		rp.SetBindGroup(0, global, nil)
		if group != nil {
			rp.SetBindGroup(1, group, nil)
		}
		rp.SetVertexBuffer(0, s.quad, 0)
		rp.Draw(6, 1, 0, 0)
		rp.End()
	})
}

// submit records one command buffer, submits it and waits for the device
// to finish.
func (s *System) submit(label string, record func(hal.CommandEncoder)) error {
	enc, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	record(enc)
	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.DiscardEncoding()
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmd)

	if _, err := s.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	if err := s.device.WaitIdle(); err != nil {
		return fmt.Errorf("gpu: wait: %w", err)
	}
	s.releaseStale()
	return nil
}

// resolve maps an extra pass texture to a device surface and sampler.
// Absent textures bind a transparent 1x1 texture.
func (s *System) resolve(t filters.Texture) (*Surface, hal.Sampler, error) {
	switch t := t.(type) {
	case *Surface:
		if t == nil {
			return s.blank, s.linear, nil
		}
		if t.owner != s {
			return nil, nil, filters.ErrForeignSurface
		}
		return t, s.linear, nil
	case *filters.ImageTexture:
		if t == nil || t.Destroyed() {
			return s.blank, s.linear, nil
		}
		surf, err := s.imageTexture(t)
		if err != nil {
			return nil, nil, err
		}
		if t.Nearest() {
			return surf, s.nearest, nil
		}
		return surf, s.linear, nil
	case nil:
		return s.blank, s.linear, nil
	default:
		return nil, nil, fmt.Errorf("unsupported texture type %T", t)
	}
}

func (s *System) surface(sf filters.Surface) (*Surface, error) {
	surf, ok := sf.(*Surface)
	if !ok || surf == nil || surf.owner != s {
		return nil, fmt.Errorf("gpu: %w", filters.ErrForeignSurface)
	}
	return surf, nil
}
