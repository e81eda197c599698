//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/filters"
)

// pipeline is the compiled render state for one program.
type pipeline struct {
	module      hal.ShaderModule
	groupLayout hal.BindGroupLayout // nil when the program has no group 1
	layout      hal.PipelineLayout
	pipeline    hal.RenderPipeline
}

func (p *pipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
	}
	if p.groupLayout != nil {
		device.DestroyBindGroupLayout(p.groupLayout)
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
	}
}

// pipelineFor returns the cached pipeline for prog, building it on first
// use.
func (s *System) pipelineFor(prog *filters.Program) (*pipeline, error) {
	if p, ok := s.pipelines[prog]; ok {
		return p, nil
	}
	p, err := s.buildPipeline(prog)
	if err != nil {
		return nil, fmt.Errorf("gpu: pipeline %s: %w", prog.Name(), err)
	}
	s.pipelines[prog] = p
	filters.Logger().Debug("gpu pipeline created", "program", prog.Name(), "backend", s.backend.String())
	return p, nil
}

func (s *System) buildPipeline(prog *filters.Program) (_ *pipeline, err error) {
	art, err := prog.Compile(s.backend)
	if err != nil {
		return nil, err
	}
	var source hal.ShaderSource
	if s.backend == filters.BackendSPIRV {
		source.SPIRV = art.SPIRV
	} else {
		source.WGSL = art.WGSL
	}

	p := &pipeline{}
	defer func() {
		if err != nil {
			p.destroy(s.device)
		}
	}()

	p.module, err = s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  prog.Name(),
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	layouts := []hal.BindGroupLayout{s.globalLayout}
	if prog.HasGroup1() {
		p.groupLayout, err = s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   prog.Name() + "-bgl",
			Entries: prog.BindLayout(),
		})
		if err != nil {
			return nil, fmt.Errorf("create bind group layout: %w", err)
		}
		layouts = append(layouts, p.groupLayout)
	}

	p.layout, err = s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            prog.Name() + "-layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	// Premultiplied source-over; cleared targets make it a plain write.
	blend := gputypes.BlendStatePremultiplied()
	p.pipeline, err = s.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  prog.Name(),
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: 8,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{{
					Format:         gputypes.VertexFormatFloat32x2,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    surfaceFormat,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	return p, nil
}
