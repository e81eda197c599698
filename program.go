package filters

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

// Backend selects which artifact a Program compiles to. Both artifacts come
// from the same WGSL algorithm; hosts pick one per device.
type Backend uint8

const (
	// BackendWGSL hands WGSL text to HALs that ingest it directly.
	BackendWGSL Backend = iota

	// BackendSPIRV compiles through naga for HALs that consume SPIR-V.
	BackendSPIRV
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendWGSL:
		return "wgsl"
	case BackendSPIRV:
		return "spirv"
	default:
		return "unknown"
	}
}

// Artifact is a compiled program for one backend.
type Artifact struct {
	Backend Backend
	WGSL    string
	SPIRV   []uint32
}

// GlobalLayout is the per-draw uniform block every filter program sees at
// group 0, binding 0. Hosts fill it with GlobalUniforms.
var GlobalLayout = NewUniformLayout("GlobalFilterUniforms",
	V4("uInputSize"),
	V4("uInputPixel"),
	V4("uInputClamp"),
	V4("uOutputFrame"),
	V4("uGlobalFrame"),
	V4("uOutputTexture"),
)

// GlobalUniforms fills the group-0 block for a draw from input to output.
func GlobalUniforms(input, output Texture) *UniformGroup {
	g := GlobalLayout.New()
	iw, ih := float32(input.Width()), float32(input.Height())
	ow, oh := float32(output.Width()), float32(output.Height())
	g.Vec4("uInputSize").Set(iw, ih, 1/iw, 1/ih)
	g.Vec4("uInputPixel").Set(iw, ih, 1/iw, 1/ih)
	g.Vec4("uInputClamp").Set(0.5/iw, 0.5/ih, (iw-0.5)/iw, (ih-0.5)/ih)
	g.Vec4("uOutputFrame").Set(0, 0, ow, oh)
	g.Vec4("uGlobalFrame").Set(0, 0, ow, oh)
	g.Vec4("uOutputTexture").Set(ow, oh, -1, 0)
	return g
}

// prelude is shared by every program: group 0 bindings, the quad vertex
// stage and sampling helpers. Fragment sources read gfu, uTexture and
// uSampler from here and receive a VSOutput.
var prelude = GlobalLayout.WGSL() + `
@group(0) @binding(0) var<uniform> gfu: GlobalFilterUniforms;
@group(0) @binding(1) var uTexture: texture_2d<f32>;
@group(0) @binding(2) var uSampler: sampler;

struct VSOutput {
  @builtin(position) position: vec4<f32>,
  @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) aPosition: vec2<f32>) -> VSOutput {
  var position = aPosition * gfu.uOutputFrame.zw + gfu.uOutputFrame.xy;
  position.x = position.x * (2.0 / gfu.uOutputTexture.x) - 1.0;
  position.y = position.y * (2.0 * gfu.uOutputTexture.z / gfu.uOutputTexture.y) - gfu.uOutputTexture.z;
  var out: VSOutput;
  out.position = vec4<f32>(position, 0.0, 1.0);
  out.uv = aPosition * (gfu.uOutputFrame.zw * gfu.uInputSize.zw);
  return out;
}

fn sampleInput(uv: vec2<f32>) -> vec4<f32> {
  return textureSampleLevel(uTexture, uSampler, uv, 0.0);
}

fn sampleClamped(uv: vec2<f32>) -> vec4<f32> {
  return textureSampleLevel(uTexture, uSampler, clamp(uv, gfu.uInputClamp.xy, gfu.uInputClamp.zw), 0.0);
}

fn fmod(x: f32, y: f32) -> f32 {
  return x - y * floor(x / y);
}

fn hash(p: vec3<f32>, scale: vec3<f32>, seed: f32) -> f32 {
  return fract(sin(dot(p + seed, scale)) * 43758.5453 + seed);
}
`

// Program is one filter algorithm written once in WGSL. The fragment
// source defines fs_main and may reference u (the filter's uniform struct)
// and any extra textures declared at construction, each paired with a
// sampler named <texture>Sampler.
type Program struct {
	name     string
	fragment string
	layout   *UniformLayout
	textures []string

	sourceOnce sync.Once
	source     string

	mu        sync.Mutex
	artifacts [2]*Artifact
}

// NewProgram declares a program. layout may be nil for filters without
// uniforms.
func NewProgram(name, fragment string, layout *UniformLayout, textures ...string) *Program {
	return &Program{
		name:     name,
		fragment: fragment,
		layout:   layout,
		textures: textures,
	}
}

// Name returns the program label.
func (p *Program) Name() string { return p.name }

// Layout returns the filter uniform layout, or nil.
func (p *Program) Layout() *UniformLayout { return p.layout }

// Textures returns the names of extra textures in binding order.
func (p *Program) Textures() []string { return p.textures }

// TextureBinding returns the group-1 binding index of extra texture i; its
// sampler sits at the next index.
func (p *Program) TextureBinding(i int) uint32 {
	return uint32(1 + 2*i) //nolint:gosec // texture counts are tiny
}

// HasGroup1 reports whether the program declares any group-1 bindings.
func (p *Program) HasGroup1() bool {
	return p.layout != nil || len(p.textures) > 0
}

// Source assembles the complete WGSL module.
func (p *Program) Source() string {
	p.sourceOnce.Do(func() {
		var sb strings.Builder
		sb.WriteString(prelude)
		if p.layout != nil {
			sb.WriteString("\n")
			sb.WriteString(p.layout.WGSL())
			fmt.Fprintf(&sb, "@group(1) @binding(0) var<uniform> u: %s;\n", p.layout.Name())
		}
		for i, t := range p.textures {
			b := p.TextureBinding(i)
			fmt.Fprintf(&sb, "@group(1) @binding(%d) var %s: texture_2d<f32>;\n", b, t)
			fmt.Fprintf(&sb, "@group(1) @binding(%d) var %sSampler: sampler;\n", b+1, t)
		}
		sb.WriteString("\n")
		sb.WriteString(p.fragment)
		p.source = sb.String()
	})
	return p.source
}

// Compile returns the artifact for backend, compiling it on first use.
func (p *Program) Compile(b Backend) (*Artifact, error) {
	if b > BackendSPIRV {
		return nil, fmt.Errorf("compile %s: unknown backend %d", p.name, b)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if a := p.artifacts[b]; a != nil {
		return a, nil
	}

	src := p.Source()
	a := &Artifact{Backend: b, WGSL: src}
	if b == BackendSPIRV {
		spirvBytes, err := naga.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", p.name, err)
		}
		a.SPIRV = spirvWords(spirvBytes)
	}
	Logger().Debug("filter program compiled", "program", p.name, "backend", b.String())
	p.artifacts[b] = a
	return a, nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// GlobalBindLayout describes group 0: global uniforms, input texture and
// its sampler.
func GlobalBindLayout() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		textureEntry(1),
		samplerEntry(2),
	}
}

// BindLayout describes group 1 for this program.
func (p *Program) BindLayout() []gputypes.BindGroupLayoutEntry {
	var entries []gputypes.BindGroupLayoutEntry
	if p.layout != nil {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for i := range p.textures {
		b := p.TextureBinding(i)
		entries = append(entries, textureEntry(b), samplerEntry(b+1))
	}
	return entries
}

func textureEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	}
}

func samplerEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageFragment,
		Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
	}
}

// variants caches programs whose source depends on a compile-time constant
// (kernel sizes, loop bounds). Keys are "<filter>:<variant>".
var variants sync.Map

// variant returns the cached program for key, building it on first use.
func variant(key string, build func() *Program) *Program {
	if p, ok := variants.Load(key); ok {
		return p.(*Program)
	}
	p, _ := variants.LoadOrStore(key, build())
	return p.(*Program)
}
