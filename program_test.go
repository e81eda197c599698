package filters

import (
	"image"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compositeFilters draw only through their inner passes.
var compositeFilters = map[string]bool{
	"blur":          true,
	"bloom":         true,
	"backdrop blur": true,
	"drop shadow":   true,
	"tilt shift":    true,
}

func TestPrograms_Source(t *testing.T) {
	for name, f := range allFilters(t) {
		pass, ok := f.(Pass)
		require.True(t, ok, name)
		prog := pass.Program()
		if compositeFilters[name] {
			assert.Nil(t, prog, name)
			continue
		}
		require.NotNil(t, prog, name)

		src := prog.Source()
		assert.Contains(t, src, "fn vs_main", name)
		assert.Contains(t, src, "fn fs_main", name)
		if l := prog.Layout(); l != nil {
			assert.Contains(t, src, "var<uniform> u: "+l.Name()+";", name)
		}
		for _, tex := range prog.Textures() {
			assert.Contains(t, src, "var "+tex+"Sampler: sampler;", name)
		}
		assert.NotContains(t, src, "{{", "%s has an unexpanded template", name)
	}
}

func TestProgram_CompileWGSL(t *testing.T) {
	prog := NewGrayscaleFilter().Program()
	a, err := prog.Compile(BackendWGSL)
	require.NoError(t, err)
	assert.Equal(t, BackendWGSL, a.Backend)
	assert.Equal(t, prog.Source(), a.WGSL)
	assert.Nil(t, a.SPIRV)

	again, err := prog.Compile(BackendWGSL)
	require.NoError(t, err)
	assert.Same(t, a, again, "artifacts are cached")

	_, err = prog.Compile(Backend(7))
	assert.Error(t, err)
}

func TestProgram_CompileSPIRV(t *testing.T) {
	a, err := NewGrayscaleFilter().Program().Compile(BackendSPIRV)
	require.NoError(t, err)
	require.NotEmpty(t, a.SPIRV)
	assert.Equal(t, uint32(0x07230203), a.SPIRV[0], "SPIR-V magic number")
}

func TestProgram_BindLayout(t *testing.T) {
	lut := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 8)))
	defer lut.Destroy()
	f, err := NewColorMapFilter(func(o *ColorMapOptions) { o.ColorMap = lut })
	require.NoError(t, err)

	prog := f.Program()
	require.True(t, prog.HasGroup1())
	entries := prog.BindLayout()
	require.Len(t, entries, 3)
	assert.NotNil(t, entries[0].Buffer)
	assert.Equal(t, prog.TextureBinding(0), entries[1].Binding)
	assert.NotNil(t, entries[1].Texture)
	assert.Equal(t, prog.TextureBinding(0)+1, entries[2].Binding)
	assert.NotNil(t, entries[2].Sampler)

	global := GlobalBindLayout()
	require.Len(t, global, 3)
	assert.Equal(t, gputypes.ShaderStageVertex|gputypes.ShaderStageFragment, global[0].Visibility)

	assert.False(t, NewGrayscaleFilter().Program().HasGroup1())
}

func TestVariants_Shared(t *testing.T) {
	a := NewBlurPass(true, 8, 1, 7)
	b := NewBlurPass(false, 2, 3, 7)
	c := NewBlurPass(true, 8, 1, 9)
	assert.Same(t, a.Program(), b.Program())
	assert.NotSame(t, a.Program(), c.Program())
	assert.True(t, strings.HasPrefix(c.Program().Name(), "blur-9"))
}

func TestGlobalUniforms(t *testing.T) {
	in := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 40, 20)))
	out := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 80, 10)))
	g := GlobalUniforms(in, out)

	size := g.Vec4("uInputSize")
	assert.Equal(t, []float32{40, 20, 1.0 / 40, 1.0 / 20}, size.Slice())
	frame := g.Vec4("uOutputFrame")
	assert.Equal(t, []float32{0, 0, 80, 10}, frame.Slice())
	assert.Equal(t, GlobalLayout.Size(), len(g.Bytes()))
}
