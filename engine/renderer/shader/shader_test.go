package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
/* header
   /* nested */ still a comment */
struct Globals {
    view_proj: mat4x4<f32>,
    eye: vec3<f32>, // trailing, with commas, inside
    scale: f32,
    tint: vec4<f32>,
};

struct Lights {
    entries: array<vec4<f32>, 4>,
    globals: Globals,
};

@group(0) @binding(0) var<uniform> globals: Globals;
@group(0) @binding(1) var<storage, read> lights: Lights;
@group(1) @binding(0) var tex: texture_2d<f32>;

struct VertexInput {
    @location(0) corner: vec2<f32>,
};

struct InstanceInput {
    @location(1) position: vec3<f32>,
    @location(2) size: f32,
    @location(3) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
};

// @vertex fn commented_out() {}

@vertex
fn vs(v: VertexInput, i: InstanceInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

func TestEntryPoints(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	assert.Equal(t, "vs", s.EntryPoint(StageVertex))
	assert.Equal(t, "fs", s.EntryPoint(StageFragment))
	assert.Equal(t, "", s.EntryPoint(StageCompute))
	assert.Equal(t, "test", s.Key())
	assert.Equal(t, testSource, s.Source())
}

func TestNoEntryPoint(t *testing.T) {
	_, err := NewShader("empty", "struct A { x: f32 };")
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

func TestStructLayouts(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	// mat4 (64) + vec3 at 64 (12) + f32 at 76 (4) + vec4 at 80 (16) = 96
	l, ok := s.StructLayout("Globals")
	require.True(t, ok)
	assert.Equal(t, Layout{Size: 96, Align: 16}, l)

	// 4 * vec4 (64) + Globals at 64 (96)
	l, ok = s.StructLayout("Lights")
	require.True(t, ok)
	assert.Equal(t, Layout{Size: 160, Align: 16}, l)

	// Builtins are skipped.
	l, ok = s.StructLayout("VertexOutput")
	require.True(t, ok)
	assert.Equal(t, uint64(16), l.Size)

	_, ok = s.StructLayout("Missing")
	assert.False(t, ok)
}

func TestBindings(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	assert.Equal(t, []Binding{
		{Group: 0, Binding: 0, Name: "globals", AddressSpace: "uniform", Type: "Globals"},
		{Group: 0, Binding: 1, Name: "lights", AddressSpace: "storage, read", Type: "Lights"},
		{Group: 1, Binding: 0, Name: "tex", Type: "texture_2d<f32>"},
	}, s.Bindings())

	desc := s.BindGroupLayoutDescriptor(0, wgpu.ShaderStageVertex)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(96), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, desc.Entries[1].Buffer.Type)
	assert.Equal(t, uint64(160), desc.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, desc.Entries[1].Visibility)

	// Texture bindings are not buffers.
	assert.Empty(t, s.BindGroupLayoutDescriptor(1, wgpu.ShaderStageFragment).Entries)
}

func TestVertexLayouts(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	layouts := s.VertexLayouts("InstanceInput")
	require.Len(t, layouts, 2)

	assert.Equal(t, uint64(8), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
	}, layouts[0].Attributes)

	assert.Equal(t, uint64(32), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
	}, layouts[1].Attributes)
}

func TestModuleDescriptor(t *testing.T) {
	s, err := NewShader("stars", testSource)
	require.NoError(t, err)

	m := s.Module()
	assert.Equal(t, "stars", m.Label)
	require.NotNil(t, m.WGSLDescriptor)
	assert.Equal(t, testSource, m.WGSLDescriptor.Code)
}
