// Package shader reflects WGSL source: entry points, struct memory layouts, buffer bindings and
// vertex input layouts, so pipelines are built from what the shader declares.
package shader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoEntryPoint is returned when a shader declares neither a vertex nor a compute entry point.
var ErrNoEntryPoint = errors.New("shader: no entry point")

// Stage identifies a pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment

	// StageCompute is the compute stage.
	StageCompute
)

// Binding is a resource declared with @group/@binding.
type Binding struct {
	Group        int
	Binding      int
	Name         string
	AddressSpace string // "uniform", "storage, read" etc.; empty for textures and samplers
	Type         string
}

// Shader is a parsed WGSL module.
type Shader interface {
	// Key returns the shader's identifier, also used as the module label.
	Key() string

	// Source returns the WGSL source.
	Source() string

	// EntryPoint returns the entry point function for a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the function name, or "" if the stage has no entry point
	EntryPoint(stage Stage) string

	// StructLayout returns the host-shareable layout of a declared struct.
	//
	// Parameters:
	//   - name: the struct name
	//
	// Returns:
	//   - Layout: size and alignment in bytes
	//   - bool: false if the struct is unknown or contains unsupported types
	StructLayout(name string) (Layout, bool)

	// Bindings returns the declared resources ordered by group then binding.
	Bindings() []Binding

	// BindGroupLayoutDescriptor builds the layout of one bind group's buffer bindings.
	// MinBindingSize is set from the bound struct's layout.
	//
	// Parameters:
	//   - group: the @group index
	//   - visibility: stages the bindings are visible to
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor(group int, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
	// Structs named in instanced step per instance; all others step per vertex.
	//
	// Parameters:
	//   - instanced: names of the per-instance input structs
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the buffer layouts
	VertexLayouts(instanced ...string) []wgpu.VertexBufferLayout

	// Module returns the shader module descriptor for device.CreateShaderModule.
	Module() *wgpu.ShaderModuleDescriptor
}

type shader struct {
	key         string
	source      string
	entryPoints map[Stage]string
	structs     []structDecl
	layouts     map[string]Layout
	bindings    []bindingDecl
}

var _ Shader = &shader{}

// NewShader parses WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrNoEntryPoint if the source has no vertex or compute entry point
func NewShader(key, source string) (Shader, error) {
	cleaned := stripComments(source)
	s := &shader{
		key:         key,
		source:      source,
		entryPoints: parseEntryPoints(cleaned),
		structs:     parseStructs(cleaned),
		bindings:    parseBindings(cleaned),
	}
	if s.entryPoints[StageVertex] == "" && s.entryPoints[StageCompute] == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoEntryPoint, key)
	}
	s.layouts = structLayouts(s.structs)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) StructLayout(name string) (Layout, bool) {
	l, ok := s.layouts[name]
	return l, ok
}

func (s *shader) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = Binding{
			Group:        b.group,
			Binding:      b.binding,
			Name:         b.name,
			AddressSpace: b.addressSpace,
			Type:         b.typeName,
		}
	}
	return out
}

func (s *shader) BindGroupLayoutDescriptor(group int, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	desc := wgpu.BindGroupLayoutDescriptor{Label: s.key}
	for _, b := range s.bindings {
		if b.group != group {
			continue
		}
		var bufferType wgpu.BufferBindingType
		switch b.addressSpace {
		case "uniform":
			bufferType = wgpu.BufferBindingTypeUniform
		case "storage", "storage, read":
			bufferType = wgpu.BufferBindingTypeReadOnlyStorage
		case "storage, read_write":
			bufferType = wgpu.BufferBindingTypeStorage
		default:
			continue
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(b.binding),
			Visibility: visibility,
			Buffer:     wgpu.BufferBindingLayout{Type: bufferType},
		}
		if l, ok := resolveLayout(b.typeName, s.layouts); ok {
			entry.Buffer.MinBindingSize = l.Size
		}
		desc.Entries = append(desc.Entries, entry)
	}
	return desc
}

func (s *shader) VertexLayouts(instanced ...string) []wgpu.VertexBufferLayout {
	var out []wgpu.VertexBufferLayout
	for _, sd := range s.structs {
		if !vertexInput(sd) {
			continue
		}
		step := wgpu.VertexStepModeVertex
		if slices.Contains(instanced, sd.name) {
			step = wgpu.VertexStepModeInstance
		}
		if layout, ok := vertexBufferLayout(sd, step); ok {
			out = append(out, layout)
		}
	}
	return out
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
