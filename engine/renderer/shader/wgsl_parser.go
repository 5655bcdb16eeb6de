package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormat is a vertex attribute format and its packed byte size.
type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslVertexFormats maps WGSL vertex input types to wgpu vertex formats.
var wgslVertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec2<i32>": {wgpu.VertexFormatSint32x2, 8},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

// Layout is the host-shareable byte size and alignment of a WGSL type.
type Layout struct {
	Size  uint64
	Align uint64
}

// wgslLayouts holds the size and alignment of the WGSL primitives the renderer uses.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslLayouts = map[string]Layout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2f":       {8, 8},
	"vec2<f32>":   {8, 8},
	"vec3f":       {12, 16},
	"vec3<f32>":   {12, 16},
	"vec4f":       {16, 16},
	"vec4<f32>":   {16, 16},
	"vec4<u32>":   {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

type field struct {
	name     string
	typeName string
	location int // -1 when the field has no @location
	builtin  bool
}

type structDecl struct {
	name   string
	fields []field
}

type bindingDecl struct {
	group        int
	binding      int
	addressSpace string
	name         string
	typeName     string
}

var (
	structRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex    = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	bindingRegex  = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	entryRegex = map[Stage]*regexp.Regexp{
		StageVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		StageFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
		StageCompute:  regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`),
	}
)

// stripComments removes // line comments and nested /* */ block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case source[i] == '/' && source[i+1] == '/' && depth == 0:
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// splitTopLevel splits s at commas outside angle brackets, so array<T, N> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func parseStructs(cleaned string) []structDecl {
	matches := structRegex.FindAllStringSubmatch(cleaned, -1)
	out := make([]structDecl, 0, len(matches))
	for _, m := range matches {
		sd := structDecl{name: m[1]}
		for _, part := range splitTopLevel(m[2]) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			fm := fieldRegex.FindStringSubmatch(part)
			if fm == nil {
				continue
			}
			f := field{
				name:     fm[1],
				typeName: strings.TrimSpace(fm[2]),
				location: -1,
				builtin:  builtinRegex.MatchString(part),
			}
			if lm := locationRegex.FindStringSubmatch(part); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			sd.fields = append(sd.fields, f)
		}
		out = append(out, sd)
	}
	return out
}

func parseBindings(cleaned string) []bindingDecl {
	matches := bindingRegex.FindAllStringSubmatch(cleaned, -1)
	out := make([]bindingDecl, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		out = append(out, bindingDecl{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(m[3]),
			name:         m[4],
			typeName:     strings.TrimSpace(m[5]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].group != out[j].group {
			return out[i].group < out[j].group
		}
		return out[i].binding < out[j].binding
	})
	return out
}

func parseEntryPoints(cleaned string) map[Stage]string {
	out := make(map[Stage]string, len(entryRegex))
	for stage, re := range entryRegex {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			out[stage] = m[1]
		}
	}
	return out
}

func roundUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// resolveLayout resolves primitives, known structs and fixed-size arrays.
func resolveLayout(typeName string, known map[string]Layout) (Layout, bool) {
	if l, ok := wgslLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return Layout{}, false
	}
	parts := strings.SplitN(strings.TrimSuffix(inner, ">"), ",", 2)
	if len(parts) != 2 {
		return Layout{}, false
	}
	elem, ok := resolveLayout(strings.TrimSpace(parts[0]), known)
	if !ok {
		return Layout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Layout{}, false
	}
	return Layout{Size: n * roundUp(elem.Align, elem.Size), Align: elem.Align}, true
}

// structLayouts computes every struct's layout, resolving structs that embed other structs
// over repeated passes. Builtin fields are not part of the memory layout.
func structLayouts(structs []structDecl) map[string]Layout {
	known := make(map[string]Layout, len(structs))
	pending := structs
	for len(pending) > 0 {
		var next []structDecl
		for _, sd := range pending {
			var offset uint64
			align := uint64(1)
			ok := true
			for _, f := range sd.fields {
				if f.builtin {
					continue
				}
				l, found := resolveLayout(f.typeName, known)
				if !found {
					ok = false
					break
				}
				offset = roundUp(l.Align, offset) + l.Size
				align = max(align, l.Align)
			}
			if ok {
				known[sd.name] = Layout{Size: roundUp(align, offset), Align: align}
			} else {
				next = append(next, sd)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return known
}

// vertexInput reports whether sd is a vertex input: @location fields and no builtins.
func vertexInput(sd structDecl) bool {
	hasLocation := false
	for _, f := range sd.fields {
		if f.builtin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// vertexBufferLayout packs the struct's attributes in declaration order.
func vertexBufferLayout(sd structDecl, step wgpu.VertexStepMode) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(sd.fields))
	var offset uint64
	for _, f := range sd.fields {
		vf, ok := wgslVertexFormats[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    step,
		Attributes:  attrs,
	}, true
}
