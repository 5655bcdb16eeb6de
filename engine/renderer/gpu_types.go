package renderer

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/Carmen-Shannon/oxy-stars/engine/postprocess"
)

// starShaderSource draws one camera-facing quad per star with a bloom halo.
//
//go:embed assets/stars.wgsl
var starShaderSource string

// StarFrame is everything the renderer needs to draw one frame.
type StarFrame struct {
	Camera camera.GPUCameraUniform
	Bloom  postprocess.GPUBloomUniform

	// Count is the number of stars to draw. Without an upload it must match the count of the
	// last uploaded Particles.
	Count int

	// Particles is read only when UploadParticles is set.
	Particles       []particles.GPUParticle
	UploadParticles bool
}

// GPUStarUniform is the single uniform block bound at group 0, binding 0 (96 bytes).
type GPUStarUniform struct {
	Camera camera.GPUCameraUniform     // offset  0: 80 bytes
	Bloom  postprocess.GPUBloomUniform // offset 80: 16 bytes (vec4<f32>)
}

// Size returns the size of the GPUStarUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUStarUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUStarUniform struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUStarUniform) Marshal() []byte {
	buf := make([]byte, 0, g.Size())
	buf = append(buf, g.Camera.Marshal()...)
	buf = append(buf, g.Bloom.Marshal()...)
	return buf
}

// quadCorners is the per-vertex buffer: two CCW triangles covering [-1, 1]².
var quadCorners = []common.Vec2{
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1},
	{X: -1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
}

// growCapacity returns the instance buffer capacity, in particles, needed to hold need
// particles. Capacity at least doubles so repeated growth is amortized.
func growCapacity(current, need int) int {
	if need <= current {
		return current
	}
	next := max(current*2, 64)
	for next < need {
		next *= 2
	}
	return next
}
