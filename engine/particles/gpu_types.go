package particles

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUParticle is the per-instance vertex data for one star sprite (32 bytes).
type GPUParticle struct {
	Position [3]float32 // offset  0: world-space centre (vec3<f32>, @location(1))
	Size     float32    // offset 12: sprite size in world units (f32, @location(2))
	Color    [4]float32 // offset 16: linear RGBA (vec4<f32>, @location(3))
}

// GPUParticleSize is the stride of one GPUParticle in the instance buffer.
const GPUParticleSize = int(unsafe.Sizeof(GPUParticle{}))

// ByteSize returns the size of the GPUParticle struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUParticle) ByteSize() int {
	return GPUParticleSize
}

// Marshal serializes the GPUParticle struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUParticle) Marshal() []byte {
	buf := make([]byte, GPUParticleSize)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Size))
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Color[i]))
	}
	return buf
}

// MarshalParticles serializes a slice of particles back to back.
//
// Parameters:
//   - ps: the particles
//
// Returns:
//   - []byte: len(ps) * GPUParticleSize bytes
func MarshalParticles(ps []GPUParticle) []byte {
	buf := make([]byte, 0, len(ps)*GPUParticleSize)
	for i := range ps {
		buf = append(buf, ps[i].Marshal()...)
	}
	return buf
}
