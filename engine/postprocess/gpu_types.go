package postprocess

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBloomUniform is the GPU-aligned bloom parameter block (16 bytes).
type GPUBloomUniform struct {
	Strength  float32 // offset  0
	Threshold float32 // offset  4
	Radius    float32 // offset  8
	Exposure  float32 // offset 12: tone-mapped exposure (exposure^4)
}

// Size returns the size of the GPUBloomUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUBloomUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBloomUniform struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUBloomUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Strength))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Threshold))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.Radius))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Exposure))
	return buf
}
