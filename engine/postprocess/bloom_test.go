package postprocess

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomDefaults(t *testing.T) {
	b := NewBloomPass()

	assert.Equal(t, float32(1), b.Exposure())
	assert.Equal(t, float32(2), b.Strength())
	assert.Equal(t, float32(0.5), b.Threshold())
	assert.Equal(t, float32(1), b.Radius())
	assert.Equal(t, float32(1), b.ToneMappingExposure())
}

func TestBloomSettersClamp(t *testing.T) {
	b := NewBloomPass()

	b.SetExposure(0)
	assert.Equal(t, float32(0.1), b.Exposure())
	b.SetExposure(5)
	assert.Equal(t, float32(2), b.Exposure())
	b.SetStrength(-1)
	assert.Equal(t, float32(0), b.Strength())
	b.SetStrength(11)
	assert.Equal(t, float32(10), b.Strength())
	b.SetThreshold(2)
	assert.Equal(t, float32(1), b.Threshold())
	b.SetRadius(-0.5)
	assert.Equal(t, float32(0), b.Radius())
}

func TestBloomOptionsClampAtConstruction(t *testing.T) {
	b := NewBloomPass(WithExposure(9), WithStrength(3), WithThreshold(-1), WithRadius(0.25))

	assert.Equal(t, float32(2), b.Exposure())
	assert.Equal(t, float32(3), b.Strength())
	assert.Equal(t, float32(0), b.Threshold())
	assert.Equal(t, float32(0.25), b.Radius())
}

func TestToneMappingExposureIsFourthPower(t *testing.T) {
	b := NewBloomPass(WithExposure(1.5))

	assert.InDelta(t, 5.0625, b.ToneMappingExposure(), 1e-5)
	assert.InDelta(t, 5.0625, b.Uniform().Exposure, 1e-5)
}

func TestBloomUniformMarshal(t *testing.T) {
	u := NewBloomPass(WithStrength(4), WithThreshold(0.25)).Uniform()

	buf := u.Marshal()
	require.Len(t, buf, 16)
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
}
