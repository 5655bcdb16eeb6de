package particles

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStarField(t *testing.T) {
	p := NewParticleSystem()

	require.Equal(t, 100, p.Count())
	for i, pos := range p.Positions() {
		assert.True(t, pos.X >= -5 && pos.X <= 5, "star %d x=%v", i, pos.X)
		assert.True(t, pos.Y >= -2 && pos.Y <= 2, "star %d y=%v", i, pos.Y)
		assert.True(t, pos.Z >= -50 && pos.Z <= 50, "star %d z=%v", i, pos.Z)
	}
	c, err := p.Color(0)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 1, 1}, c)
	assert.True(t, p.Dirty())
}

func TestSeedIsDeterministic(t *testing.T) {
	a := NewParticleSystem(WithSeed(42), WithCount(10))
	b := NewParticleSystem(WithSeed(42), WithCount(10))
	c := NewParticleSystem(WithSeed(43), WithCount(10))

	assert.Equal(t, a.Positions(), b.Positions())
	assert.NotEqual(t, a.Positions(), c.Positions())
}

func TestCustomBounds(t *testing.T) {
	p := NewParticleSystem(WithCount(50), WithBounds(common.V3(1, 1, 1), common.V3(2, 2, 2)))
	for _, pos := range p.Positions() {
		assert.GreaterOrEqual(t, pos.X, float32(1))
		assert.LessOrEqual(t, pos.Z, float32(2))
	}
}

func TestPositionsReturnsCopy(t *testing.T) {
	p := NewParticleSystem(WithCount(3))
	pos := p.Positions()
	pos[0] = common.V3(99, 99, 99)

	assert.NotEqual(t, pos[0], p.Positions()[0])
}

func TestHighlightPersistsAndMarksDirty(t *testing.T) {
	p := NewParticleSystem(WithCount(3))
	p.ClearDirty()

	require.NoError(t, p.Highlight(1))
	assert.True(t, p.Dirty())

	c, err := p.Color(1)
	require.NoError(t, err)
	assert.InDelta(t, 191.0/255.0, c[0], 1e-6)
	assert.Equal(t, float32(1), c[1])
	assert.Equal(t, float32(0), c[2])

	p.ClearDirty()
	require.NoError(t, p.Highlight(1))
	assert.False(t, p.Dirty(), "re-highlighting the same star changes nothing")

	p.ResetColors()
	c, _ = p.Color(1)
	assert.Equal(t, [3]float32{1, 1, 1}, c)
}

func TestIndexOutOfRange(t *testing.T) {
	p := NewParticleSystem(WithCount(2))

	_, err := p.Color(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, p.SetColor(-1, [3]float32{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.Highlight(5), ErrIndexOutOfRange)
}

func TestInstanceData(t *testing.T) {
	p := NewParticleSystem(WithCount(4), WithSize(2))
	require.NoError(t, p.SetColor(3, [3]float32{0.5, 0.25, 0}))

	data := p.InstanceData()
	require.Len(t, data, 4)
	assert.Equal(t, p.Positions()[2].Array(), data[2].Position)
	assert.Equal(t, float32(2), data[0].Size)
	assert.Equal(t, [4]float32{0.5, 0.25, 0, 1}, data[3].Color)

	p.SetSize(-1)
	assert.Equal(t, float32(2), p.Size())
}

func TestGPUParticleLayout(t *testing.T) {
	g := GPUParticle{Position: [3]float32{1, 2, 3}, Size: 4, Color: [4]float32{5, 6, 7, 8}}

	buf := g.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, 32, g.ByteSize())
	assert.Equal(t, GPUParticleSize, g.ByteSize())
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
	assert.Equal(t, float32(8), math.Float32frombits(binary.LittleEndian.Uint32(buf[28:])))

	all := MarshalParticles([]GPUParticle{g, g})
	assert.Len(t, all, 64)
	assert.Equal(t, common.SliceToBytes([]GPUParticle{g, g}), all)
}
