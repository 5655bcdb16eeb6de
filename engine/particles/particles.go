// Package particles generates and tracks the star field: positions, per-star colours, hover
// highlighting, and the per-instance data uploaded to the GPU.
package particles

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/oxy-stars/common"
)

// ErrIndexOutOfRange is returned when a star index is outside [0, Count()).
var ErrIndexOutOfRange = errors.New("particles: index out of range")

// ParticleSystem is a fixed set of point sprites with per-particle colour.
type ParticleSystem interface {
	// Count returns the number of particles.
	//
	// Returns:
	//   - int: particle count
	Count() int

	// Positions returns a copy of all particle positions.
	//
	// Returns:
	//   - []common.Vec3: world-space positions, indexed by particle
	Positions() []common.Vec3

	// Color returns the colour of particle i.
	//
	// Parameters:
	//   - i: particle index
	//
	// Returns:
	//   - [3]float32: linear RGB in [0, 1]
	//   - error: ErrIndexOutOfRange for an invalid index
	Color(i int) ([3]float32, error)

	// SetColor sets the colour of particle i and marks the instance data dirty.
	//
	// Parameters:
	//   - i: particle index
	//   - c: linear RGB in [0, 1]
	//
	// Returns:
	//   - error: ErrIndexOutOfRange for an invalid index
	SetColor(i int, c [3]float32) error

	// Highlight paints particle i with the highlight colour. Highlights are not reverted when
	// the cursor moves away.
	//
	// Parameters:
	//   - i: particle index
	//
	// Returns:
	//   - error: ErrIndexOutOfRange for an invalid index
	Highlight(i int) error

	// ResetColors restores every particle to the base colour.
	ResetColors()

	// Size returns the sprite size in world units.
	//
	// Returns:
	//   - float32: sprite size
	Size() float32

	// SetSize sets the sprite size in world units and marks the instance data dirty.
	//
	// Parameters:
	//   - size: sprite size, must be > 0
	SetSize(size float32)

	// Dirty reports whether instance data changed since the last ClearDirty.
	//
	// Returns:
	//   - bool: true if a re-upload is needed
	Dirty() bool

	// ClearDirty marks the current instance data as uploaded.
	ClearDirty()

	// InstanceData returns the per-instance GPU data for all particles.
	//
	// Returns:
	//   - []GPUParticle: one entry per particle
	InstanceData() []GPUParticle
}

type particleSystemImpl struct {
	mu *sync.Mutex

	count          int
	boundsMin      common.Vec3
	boundsMax      common.Vec3
	seed           int64
	size           float32
	baseColor      [3]float32
	highlightColor [3]float32

	positions []common.Vec3
	colors    [][3]float32
	dirty     bool
}

var _ ParticleSystem = &particleSystemImpl{}

// NewParticleSystem creates a star field with positions drawn uniformly from the configured bounds.
// The same seed always produces the same field.
//
// Parameters:
//   - options: functional options to configure the particle system
//
// Returns:
//   - ParticleSystem: the generated particle system
func NewParticleSystem(options ...ParticleSystemOption) ParticleSystem {
	p := &particleSystemImpl{
		mu:             &sync.Mutex{},
		count:          100,
		boundsMin:      common.V3(-5, -2, -50),
		boundsMax:      common.V3(5, 2, 50),
		seed:           1,
		size:           1,
		baseColor:      [3]float32{1, 1, 1},
		highlightColor: [3]float32{191.0 / 255.0, 1, 0},
	}
	for _, option := range options {
		option(p)
	}
	p.count = max(p.count, 0)
	p.generate()
	return p
}

func (p *particleSystemImpl) generate() {
	rng := rand.New(rand.NewSource(p.seed))
	ext := p.boundsMax.Sub(p.boundsMin)

	p.positions = make([]common.Vec3, p.count)
	p.colors = make([][3]float32, p.count)
	for i := range p.positions {
		p.positions[i] = common.V3(
			p.boundsMin.X+rng.Float32()*ext.X,
			p.boundsMin.Y+rng.Float32()*ext.Y,
			p.boundsMin.Z+rng.Float32()*ext.Z,
		)
		p.colors[i] = p.baseColor
	}
	p.dirty = true
}

func (p *particleSystemImpl) Count() int {
	return p.count
}

func (p *particleSystemImpl) Positions() []common.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]common.Vec3, len(p.positions))
	copy(out, p.positions)
	return out
}

func (p *particleSystemImpl) checkIndex(i int) error {
	if i < 0 || i >= p.count {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, p.count)
	}
	return nil
}

func (p *particleSystemImpl) Color(i int) ([3]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkIndex(i); err != nil {
		return [3]float32{}, err
	}
	return p.colors[i], nil
}

func (p *particleSystemImpl) SetColor(i int, c [3]float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkIndex(i); err != nil {
		return err
	}
	if p.colors[i] != c {
		p.colors[i] = c
		p.dirty = true
	}
	return nil
}

func (p *particleSystemImpl) Highlight(i int) error {
	return p.SetColor(i, p.highlightColor)
}

func (p *particleSystemImpl) ResetColors() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.colors {
		p.colors[i] = p.baseColor
	}
	p.dirty = true
}

func (p *particleSystemImpl) Size() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

func (p *particleSystemImpl) SetSize(size float32) {
	if size <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = size
	p.dirty = true
}

func (p *particleSystemImpl) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

func (p *particleSystemImpl) ClearDirty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = false
}

func (p *particleSystemImpl) InstanceData() []GPUParticle {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]GPUParticle, p.count)
	for i := range out {
		out[i] = GPUParticle{
			Position: p.positions[i].Array(),
			Size:     p.size,
			Color:    [4]float32{p.colors[i][0], p.colors[i][1], p.colors[i][2], 1},
		}
	}
	return out
}
