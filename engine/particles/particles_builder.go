package particles

import "github.com/Carmen-Shannon/oxy-stars/common"

// ParticleSystemOption is a functional option for configuring a ParticleSystem.
type ParticleSystemOption func(*particleSystemImpl)

// WithCount sets the number of particles.
//
// Parameters:
//   - count: number of stars (default 100)
//
// Returns:
//   - ParticleSystemOption: functional option to set the count
func WithCount(count int) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		p.count = count
	}
}

// WithBounds sets the axis-aligned box particles are scattered in.
//
// Parameters:
//   - min: lower corner (default (-5, -2, -50))
//   - max: upper corner (default (5, 2, 50))
//
// Returns:
//   - ParticleSystemOption: functional option to set the bounds
func WithBounds(min, max common.Vec3) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		p.boundsMin = min
		p.boundsMax = max
	}
}

// WithSeed sets the random seed for particle placement.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - ParticleSystemOption: functional option to set the seed
func WithSeed(seed int64) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		p.seed = seed
	}
}

// WithSize sets the sprite size in world units.
func WithSize(size float32) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		if size > 0 {
			p.size = size
		}
	}
}

// WithBaseColor sets the initial colour of every particle.
func WithBaseColor(c [3]float32) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		p.baseColor = c
	}
}

// WithHighlightColor sets the colour applied by Highlight.
func WithHighlightColor(c [3]float32) ParticleSystemOption {
	return func(p *particleSystemImpl) {
		p.highlightColor = c
	}
}
