// Package postprocess holds the bloom (glow) stage parameters and their GPU uniform.
package postprocess

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/chewxy/math32"
)

// Parameter ranges accepted by BloomPass setters.
const (
	MinExposure  = 0.1
	MaxExposure  = 2.0
	MinStrength  = 0.0
	MaxStrength  = 10.0
	MinThreshold = 0.0
	MaxThreshold = 1.0
	MinRadius    = 0.0
	MaxRadius    = 1.0
)

// BloomPass extracts bright regions, spreads them by radius, and adds them back scaled by strength.
// Exposure is applied through tone mapping as exposure^4.
type BloomPass interface {
	// Exposure returns the exposure before tone mapping.
	//
	// Returns:
	//   - float32: exposure in [0.1, 2]
	Exposure() float32

	// SetExposure sets the exposure, clamped to [0.1, 2].
	//
	// Parameters:
	//   - v: the exposure
	SetExposure(v float32)

	// Strength returns the bloom strength.
	//
	// Returns:
	//   - float32: strength in [0, 10]
	Strength() float32

	// SetStrength sets the bloom strength, clamped to [0, 10].
	//
	// Parameters:
	//   - v: the strength
	SetStrength(v float32)

	// Threshold returns the luminance threshold above which pixels bloom.
	//
	// Returns:
	//   - float32: threshold in [0, 1]
	Threshold() float32

	// SetThreshold sets the luminance threshold, clamped to [0, 1].
	//
	// Parameters:
	//   - v: the threshold
	SetThreshold(v float32)

	// Radius returns the bloom spread.
	//
	// Returns:
	//   - float32: radius in [0, 1]
	Radius() float32

	// SetRadius sets the bloom spread, clamped to [0, 1].
	//
	// Parameters:
	//   - v: the radius
	SetRadius(v float32)

	// ToneMappingExposure returns the exposure used by the tone mapper.
	//
	// Returns:
	//   - float32: exposure^4
	ToneMappingExposure() float32

	// Uniform returns the GPU uniform for the current parameters.
	//
	// Returns:
	//   - GPUBloomUniform: the uniform data
	Uniform() GPUBloomUniform
}

type bloomPassImpl struct {
	mu *sync.Mutex

	exposure  float32
	strength  float32
	threshold float32
	radius    float32
}

var _ BloomPass = &bloomPassImpl{}

// NewBloomPass creates a bloom pass with exposure 1, strength 2, threshold 0.5 and radius 1.
//
// Parameters:
//   - options: functional options to configure the pass
//
// Returns:
//   - BloomPass: the bloom pass
func NewBloomPass(options ...BloomPassOption) BloomPass {
	b := &bloomPassImpl{
		mu:        &sync.Mutex{},
		exposure:  1,
		strength:  2,
		threshold: 0.5,
		radius:    1,
	}
	for _, option := range options {
		option(b)
	}
	b.exposure = common.Clamp(b.exposure, MinExposure, MaxExposure)
	b.strength = common.Clamp(b.strength, MinStrength, MaxStrength)
	b.threshold = common.Clamp(b.threshold, MinThreshold, MaxThreshold)
	b.radius = common.Clamp(b.radius, MinRadius, MaxRadius)
	return b
}

func (b *bloomPassImpl) Exposure() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exposure
}

func (b *bloomPassImpl) SetExposure(v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exposure = common.Clamp(v, MinExposure, MaxExposure)
}

func (b *bloomPassImpl) Strength() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.strength
}

func (b *bloomPassImpl) SetStrength(v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.strength = common.Clamp(v, MinStrength, MaxStrength)
}

func (b *bloomPassImpl) Threshold() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.threshold
}

func (b *bloomPassImpl) SetThreshold(v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.threshold = common.Clamp(v, MinThreshold, MaxThreshold)
}

func (b *bloomPassImpl) Radius() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.radius
}

func (b *bloomPassImpl) SetRadius(v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.radius = common.Clamp(v, MinRadius, MaxRadius)
}

func (b *bloomPassImpl) ToneMappingExposure() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return math32.Pow(b.exposure, 4)
}

func (b *bloomPassImpl) Uniform() GPUBloomUniform {
	b.mu.Lock()
	defer b.mu.Unlock()
	return GPUBloomUniform{
		Strength:  b.strength,
		Threshold: b.threshold,
		Radius:    b.radius,
		Exposure:  math32.Pow(b.exposure, 4),
	}
}
