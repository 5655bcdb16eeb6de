package postprocess

// BloomPassOption is a functional option for configuring a BloomPass.
// Values outside the accepted ranges are clamped at construction.
type BloomPassOption func(*bloomPassImpl)

// WithExposure sets the initial exposure.
func WithExposure(v float32) BloomPassOption {
	return func(b *bloomPassImpl) {
		b.exposure = v
	}
}

// WithStrength sets the initial bloom strength.
func WithStrength(v float32) BloomPassOption {
	return func(b *bloomPassImpl) {
		b.strength = v
	}
}

// WithThreshold sets the initial luminance threshold.
func WithThreshold(v float32) BloomPassOption {
	return func(b *bloomPassImpl) {
		b.threshold = v
	}
}

// WithRadius sets the initial bloom spread.
func WithRadius(v float32) BloomPassOption {
	return func(b *bloomPassImpl) {
		b.radius = v
	}
}
