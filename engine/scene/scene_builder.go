package scene

import (
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/Carmen-Shannon/oxy-stars/engine/postprocess"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the scene camera. Defaults to camera.NewCamera().
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithRaycaster sets the picking raycaster. Defaults to camera.NewRaycaster().
//
// Parameters:
//   - rc: the raycaster
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRaycaster(rc camera.Raycaster) SceneBuilderOption {
	return func(s *scene) {
		s.raycaster = rc
	}
}

// WithParticles sets the star field. Defaults to particles.NewParticleSystem().
//
// Parameters:
//   - ps: the particle system
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticles(ps particles.ParticleSystem) SceneBuilderOption {
	return func(s *scene) {
		s.stars = ps
	}
}

// WithBloom sets the bloom parameters. Defaults to postprocess.NewBloomPass().
//
// Parameters:
//   - b: the bloom pass
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBloom(b postprocess.BloomPass) SceneBuilderOption {
	return func(s *scene) {
		s.bloom = b
	}
}

// WithControllerOptions passes options through to the camera controller.
//
// Parameters:
//   - options: camera controller options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithControllerOptions(options ...camera.CameraControllerOption) SceneBuilderOption {
	return func(s *scene) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}

// WithPickWorkers sets the number of worker goroutines used for hover picking on large star
// fields. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of pick workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPickWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.pickWorkers = n
	}
}

// WithPickChunkSize sets how many stars a single pick task intersects. Star fields no larger
// than one chunk are picked on the calling goroutine.
//
// Parameters:
//   - n: stars per chunk (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPickChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.pickChunk = n
	}
}
