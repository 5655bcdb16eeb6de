package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrStaleInstances is returned when a frame draws a different star count than was last uploaded
// without uploading new instance data.
var ErrStaleInstances = errors.New("renderer: instance data not uploaded for star count")

// SurfaceSource provides what the renderer needs from a window to create its surface.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform surface descriptor.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// DrawingBufferSize returns the framebuffer size in pixels.
	DrawingBufferSize() (width, height int)
}

// Renderer draws the star field. It tracks the configured surface size so the camera controller
// and picking code can query the drawing-buffer size from the same place frames are drawn to.
type Renderer interface {
	// Resize reconfigures the surface. Zero sizes (a minimized window) are recorded but the
	// surface is left as is until a non-zero size arrives.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// DrawingBufferSize returns the current surface size.
	//
	// Returns:
	//   - width, height: size in pixels
	DrawingBufferSize() (width, height int)

	// RenderStars draws and presents one frame. Frames are skipped while the surface has no area.
	//
	// Parameters:
	//   - frame: the frame data
	//
	// Returns:
	//   - error: ErrStaleInstances if frame.Count changed without an upload, or a backend error
	RenderStars(frame StarFrame) error

	// SetPresentMode sets the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// FrameCount returns the number of frames presented.
	//
	// Returns:
	//   - uint64: frames presented since creation
	FrameCount() uint64

	// Release frees GPU resources. The renderer must not be used afterwards.
	Release()
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width         int
	height        int
	uploadedCount int
	frames        uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           [4]float64
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface source, typically the window.
// Panics if the GPU adapter or device cannot be acquired.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - source: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := newRenderer(options...)

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter, r.sampleCount)
	}
	r.backendType = backendType

	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.Resize(source.DrawingBufferSize())
	return r
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		clearColor:  [4]float64{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
	if width > 0 && height > 0 {
		r.backend.ConfigureSurface(width, height)
	}
}

func (r *renderer) DrawingBufferSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) RenderStars(frame StarFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width <= 0 || r.height <= 0 {
		return nil
	}

	uniform := GPUStarUniform{Camera: frame.Camera, Bloom: frame.Bloom}
	var instances []byte
	count := frame.Count
	switch {
	case frame.UploadParticles:
		count = len(frame.Particles)
		instances = particles.MarshalParticles(frame.Particles)
	case count != r.uploadedCount:
		return fmt.Errorf("%w: drawing %d stars with %d uploaded", ErrStaleInstances, count, r.uploadedCount)
	}

	if err := r.backend.DrawStars(uniform.Marshal(), instances, uint32(count)); err != nil {
		return fmt.Errorf("failed to draw %d stars: %w", count, err)
	}
	if instances != nil {
		r.uploadedCount = count
	}
	r.frames++
	return nil
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		r.backend.Release()
	}
}
