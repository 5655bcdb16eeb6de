package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU API the Renderer drives. One call to DrawStars renders and
// presents one frame.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and any size-dependent targets.
	//
	// Parameters:
	//   - width, height: surface size in pixels, both > 0
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background colour.
	//
	// Parameters:
	//   - c: linear RGBA
	SetClearColor(c [4]float64)

	// DrawStars uploads the uniform block (and instance data when non-nil), draws count
	// instanced quads, and presents.
	//
	// Parameters:
	//   - uniform: the marshalled GPUStarUniform
	//   - instances: marshalled particles, or nil to keep the previous upload
	//   - count: number of star instances to draw
	//
	// Returns:
	//   - error: surface acquisition or encoding failure
	DrawStars(uniform, instances []byte, count uint32) error

	// Release frees all GPU resources.
	Release()
}
