package common

// Mouse button codes as delivered by the window layer.
// Values match GLFW mouse button indices.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#MouseButton
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)

// Virtual key codes used by the viewer's keyboard shortcuts.
// These values match GLFW key codes which use ASCII values for printable keys.
const (
	KeyP   = 80  // P key (ASCII), toggles the profiler
	KeyR   = 82  // R key (ASCII), resets the camera pose
	KeyS   = 83  // S key (ASCII), saves the parameter panel
	KeyEsc = 256 // Escape key (GLFW)
)
