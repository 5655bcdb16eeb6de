package camera

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-stars/common"
)

// ErrDegenerateViewport is returned when the drawing surface has a zero or negative dimension.
// The update is skipped and no controller or camera state changes.
var ErrDegenerateViewport = errors.New("camera: degenerate viewport")

// Surface reports the current drawing-buffer size in pixels.
type Surface interface {
	// DrawingBufferSize returns the drawing-buffer dimensions.
	//
	// Returns:
	//   - width, height: size in pixels
	DrawingBufferSize() (width, height int)
}

// PanNormalization selects which viewport axis drag deltas are divided by.
type PanNormalization int

const (
	// PanNormalizeWidth divides both drag axes by the viewport width.
	PanNormalizeWidth PanNormalization = iota
	// PanNormalizeHeight divides both drag axes by the viewport height.
	PanNormalizeHeight
)

// String returns the option name.
func (p PanNormalization) String() string {
	switch p {
	case PanNormalizeHeight:
		return "height"
	default:
		return "width"
	}
}

// CameraController translates pointer drags into camera pans and wheel input into zoom toward
// the point under the cursor. Input listeners accumulate deltas; UpdateCamera applies them once
// per render tick.
type CameraController interface {
	// UpdateCamera applies accumulated drag and wheel input to the camera, clamps z to be
	// non-negative and refreshes the camera matrices. Wheel delta whose decay window has closed
	// is discarded without zooming. With no input since the previous call it leaves camera
	// position and all accumulators unchanged.
	//
	// Returns:
	//   - error: ErrDegenerateViewport if the surface has no area; nothing is applied
	UpdateCamera() error

	// UpdatePickingRay recomputes the raycaster's ray through the last pointer position.
	//
	// Returns:
	//   - common.Ray: the new picking ray
	//   - error: ErrDegenerateViewport if the surface has no area
	UpdatePickingRay() (common.Ray, error)

	// IsPointerDown reports whether the pan button is held.
	//
	// Returns:
	//   - bool: true while the button is held
	IsPointerDown() bool

	// IsWheelActive reports whether a wheel event arrived within the decay period.
	//
	// Returns:
	//   - bool: true while the wheel is considered active
	IsWheelActive() bool

	// PointerPosition returns the last known pointer position in surface pixels.
	//
	// Returns:
	//   - common.Vec2: the pointer position
	PointerPosition() common.Vec2

	// ZoomPower returns the wheel sensitivity.
	//
	// Returns:
	//   - float32: the zoom power
	ZoomPower() float32

	// SetZoomPower sets the wheel sensitivity.
	//
	// Parameters:
	//   - power: the new zoom power
	SetZoomPower(power float32)

	// TranslatePower returns the drag sensitivity.
	//
	// Returns:
	//   - float32: the translate power
	TranslatePower() float32

	// SetTranslatePower sets the drag sensitivity.
	//
	// Parameters:
	//   - power: the new translate power
	SetTranslatePower(power float32)

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera

	// Dispose unregisters the controller's input listeners. Safe to call more than once.
	Dispose()
}

// PointerToNDC converts a pixel position to normalized device coordinates. The y axis is
// flipped: screen y grows downward, NDC y grows upward.
//
// Parameters:
//   - x, y: pointer position in pixels, origin at the top-left corner
//   - width, height: viewport size in pixels, both > 0
//
// Returns:
//   - common.Vec2: NDC in [-1, 1] for points inside the viewport
func PointerToNDC(x, y float32, width, height int) common.Vec2 {
	return common.V2(
		2*x/float32(width)-1,
		-(2*y/float32(height) - 1),
	)
}
