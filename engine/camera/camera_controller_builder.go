package camera

import "time"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithZoomPower sets the wheel sensitivity.
//
// Parameters:
//   - power: world units per viewport-height of wheel delta (default 10)
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom power
func WithZoomPower(power float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomPower = power
	}
}

// WithTranslatePower sets the drag sensitivity.
//
// Parameters:
//   - power: world units per viewport-width of drag (default 20)
//
// Returns:
//   - CameraControllerOption: functional option to set the translate power
func WithTranslatePower(power float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.translatePower = power
	}
}

// WithWheelDecay sets how long the wheel stays active after the last wheel event.
//
// Parameters:
//   - decay: quiet period (default 100ms)
//
// Returns:
//   - CameraControllerOption: functional option to set the wheel decay
func WithWheelDecay(decay time.Duration) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.wheelDecay = decay
	}
}

// WithPanNormalization selects the viewport axis used to normalize drag deltas.
//
// Parameters:
//   - n: PanNormalizeWidth (default) or PanNormalizeHeight
//
// Returns:
//   - CameraControllerOption: functional option to set the normalization axis
func WithPanNormalization(n PanNormalization) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panNormalization = n
	}
}

// WithPanDepthScaling multiplies the pan offset by the camera's z so pan speed grows with
// distance from the origin plane.
//
// Parameters:
//   - enabled: true to scale by depth (default false)
//
// Returns:
//   - CameraControllerOption: functional option to toggle depth scaling
func WithPanDepthScaling(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panDepthScaling = enabled
	}
}

// WithClock replaces the time source used for wheel decay.
func WithClock(now func() time.Time) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if now != nil {
			cc.now = now
		}
	}
}
