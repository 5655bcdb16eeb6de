package camera

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/input"
	"github.com/chewxy/math32"
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	surface   Surface
	camera    Camera
	raycaster Raycaster
	events    input.EventSource
	listeners []input.ListenerID

	// Pointer state
	pointer     common.Vec2
	dragDelta   common.Vec2
	pointerDown bool

	// Wheel state
	wheelDelta    float32
	wheelDeadline time.Time
	wheelDecay    time.Duration

	// Tuning
	zoomPower        float32
	translatePower   float32
	panNormalization PanNormalization
	panDepthScaling  bool

	now func() time.Time
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam and subscribes it to pointer and wheel input.
// Call Dispose to unsubscribe.
//
// Parameters:
//   - surface: drawing surface queried for its size on every update
//   - cam: the camera to move
//   - rc: the raycaster used for zoom direction and picking
//   - events: the input source to subscribe to
//   - options: functional options to configure sensitivities and decay
//
// Returns:
//   - CameraController: the new controller
func NewCameraController(surface Surface, cam Camera, rc Raycaster, events input.EventSource, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		surface:          surface,
		camera:           cam,
		raycaster:        rc,
		events:           events,
		wheelDecay:       100 * time.Millisecond,
		zoomPower:        10,
		translatePower:   20,
		panNormalization: PanNormalizeWidth,
		now:              time.Now,
	}
	for _, option := range options {
		option(cc)
	}

	if events != nil {
		cc.listeners = []input.ListenerID{
			events.OnPointerMove(cc.onPointerMove),
			events.OnPointerDown(cc.onPointerDown),
			events.OnPointerUp(cc.onPointerUp),
			events.OnWheel(cc.onWheel),
		}
	}
	return cc
}

func (cc *cameraControllerImpl) onPointerDown(input.PointerEvent) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pointerDown = true
}

func (cc *cameraControllerImpl) onPointerUp(input.PointerEvent) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pointerDown = false
	cc.dragDelta = common.Vec2{}
}

func (cc *cameraControllerImpl) onPointerMove(e input.PointerEvent) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	next := common.V2(e.X, e.Y)
	if cc.pointerDown {
		cc.dragDelta = cc.dragDelta.Add(next.Sub(cc.pointer))
	}
	cc.pointer = next
}

func (cc *cameraControllerImpl) onWheel(e input.WheelEvent) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.wheelDelta += e.DeltaY
	cc.wheelDeadline = cc.now().Add(cc.wheelDecay)
}

func (cc *cameraControllerImpl) UpdateCamera() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	w, h := cc.surface.DrawingBufferSize()
	if w <= 0 || h <= 0 {
		return ErrDegenerateViewport
	}

	pos := cc.camera.Position()

	if cc.pointerDown {
		n := float32(w)
		if cc.panNormalization == PanNormalizeHeight {
			n = float32(h)
		}
		p := cc.translatePower
		if cc.panDepthScaling {
			p *= pos.Z
		}
		tx := cc.dragDelta.X / n * p
		ty := cc.dragDelta.Y / n * p
		pos.X -= tx
		pos.Y += ty
		cc.dragDelta = common.Vec2{}
		cc.camera.SetPosition(pos)
	}

	if cc.wheelActive() {
		zoom := -cc.wheelDelta / float32(h) * cc.zoomPower
		ray := cc.raycaster.SetFromCamera(PointerToNDC(cc.pointer.X, cc.pointer.Y, w, h), cc.camera)
		pos = pos.Add(ray.Direction.Scale(zoom))
		cc.wheelDelta = 0
		cc.camera.SetPosition(pos)
	} else {
		// The decay window closed before a frame applied the scroll.
		cc.wheelDelta = 0
	}

	if pos.Z < 0 {
		pos.Z = math32.Max(pos.Z, 0)
		cc.camera.SetPosition(pos)
	}

	cc.camera.UpdateProjectionMatrix()
	return nil
}

func (cc *cameraControllerImpl) UpdatePickingRay() (common.Ray, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	w, h := cc.surface.DrawingBufferSize()
	if w <= 0 || h <= 0 {
		return cc.raycaster.Ray(), ErrDegenerateViewport
	}
	return cc.raycaster.SetFromCamera(PointerToNDC(cc.pointer.X, cc.pointer.Y, w, h), cc.camera), nil
}

// wheelActive reports whether the latest wheel deadline is still in the future.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) wheelActive() bool {
	return cc.now().Before(cc.wheelDeadline)
}

func (cc *cameraControllerImpl) IsPointerDown() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pointerDown
}

func (cc *cameraControllerImpl) IsWheelActive() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.wheelActive()
}

func (cc *cameraControllerImpl) PointerPosition() common.Vec2 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pointer
}

func (cc *cameraControllerImpl) ZoomPower() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomPower
}

func (cc *cameraControllerImpl) SetZoomPower(power float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoomPower = power
}

func (cc *cameraControllerImpl) TranslatePower() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.translatePower
}

func (cc *cameraControllerImpl) SetTranslatePower(power float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.translatePower = power
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Dispose() {
	cc.mu.Lock()
	ids := cc.listeners
	cc.listeners = nil
	cc.mu.Unlock()

	for _, id := range ids {
		cc.events.RemoveListener(id)
	}
}
