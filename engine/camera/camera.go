package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stars/common"
)

// viewDirection is the fixed viewing direction of the camera. The viewer never rotates the
// camera; navigation is pan and zoom only.
var viewDirection = common.V3(0, 0, -1)

// Camera defines a perspective camera with a mutable position and field of view.
// Matrices are cached and only refreshed by UpdateProjectionMatrix, so callers mutate
// position/fov/aspect first and then refresh once per frame.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p common.Vec3)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - common.Vec3: the up vector
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// UpdateProjectionMatrix recomputes the view, projection and derived matrices from the
	// current position, fov and aspect.
	UpdateProjectionMatrix()

	// ViewMatrix returns the cached world-to-view matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the cached projection matrix.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns the cached combined projection * view matrix.
	//
	// Returns:
	//   - common.Mat4: the view-projection matrix
	ViewProjectionMatrix() common.Mat4

	// Unproject maps a normalized device coordinate (x, y in [-1, 1], z in [0, 1]) to
	// world space using the camera's current position and projection.
	//
	// Parameters:
	//   - ndc: the normalized device coordinate
	//
	// Returns:
	//   - common.Vec3: the world-space point
	Unproject(ndc common.Vec3) common.Vec3

	// GPUUniform returns the camera uniform for the given viewport height.
	//
	// Parameters:
	//   - viewportHeight: drawing-surface height in pixels, used for sprite size attenuation
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data
	GPUUniform(viewportHeight int) GPUCameraUniform
}

type cameraImpl struct {
	mu *sync.Mutex

	position common.Vec3
	up       common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              common.Mat4
	projectionMatrix        common.Mat4
	viewProjectionMatrix    common.Mat4
	inverseProjectionMatrix common.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera with the viewer's defaults: 50° vertical fov,
// aspect 1, near 0.1, far 1000, positioned at (0, 0, 5) looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera with matrices already computed
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: common.V3(0, 0, 5),
		up:       common.V3(0, 1, 0),
		fov:      50.0 * (math.Pi / 180.0),
		aspect:   1.0,
		near:     0.1,
		far:      1000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) UpdateProjectionMatrix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

// Unproject always uses the live position rather than the cached view matrix, so a ray
// computed mid-update already reflects a translate applied earlier in the same tick.
func (c *cameraImpl) Unproject(ndc common.Vec3) common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()

	invView, ok := common.Invert4(common.LookAt(c.position, c.position.Add(viewDirection), c.up))
	if !ok {
		invView = common.Identity()
	}
	viewSpace := common.TransformPoint(c.inverseProjectionMatrix, ndc)
	return common.TransformPoint(invView, viewSpace)
}

func (c *cameraImpl) GPUUniform(viewportHeight int) GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Pixels per world unit at distance 1, matching size-attenuated point sprites.
	scale := float32(viewportHeight) * 0.5 * c.projectionMatrix[5]
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position.Array(),
		PointScale:     scale,
	}
}

// updateMatrices recalculates the view, projection, view-projection, and inverse projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.position, c.position.Add(viewDirection), c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = common.Mul4(c.projectionMatrix, c.viewMatrix)

	if inv, ok := common.Invert4(c.projectionMatrix); ok {
		c.inverseProjectionMatrix = inv
	}
}
