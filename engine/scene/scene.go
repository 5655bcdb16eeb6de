package scene

import (
	"errors"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/gui"
	"github.com/Carmen-Shannon/oxy-stars/engine/input"
	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/Carmen-Shannon/oxy-stars/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-stars/engine/renderer"
)

// Panel folder and control names bound by BindPanel. They double as the keys of the
// parameter file.
const (
	FolderBloom  = "Bloom Parameters"
	FolderCamera = "Camera"

	ControlExposure       = "exposure"
	ControlBloomThreshold = "bloomThreshold"
	ControlBloomStrength  = "bloomStrength"
	ControlBloomRadius    = "bloomRadius"

	ControlZoomPower      = "zoomPower"
	ControlTranslatePower = "translatePower"
	ControlFov            = "fov"
)

// DefaultPickChunkSize is the star count above which hover picking is split across the worker pool.
const DefaultPickChunkSize = 4096

// UpdateStats reports what a single Update did.
type UpdateStats struct {
	// CameraSkipped is true when the surface had no area and camera input was left pending.
	CameraSkipped bool

	// Hovered is the star picked by the most recent Pick, or -1.
	Hovered int
}

// PickStats reports what a single Pick did.
type PickStats struct {
	// Skipped is true when no picking ray could be built because the surface had no area.
	Skipped bool

	// Hits is the number of stars within the picking threshold of the ray.
	Hits int

	// Hovered is the index of the nearest star under the pointer, or -1.
	Hovered int
}

// Scene is the application context of the star viewer. It owns the camera, its controller and
// raycaster, the star field, the bloom parameters and the renderer. Update and Render run once
// per frame; Pick runs at its own rate.
// Thread-safe for concurrent access.
type Scene interface {
	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the mouse camera controller.
	Controller() camera.CameraController

	// Raycaster returns the picking raycaster.
	Raycaster() camera.Raycaster

	// Particles returns the star field.
	Particles() particles.ParticleSystem

	// Bloom returns the bloom parameters.
	Bloom() postprocess.BloomPass

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Update applies pending camera input. A degenerate viewport skips the frame's camera work;
	// pending input stays queued for the next frame.
	//
	// Returns:
	//   - UpdateStats: what the update did
	Update() UpdateStats

	// Pick recomputes the picking ray from the current pointer and camera and highlights the
	// nearest star under the pointer.
	//
	// Returns:
	//   - PickStats: what the pick did
	Pick() PickStats

	// Render draws one frame.
	//
	// Returns:
	//   - error: an error from the renderer
	Render() error

	// Resize updates the camera aspect ratio and the renderer surface.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// BindPanel adds the bloom and camera folders to panel and wires their controls to the
	// scene. Control values are initialised from the current scene state.
	//
	// Parameters:
	//   - panel: the panel to populate
	BindPanel(panel *gui.Panel)

	// HoveredIndex returns the star picked by the last Pick.
	//
	// Returns:
	//   - int: the star index, or -1 when the pointer is over empty space
	HoveredIndex() int

	// ResetCamera moves the camera back to its initial position.
	ResetCamera()

	// Release disposes the controller and releases the renderer.
	Release()
}

type scene struct {
	mu *sync.Mutex

	cam        camera.Camera
	controller camera.CameraController
	raycaster  camera.Raycaster
	stars      particles.ParticleSystem
	bloom      postprocess.BloomPass
	r          renderer.Renderer

	controllerOptions []camera.CameraControllerOption
	homePosition      common.Vec3

	// positions is a snapshot of the star positions; stars never move after generation.
	positions []common.Vec3
	hovered   int

	// uploadedCount is the star count of the last instance upload, -1 before the first.
	uploadedCount int

	// pickPool splits hover picking across reusable goroutines when the star count exceeds
	// pickChunk. Workers persist across frames.
	pickPool    worker.DynamicWorkerPool
	pickWorkers int
	pickChunk   int

	released bool
}

var _ Scene = &scene{}

// NewScene creates the viewer scene. The renderer provides the drawing-buffer size to the
// camera controller and events feeds it pointer and wheel input. Both are required and
// NewScene panics if the renderer is nil.
//
// Parameters:
//   - r: the renderer to draw with (must not be nil)
//   - events: the pointer and wheel event source, or nil for a scene without mouse input
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(r renderer.Renderer, events input.EventSource, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:            &sync.Mutex{},
		r:             r,
		hovered:       -1,
		uploadedCount: -1,
		pickWorkers:   max(runtime.NumCPU()-1, 1),
		pickChunk:     DefaultPickChunkSize,
	}

	for _, option := range options {
		option(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	if s.raycaster == nil {
		s.raycaster = camera.NewRaycaster()
	}
	if s.stars == nil {
		s.stars = particles.NewParticleSystem()
	}
	if s.bloom == nil {
		s.bloom = postprocess.NewBloomPass()
	}

	if w, h := r.DrawingBufferSize(); w > 0 && h > 0 {
		s.cam.SetAspect(float32(w) / float32(h))
	}
	s.cam.UpdateProjectionMatrix()
	s.homePosition = s.cam.Position()
	s.positions = s.stars.Positions()

	s.controller = camera.NewCameraController(r, s.cam, s.raycaster, events, s.controllerOptions...)

	// Initialize the pool after options so WithPickWorkers can override the default.
	s.pickPool = worker.NewDynamicWorkerPool(s.pickWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Controller() camera.CameraController {
	return s.controller
}

func (s *scene) Raycaster() camera.Raycaster {
	return s.raycaster
}

func (s *scene) Particles() particles.ParticleSystem {
	return s.stars
}

func (s *scene) Bloom() postprocess.BloomPass {
	return s.bloom
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Update() UpdateStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := UpdateStats{Hovered: s.hovered}
	if err := s.controller.UpdateCamera(); err != nil {
		if !errors.Is(err, camera.ErrDegenerateViewport) {
			log.Printf("[Scene] camera update failed: %v", err)
		}
		stats.CameraSkipped = true
	}
	return stats
}

func (s *scene) Pick() PickStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.controller.UpdatePickingRay(); err != nil {
		return PickStats{Skipped: true, Hovered: s.hovered}
	}

	hits := s.pick()
	if len(hits) == 0 {
		s.hovered = -1
	} else {
		s.hovered = hits[0].Index
		if err := s.stars.Highlight(s.hovered); err != nil {
			log.Printf("[Scene] highlight star %d: %v", s.hovered, err)
		}
	}
	return PickStats{Hits: len(hits), Hovered: s.hovered}
}

// pick intersects the current picking ray with every star and returns the hits nearest first.
// Large star fields are split into chunks handled by the pick pool. Caller must hold the mutex.
func (s *scene) pick() []camera.Intersection {
	n := len(s.positions)
	if n <= s.pickChunk {
		return s.raycaster.IntersectPoints(s.positions)
	}

	chunks := (n + s.pickChunk - 1) / s.pickChunk
	results := make([][]camera.Intersection, chunks)

	// A WaitGroup provides the per-frame barrier; the pool itself only idles out workers.
	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		start := c * s.pickChunk
		end := min(start+s.pickChunk, n)

		wg.Add(1)
		id := c
		s.pickPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				results[id] = s.raycaster.IntersectRange(s.positions, start, end)
				return nil, nil
			},
		})
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	hits := make([]camera.Intersection, 0, total)
	for _, r := range results {
		hits = append(hits, r...)
	}
	camera.SortIntersections(hits)
	return hits
}

func (s *scene) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.r.DrawingBufferSize()
	if width <= 0 || height <= 0 {
		return nil
	}

	count := s.stars.Count()
	upload := s.stars.Dirty() || count != s.uploadedCount
	frame := renderer.StarFrame{
		Camera:          s.cam.GPUUniform(height),
		Bloom:           s.bloom.Uniform(),
		Count:           count,
		UploadParticles: upload,
	}
	if upload {
		frame.Particles = s.stars.InstanceData()
	}
	if err := s.r.RenderStars(frame); err != nil {
		s.uploadedCount = -1
		return err
	}
	if upload {
		s.stars.ClearDirty()
		s.uploadedCount = count
	}
	return nil
}

func (s *scene) Resize(width, height int) {
	s.r.Resize(width, height)
	if width <= 0 || height <= 0 {
		return
	}
	s.cam.SetAspect(float32(width) / float32(height))
	s.cam.UpdateProjectionMatrix()
}

func (s *scene) BindPanel(panel *gui.Panel) {
	bloomFolder := panel.AddFolder(FolderBloom)
	bloomFolder.Add(ControlExposure, postprocess.MinExposure, postprocess.MaxExposure).
		Init(s.bloom.Exposure()).
		OnChange(s.bloom.SetExposure)
	bloomFolder.Add(ControlBloomThreshold, postprocess.MinThreshold, postprocess.MaxThreshold).
		Init(s.bloom.Threshold()).
		OnChange(s.bloom.SetThreshold)
	bloomFolder.Add(ControlBloomStrength, postprocess.MinStrength, postprocess.MaxStrength).
		Init(s.bloom.Strength()).
		OnChange(s.bloom.SetStrength)
	bloomFolder.Add(ControlBloomRadius, postprocess.MinRadius, postprocess.MaxRadius).
		Step(0.01).
		Init(s.bloom.Radius()).
		OnChange(s.bloom.SetRadius)

	cameraFolder := panel.AddFolder(FolderCamera)
	cameraFolder.Add(ControlZoomPower, 0, 50).
		Init(s.controller.ZoomPower()).
		OnChange(s.controller.SetZoomPower)
	cameraFolder.Add(ControlTranslatePower, 0, 100).
		Init(s.controller.TranslatePower()).
		OnChange(s.controller.SetTranslatePower)
	cameraFolder.Add(ControlFov, 10, 120).
		Init(common.RadToDeg(s.cam.Fov())).
		OnChange(func(deg float32) {
			s.cam.SetFov(common.DegToRad(deg))
			s.cam.UpdateProjectionMatrix()
		})
}

func (s *scene) HoveredIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovered
}

func (s *scene) ResetCamera() {
	s.cam.SetPosition(s.homePosition)
	s.cam.UpdateProjectionMatrix()
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.controller.Dispose()
	s.r.Release()
}
