package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/gui"
	"github.com/Carmen-Shannon/oxy-stars/engine/input"
	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/Carmen-Shannon/oxy-stars/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	w, h     int
	frames   []renderer.StarFrame
	err      error
	released int
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) Resize(w, h int)                     { f.w, f.h = w, h }
func (f *fakeRenderer) DrawingBufferSize() (int, int)       { return f.w, f.h }
func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (f *fakeRenderer) FrameCount() uint64                  { return uint64(len(f.frames)) }
func (f *fakeRenderer) Release()                            { f.released++ }
func (f *fakeRenderer) RenderStars(fr renderer.StarFrame) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, fr)
	return nil
}

func singleStar() particles.ParticleSystem {
	return particles.NewParticleSystem(
		particles.WithCount(1),
		particles.WithBounds(common.V3(0, 0, 0), common.V3(0, 0, 0)),
	)
}

func TestNewSceneUsesSurfaceAspect(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 400}
	s := NewScene(r, input.NewDispatcher())

	assert.Equal(t, float32(2), s.Camera().Aspect())
	assert.Equal(t, 100, s.Particles().Count())
	assert.Equal(t, -1, s.HoveredIndex())
	assert.Same(t, s.Camera(), s.Controller().Camera())
}

func TestNewScenePanicsWithoutRenderer(t *testing.T) {
	assert.Panics(t, func() { NewScene(nil, nil) })
}

func TestPickHighlightsStarUnderPointer(t *testing.T) {
	events := input.NewDispatcher()
	s := NewScene(&fakeRenderer{w: 800, h: 600}, events, WithParticles(singleStar()))

	events.DispatchPointerMove(input.PointerEvent{X: 400, Y: 300})
	assert.Equal(t, -1, s.Update().Hovered)
	stats := s.Pick()

	assert.False(t, stats.Skipped)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 0, stats.Hovered)
	assert.Equal(t, 0, s.HoveredIndex())

	c, err := s.Particles().Color(0)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{191.0 / 255.0, 1, 0}, c)

	// Moving away clears the hover but the colour persists.
	assert.Equal(t, 0, s.Update().Hovered)

	events.DispatchPointerMove(input.PointerEvent{X: 0, Y: 0})
	stats = s.Pick()
	assert.Equal(t, 0, stats.Hits)
	assert.Equal(t, -1, s.HoveredIndex())
	c, err = s.Particles().Color(0)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{191.0 / 255.0, 1, 0}, c)
}

func TestParallelPickMatchesSequential(t *testing.T) {
	newField := func() particles.ParticleSystem {
		return particles.NewParticleSystem(
			particles.WithCount(2000),
			particles.WithSeed(7),
			particles.WithBounds(common.V3(-0.05, -0.05, -50), common.V3(0.05, 0.05, 0)),
		)
	}

	seqEvents := input.NewDispatcher()
	seq := NewScene(&fakeRenderer{w: 800, h: 600}, seqEvents,
		WithParticles(newField()), WithPickChunkSize(10000))
	parEvents := input.NewDispatcher()
	par := NewScene(&fakeRenderer{w: 800, h: 600}, parEvents,
		WithParticles(newField()), WithPickChunkSize(64), WithPickWorkers(4))

	seqEvents.DispatchPointerMove(input.PointerEvent{X: 400, Y: 300})
	parEvents.DispatchPointerMove(input.PointerEvent{X: 400, Y: 300})
	seqStats := seq.Pick()
	parStats := par.Pick()

	assert.Equal(t, 2000, seqStats.Hits)
	assert.Equal(t, seqStats, parStats)

	// The nearest star on the view axis is the one closest to the camera.
	nearest := 0
	positions := seq.Particles().Positions()
	for i, p := range positions {
		if p.Z > positions[nearest].Z {
			nearest = i
		}
	}
	assert.Equal(t, nearest, parStats.Hovered)
}

func TestUpdateSkipsDegenerateViewport(t *testing.T) {
	r := &fakeRenderer{}
	events := input.NewDispatcher()
	s := NewScene(r, events, WithParticles(singleStar()))
	before := s.Camera().Position()

	events.DispatchPointerDown(input.PointerEvent{})
	events.DispatchPointerMove(input.PointerEvent{X: 80})
	stats := s.Update()

	assert.True(t, stats.CameraSkipped)
	assert.Equal(t, -1, stats.Hovered)
	assert.Equal(t, before, s.Camera().Position())
	assert.Equal(t, PickStats{Skipped: true, Hovered: -1}, s.Pick())

	// The drag is still pending once the surface has area again.
	s.Resize(800, 600)
	stats = s.Update()
	assert.False(t, stats.CameraSkipped)
	assert.InDelta(t, -2, s.Camera().Position().X, 1e-5)
}

func TestRenderUploadsOnlyWhenDirty(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 600}
	events := input.NewDispatcher()
	s := NewScene(r, events, WithParticles(singleStar()))

	require.NoError(t, s.Render())
	require.NoError(t, s.Render())
	require.Len(t, r.frames, 2)
	assert.True(t, r.frames[0].UploadParticles)
	assert.Len(t, r.frames[0].Particles, 1)
	assert.False(t, r.frames[1].UploadParticles)
	assert.Nil(t, r.frames[1].Particles, "instance data is only built for uploads")
	assert.Equal(t, 1, r.frames[1].Count)
	assert.Equal(t, s.Camera().GPUUniform(600), r.frames[1].Camera)
	assert.Equal(t, s.Bloom().Uniform(), r.frames[1].Bloom)

	events.DispatchPointerMove(input.PointerEvent{X: 400, Y: 300})
	s.Pick()
	require.NoError(t, s.Render())
	assert.True(t, r.frames[2].UploadParticles)
	assert.Len(t, r.frames[2].Particles, 1)
}

func TestRenderSkipsZeroAreaSurface(t *testing.T) {
	r := &fakeRenderer{}
	s := NewScene(r, nil, WithParticles(singleStar()))

	require.NoError(t, s.Render())
	assert.Empty(t, r.frames)
	assert.True(t, s.Particles().Dirty())
}

func TestRenderErrorForcesReupload(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 600}
	s := NewScene(r, nil)
	require.NoError(t, s.Render())

	r.err = errors.New("device lost")
	assert.EqualError(t, s.Render(), "device lost")

	r.err = nil
	require.NoError(t, s.Render())
	require.Len(t, r.frames, 2)
	assert.True(t, r.frames[1].UploadParticles)
	assert.Len(t, r.frames[1].Particles, 100)
}

func TestRenderErrorKeepsParticlesDirty(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 600, err: errors.New("device lost")}
	s := NewScene(r, nil)

	assert.EqualError(t, s.Render(), "device lost")
	assert.True(t, s.Particles().Dirty())
}

func TestResizeUpdatesAspect(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 600}
	s := NewScene(r, nil)

	s.Resize(1000, 500)
	assert.Equal(t, float32(2), s.Camera().Aspect())
	w, h := r.DrawingBufferSize()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)

	s.Resize(0, 0)
	assert.Equal(t, float32(2), s.Camera().Aspect())
}

func TestBindPanelWiresControls(t *testing.T) {
	s := NewScene(&fakeRenderer{w: 800, h: 600}, nil)
	panel := gui.NewPanel("params")
	s.BindPanel(panel)

	snap := panel.Snapshot()
	assert.Equal(t, float32(1), snap[FolderBloom][ControlExposure])
	assert.Equal(t, float32(2), snap[FolderBloom][ControlBloomStrength])
	assert.Equal(t, float32(0.5), snap[FolderBloom][ControlBloomThreshold])
	assert.Equal(t, float32(1), snap[FolderBloom][ControlBloomRadius])
	assert.Equal(t, float32(10), snap[FolderCamera][ControlZoomPower])
	assert.Equal(t, float32(20), snap[FolderCamera][ControlTranslatePower])
	assert.InDelta(t, 50, snap[FolderCamera][ControlFov], 1e-3)

	errs := panel.Apply(map[string]map[string]float32{
		FolderBloom:  {ControlBloomStrength: 5, ControlExposure: 1.5},
		FolderCamera: {ControlZoomPower: 25, ControlTranslatePower: 40, ControlFov: 90},
	})
	assert.Empty(t, errs)

	assert.Equal(t, float32(5), s.Bloom().Strength())
	assert.Equal(t, float32(1.5), s.Bloom().Exposure())
	assert.Equal(t, float32(25), s.Controller().ZoomPower())
	assert.Equal(t, float32(40), s.Controller().TranslatePower())
	assert.InDelta(t, common.DegToRad(90), s.Camera().Fov(), 1e-6)
	assert.InDelta(t, 1, s.Camera().ProjectionMatrix()[5], 1e-5)
}

func TestResetCamera(t *testing.T) {
	events := input.NewDispatcher()
	s := NewScene(&fakeRenderer{w: 800, h: 600}, events)

	events.DispatchPointerDown(input.PointerEvent{})
	events.DispatchPointerMove(input.PointerEvent{X: 80, Y: 60})
	s.Update()
	require.NotEqual(t, common.V3(0, 0, 5), s.Camera().Position())

	s.ResetCamera()
	assert.Equal(t, common.V3(0, 0, 5), s.Camera().Position())
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := &fakeRenderer{w: 800, h: 600}
	events := input.NewDispatcher()
	s := NewScene(r, events, WithControllerOptions(camera.WithZoomPower(3)))
	assert.Equal(t, float32(3), s.Controller().ZoomPower())
	assert.Equal(t, 4, events.ListenerCount())

	s.Release()
	s.Release()

	assert.Equal(t, 1, r.released)
	assert.Equal(t, 0, events.ListenerCount())
}
