package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/config"
	"github.com/Carmen-Shannon/oxy-stars/engine/gui"
	"github.com/Carmen-Shannon/oxy-stars/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stars/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	w, h int
}

func (r *stubRenderer) Resize(w, h int)                      { r.w, r.h = w, h }
func (r *stubRenderer) DrawingBufferSize() (int, int)        { return r.w, r.h }
func (r *stubRenderer) RenderStars(renderer.StarFrame) error { return nil }
func (r *stubRenderer) SetPresentMode(renderer.PresentMode)  {}
func (r *stubRenderer) FrameCount() uint64                   { return 0 }
func (r *stubRenderer) Release()                             {}

func execute(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(func(config.Config) error {
		t.Fatal("viewer must not start for the config command")
		return nil
	})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"config"}, args...))
	if err := cmd.Execute(); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	require.NoError(t, config.Decode(out.Bytes(), &cfg))
	return cfg, nil
}

func TestConfigCommandAppliesFlags(t *testing.T) {
	cfg, err := execute(t, "--width", "640", "--stars", "10", "--vsync=false", "--zoom-power", "5")
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 10, cfg.Stars.Count)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, float32(5), cfg.Controls.ZoomPower)
	assert.Equal(t, float32(20), cfg.Controls.TranslatePower)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stars.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stars]\ncount = 50\nseed = 3\n"), 0o644))

	cfg, err := execute(t, "--config", path, "--seed", "9")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Stars.Count)
	assert.Equal(t, int64(9), cfg.Stars.Seed)
}

func TestInvalidFlagIsRejected(t *testing.T) {
	_, err := execute(t, "--width=-1")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRootCommandRunsViewer(t *testing.T) {
	var got config.Config
	calls := 0
	cmd := newRootCmd(func(cfg config.Config) error {
		calls++
		got = cfg
		return nil
	})
	cmd.SetArgs([]string{"--translate-power", "1", "--profile", "--params", "params.toml"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 1, calls)
	assert.Equal(t, float32(1), got.Controls.TranslatePower)
	assert.True(t, got.Engine.Profile)
	assert.Equal(t, "params.toml", got.Engine.ParamsFile)
}

func TestSceneOptionsFromDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Controls.ZoomPower = 7
	cfg.Camera.PointThreshold = 0.25

	s := scene.NewScene(&stubRenderer{w: 1280, h: 720}, nil, sceneOptions(cfg)...)

	assert.Equal(t, common.V3(0, 0, 5), s.Camera().Position())
	assert.InDelta(t, common.DegToRad(50), s.Camera().Fov(), 1e-6)
	assert.Equal(t, 100, s.Particles().Count())
	assert.Equal(t, float32(2), s.Bloom().Strength())
	assert.Equal(t, float32(7), s.Controller().ZoomPower())
	assert.Equal(t, float32(0.25), s.Raycaster().PointThreshold())
}

func TestControllerOptions(t *testing.T) {
	c := config.Default().Controls
	c.TranslatePower = 3
	c.PanNormalize = "height"

	surface := &stubRenderer{w: 800, h: 400}
	cam := camera.NewCamera()
	cc := camera.NewCameraController(surface, cam, camera.NewRaycaster(), nil, controllerOptions(c)...)

	assert.Equal(t, float32(3), cc.TranslatePower())
	assert.Equal(t, float32(10), cc.ZoomPower())
}

func TestBindParamsLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(path, []byte("[\"Bloom Parameters\"]\nbloomStrength = 4\n"), 0o644))

	s := scene.NewScene(&stubRenderer{w: 800, h: 600}, nil)
	panel := gui.NewPanel("test")
	s.BindPanel(panel)

	fb, err := bindParams(panel, config.EngineConfig{ParamsFile: path, ReloadMillis: 10})
	require.NoError(t, err)
	defer fb.Close()

	assert.Equal(t, float32(4), s.Bloom().Strength())
}

func TestBindParamsToleratesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	s := scene.NewScene(&stubRenderer{w: 800, h: 600}, nil)
	panel := gui.NewPanel("test")
	s.BindPanel(panel)

	fb, err := bindParams(panel, config.EngineConfig{ParamsFile: path, ReloadMillis: 10})
	require.NoError(t, err)
	defer fb.Close()

	require.NoError(t, fb.Save())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
