package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine"
	"github.com/Carmen-Shannon/oxy-stars/engine/camera"
	"github.com/Carmen-Shannon/oxy-stars/engine/config"
	"github.com/Carmen-Shannon/oxy-stars/engine/gui"
	"github.com/Carmen-Shannon/oxy-stars/engine/particles"
	"github.com/Carmen-Shannon/oxy-stars/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-stars/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stars/engine/scene"
	"github.com/Carmen-Shannon/oxy-stars/engine/window"
	"github.com/spf13/cobra"
)

// loadConfig reads --config (or the defaults) and applies the explicitly set flags on top.
func loadConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyFlags overrides cfg with every flag the user set. Unset flags leave the file value.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var errs []error
	changed := func(name string) bool { return flags.Changed(name) }

	if changed("width") {
		v, err := flags.GetInt("width")
		errs = append(errs, err)
		cfg.Window.Width = v
	}
	if changed("height") {
		v, err := flags.GetInt("height")
		errs = append(errs, err)
		cfg.Window.Height = v
	}
	if changed("stars") {
		v, err := flags.GetInt("stars")
		errs = append(errs, err)
		cfg.Stars.Count = v
	}
	if changed("seed") {
		v, err := flags.GetInt64("seed")
		errs = append(errs, err)
		cfg.Stars.Seed = v
	}
	if changed("zoom-power") {
		v, err := flags.GetFloat32("zoom-power")
		errs = append(errs, err)
		cfg.Controls.ZoomPower = v
	}
	if changed("translate-power") {
		v, err := flags.GetFloat32("translate-power")
		errs = append(errs, err)
		cfg.Controls.TranslatePower = v
	}
	if changed("params") {
		v, err := flags.GetString("params")
		errs = append(errs, err)
		cfg.Engine.ParamsFile = v
	}
	if changed("profile") {
		v, err := flags.GetBool("profile")
		errs = append(errs, err)
		cfg.Engine.Profile = v
	}
	if changed("vsync") {
		v, err := flags.GetBool("vsync")
		errs = append(errs, err)
		cfg.Window.VSync = v
	}
	return errors.Join(errs...)
}

func windowOptions(cfg config.Config) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithWheelScale(cfg.Controls.WheelScale),
	}
}

func rendererOptions(cfg config.Config) []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		mode = renderer.PresentModeUncapped
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithClearColor([4]float64{0, 0, 0, 1}),
	}
}

func controllerOptions(c config.ControlsConfig) []camera.CameraControllerOption {
	norm := camera.PanNormalizeWidth
	if c.PanNormalize == "height" {
		norm = camera.PanNormalizeHeight
	}
	return []camera.CameraControllerOption{
		camera.WithZoomPower(c.ZoomPower),
		camera.WithTranslatePower(c.TranslatePower),
		camera.WithWheelDecay(time.Duration(c.WheelDecayMs) * time.Millisecond),
		camera.WithPanNormalization(norm),
		camera.WithPanDepthScaling(c.PanDepthScaling),
	}
}

// sceneOptions builds everything the scene owns except the renderer and input source.
func sceneOptions(cfg config.Config) []scene.SceneBuilderOption {
	pos := cfg.Camera.Position
	cam := camera.NewCamera(
		camera.WithPosition(pos[0], pos[1], pos[2]),
		camera.WithFovDegrees(cfg.Camera.Fov),
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
	)
	stars := particles.NewParticleSystem(
		particles.WithCount(cfg.Stars.Count),
		particles.WithSeed(cfg.Stars.Seed),
		particles.WithSize(cfg.Stars.Size),
		particles.WithBounds(common.V3(cfg.Stars.Min[0], cfg.Stars.Min[1], cfg.Stars.Min[2]),
			common.V3(cfg.Stars.Max[0], cfg.Stars.Max[1], cfg.Stars.Max[2])),
	)
	bloom := postprocess.NewBloomPass(
		postprocess.WithExposure(cfg.Bloom.Exposure),
		postprocess.WithStrength(cfg.Bloom.Strength),
		postprocess.WithThreshold(cfg.Bloom.Threshold),
		postprocess.WithRadius(cfg.Bloom.Radius),
	)

	return []scene.SceneBuilderOption{
		scene.WithCamera(cam),
		scene.WithRaycaster(camera.NewRaycaster(camera.WithPointThreshold(cfg.Camera.PointThreshold))),
		scene.WithParticles(stars),
		scene.WithBloom(bloom),
		scene.WithControllerOptions(controllerOptions(cfg.Controls)...),
		scene.WithPickWorkers(cfg.Engine.PickWorkers),
		scene.WithPickChunkSize(cfg.Engine.PickChunk),
	}
}

// bindParams attaches the panel to its parameter file. A missing file is created from the
// current values on the first save.
func bindParams(panel *gui.Panel, cfg config.EngineConfig) (*gui.FileBinding, error) {
	fb := gui.NewFileBinding(panel, cfg.ParamsFile,
		gui.WithDebounce(time.Duration(cfg.ReloadMillis)*time.Millisecond),
		gui.WithReloadHandler(func() {
			log.Printf("[Panel] reloaded %s", cfg.ParamsFile)
		}),
	)
	if err := fb.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[Panel] %v", err)
		}
	}
	if cfg.WatchParams {
		if err := fb.Watch(); err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", cfg.ParamsFile, err)
		}
	}
	return fb, nil
}

func runViewer(cfg config.Config) error {
	w := window.NewWindow(windowOptions(cfg)...)
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, w, rendererOptions(cfg)...)
	sc := scene.NewScene(r, w, sceneOptions(cfg)...)
	defer sc.Release()

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithScene(sc),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithProfiling(cfg.Engine.Profile),
	)

	panel := gui.NewPanel("oxy-stars")
	sc.BindPanel(panel)

	if cfg.Engine.ParamsFile != "" {
		fb, err := bindParams(panel, cfg.Engine)
		if err != nil {
			return err
		}
		defer fb.Close()

		eng.SetKeyBinding(common.KeyS, func() {
			if err := fb.Save(); err != nil {
				log.Printf("[Panel] %v", err)
				return
			}
			log.Printf("[Panel] saved %s", fb.Path())
		})
	}

	eng.Run()
	return nil
}
