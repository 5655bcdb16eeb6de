package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/Carmen-Shannon/oxy-stars/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stars/engine/scene"
	"github.com/Carmen-Shannon/oxy-stars/engine/window"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	scene  scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	keyBindings map[uint32]func()

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the viewer.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil for a headless engine
	Window() window.Window

	// Scene returns the scene driven by the render loop.
	//
	// Returns:
	//   - scene.Scene: the scene, or nil if none was set
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ToggleProfiler flips profiling output on or off.
	//
	// Returns:
	//   - bool: true if profiling is now enabled
	ToggleProfiler() bool

	// SetTickRate sets the engine tick rate in ticks per second.
	// Each tick picks the hovered star, then calls the tick callback.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after hover picking.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetKeyBinding binds fn to a key press. A nil fn removes the binding.
	//
	// Parameters:
	//   - keyCode: the key code, see the common.Key* constants
	//   - fn: the action to run on the window goroutine
	SetKeyBinding(keyCode uint32, fn func())

	// Run starts the engine loops and blocks until the window closes or Quit is called.
	// The scene is released before the window is closed and Run returns.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window's resize events are forwarded to the scene, and R and P are bound to camera reset
// and profiler toggling.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		keyBindings:      make(map[uint32]func()),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.scene != nil {
		e.keyBindings[common.KeyR] = e.scene.ResetCamera
	}
	e.keyBindings[common.KeyP] = func() {
		if e.ToggleProfiler() {
			log.Printf("[Engine] profiler enabled")
		} else {
			log.Printf("[Engine] profiler disabled")
		}
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.scene != nil {
				e.scene.Resize(width, height)
			}
		})
		e.window.SetKeyDownCallback(e.handleKey)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window == nil {
		e.wg.Wait()
		e.releaseScene()
		return
	}

	// GLFW must be torn down on the thread running ProcessMessages, so a Quit from another
	// goroutine is picked up here. The scene's surface is released before GLFW terminates.
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.wg.Wait()
			e.releaseScene()
			_ = e.window.Close()
		default:
		}
	})
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	e.releaseScene()
	_ = e.window.Close()
}

// releaseScene frees the scene's GPU resources once the render and tick loops have stopped.
func (e *engine) releaseScene() {
	if e.scene != nil {
		e.scene.Release()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleKey runs the action bound to keyCode, if any.
func (e *engine) handleKey(keyCode uint32) {
	e.mu.Lock()
	fn := e.keyBindings[keyCode]
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Runs a tick at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// tick runs one engine tick: hover picking, then the tick callback.
func (e *engine) tick(dt float32) {
	e.mu.Lock()
	cb := e.tickCallback
	profiling := e.profilingEnabled && e.profiler != nil
	e.mu.Unlock()

	if e.scene != nil {
		e.scene.Pick()
		if profiling {
			e.profiler.RecordPick()
		}
	}

	if cb != nil {
		cb(dt)
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame(dt)

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame runs one frame: scene update, draw, render callback and profiler tick.
func (e *engine) renderFrame(dt float32) {
	e.mu.Lock()
	cb := e.renderCallback
	profiling := e.profilingEnabled && e.profiler != nil
	e.mu.Unlock()

	if e.scene != nil {
		stats := e.scene.Update()
		if err := e.scene.Render(); err != nil {
			log.Printf("[Engine] render failed: %v", err)
		}
		if profiling {
			e.profiler.RecordUpdate(stats.CameraSkipped, stats.Hovered)
		}
	}

	if cb != nil {
		cb(dt)
	}

	if profiling {
		e.profiler.Tick()
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) ToggleProfiler() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = !e.profilingEnabled
	return e.profilingEnabled
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := rateToPeriod(fps)

	e.mu.Lock()
	running := e.running
	if !running {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop. Takes effect for the next Run.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = rateToPeriod(fps)
}

// rateToPeriod converts a positive rate per second to the period between events.
func rateToPeriod(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetKeyBinding(keyCode uint32, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		delete(e.keyBindings, keyCode)
		return
	}
	e.keyBindings[keyCode] = fn
}
