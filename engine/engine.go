package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/tinta/engine/assets"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/gamepad"
	"github.com/spaghettifunk/tinta/engine/math"
	"github.com/spaghettifunk/tinta/engine/platform"
	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/sprite"
)

var errNoAssets = errors.New("engine runs without an asset directory")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Window is the native side of the loop.
type Window interface {
	platform.NativeSource
	// FramebufferSize is the drawable size in pixels.
	FramebufferSize() (uint32, uint32)
	// ContentScale is the ratio of pixels to logical units.
	ContentScale() float64
	// Wake interrupts the window system from any goroutine.
	Wake()
}

// capturer is a gamepad device that must sample state on the main thread.
type capturer interface {
	Capture()
}

type Engine struct {
	cfg          *ApplicationConfig
	currentStage Stage

	window   Window
	loop     *platform.EventLoop
	graphics *renderer.Graphics
	sprites  *sprite.Factory
	gamepads gamepad.Device
	assets   *assets.Manager

	game    Game
	options Options

	width       uint32
	height      uint32
	scaleFactor float64
	cursor      [2]float32
	minimized   bool
	redraw      bool
	exit        bool
	live        bool

	clock    *core.Clock
	lastTime float64
	metrics  *core.FrameMetrics
}

// New sets up graphics for window on backend. No game exists until Run.
func New(cfg *ApplicationConfig, window Window, backend renderer.Backend, opts ...Option) (*Engine, error) {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	e := &Engine{
		cfg:          cfg,
		currentStage: EngineStageInitializing,
		window:       window,
		loop:         platform.NewEventLoop(window, window.Wake),
		gamepads:     o.gamepads,
		assets:       o.assets,
		scaleFactor:  window.ContentScale(),
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
	}
	e.width, e.height = window.FramebufferSize()
	e.minimized = e.width == 0 || e.height == 0

	g, err := renderer.NewGraphics(backend, e.width, e.height, cfg.clearColor())
	if err != nil {
		return nil, err
	}
	lw, lh := e.logicalSize()
	g.SetScale([2]float32{lw, lh})
	e.graphics = g

	sprites, err := sprite.NewFactory(backend, g.Scale(), e.fontPath())
	if err != nil {
		return nil, err
	}
	e.sprites = sprites

	e.currentStage = EngineStageInitialized
	return e, nil
}

// Proxy injects events from other goroutines, e.g. a CloseRequested from a
// signal handler.
func (e *Engine) Proxy() core.EventSender {
	return e.loop.Proxy()
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Run creates the game with factory and dispatches events to it until it
// exits or a callback fails.
func (e *Engine) Run(factory Factory) error {
	if err := e.withApp(func(ctx *AppContext) error {
		g, err := factory(ctx)
		if err != nil {
			return err
		}
		if ctx.Exiting() {
			panic(&core.ConfigurationError{Reason: "exit requested while creating the game"})
		}
		e.game = g
		return nil
	}); err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	e.options = e.game.Options()
	if e.options.ScrollPixelFactor <= 0 {
		e.options.ScrollPixelFactor = 1
	}

	if e.options.EnableGamepad {
		if e.gamepads == nil {
			core.LogWarn("gamepads enabled but no gamepad device configured")
		} else {
			// The poller is never stopped; it ends with the process.
			gamepad.NewPoller(e.gamepads, e.loop.Proxy(), e.cfg.gamepadPollInterval()).Start(context.Background())
		}
	}
	if e.assets != nil {
		if err := e.assets.Watch(e.loop.Proxy()); err != nil {
			core.LogWarn("asset hot reload disabled: %s", err)
		}
	}

	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.lastTime = 0
	core.LogInfo("%s running", e.cfg.Name)

	for !e.exit {
		if c, ok := e.gamepads.(capturer); ok && e.options.EnableGamepad {
			c.Capture()
		}
		if err := e.tick(); err != nil {
			e.currentStage = EngineStageShuttingDown
			return err
		}
	}

	e.currentStage = EngineStageShuttingDown
	core.LogInfo("%s exiting", e.cfg.Name)
	return nil
}

// Shutdown releases what New and Run acquired. The backend belongs to the
// caller.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.sprites.Destroy()
	if e.assets != nil {
		return e.assets.Close()
	}
	return nil
}

// tick dispatches one batch of events. Events already pulled are dispatched
// even after an exit request; the redraw is not.
func (e *Engine) tick() error {
	for _, ev := range e.loop.NextTick() {
		if err := e.dispatch(ev); err != nil {
			return err
		}
	}
	if e.redraw && !e.exit {
		e.redraw = false
		if err := e.dispatch(core.RedrawRequested{}); err != nil {
			return err
		}
	}

	e.clock.Update()
	now := e.clock.Elapsed()
	if e.metrics.Update(now - e.lastTime) {
		core.LogDebug("fps: %.0f, frame time: %.2fms", e.metrics.FPS(), e.metrics.FrameTime())
	}
	e.lastTime = now
	return nil
}

func (e *Engine) dispatch(ev core.Event) error {
	switch ev := ev.(type) {
	case core.MainEventsCleared:
		if err := e.app("update", func(ctx *AppContext) error { return e.game.Update(ctx) }); err != nil {
			return err
		}
		if !e.exit {
			e.redraw = true
		}
	case core.RedrawRequested:
		if e.minimized {
			return nil
		}
		err := e.graphics.Render(func(p *renderer.Presenter) error {
			return e.withRender(p, e.game.Render)
		})
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	case core.CloseRequested:
		e.exit = true
	case platform.Resized:
		e.width, e.height = ev.Width, ev.Height
		return e.resize()
	case platform.ScaleFactorChanged:
		if ev.ScaleFactor > 0 {
			e.scaleFactor = ev.ScaleFactor
		}
		return e.resize()
	case platform.KeyInput:
		key, ok := platform.KeyFromGLFW(ev.Key)
		if !ok {
			return nil
		}
		if ev.Pressed() {
			return e.app("key pressed", func(ctx *AppContext) error { return e.game.KeyPressed(ctx, ev.Device, key) })
		}
		return e.app("key released", func(ctx *AppContext) error { return e.game.KeyReleased(ctx, ev.Device, key) })
	case platform.CharInput:
		return e.app("char", func(ctx *AppContext) error { return e.game.Char(ctx, ev.Char) })
	case platform.CursorMoved:
		lw, lh := e.logicalSize()
		sf := float32(e.scaleFactor)
		e.cursor = [2]float32{math.Clamp(float32(ev.X)/sf, 0, lw), math.Clamp(float32(ev.Y)/sf, 0, lh)}
		return e.app("mouse moved", func(ctx *AppContext) error {
			return e.game.MouseMoved(ctx, ev.Device, e.cursor[0], e.cursor[1])
		})
	case platform.MouseButtonInput:
		button := platform.MouseButtonFromGLFW(ev.Button)
		if ev.Pressed() {
			return e.app("mouse button pressed", func(ctx *AppContext) error {
				return e.game.MouseButtonPressed(ctx, ev.Device, button)
			})
		}
		return e.app("mouse button released", func(ctx *AppContext) error {
			return e.game.MouseButtonReleased(ctx, ev.Device, button)
		})
	case platform.Scroll:
		dx, dy := float32(ev.DX), float32(ev.DY)
		if ev.Pixels {
			dx /= e.options.ScrollPixelFactor
			dy /= e.options.ScrollPixelFactor
		}
		return e.app("scroll", func(ctx *AppContext) error { return e.game.Scroll(ctx, ev.Device, dx, dy) })
	case core.UserEvent:
		return e.dispatchUser(ev.Payload)
	default:
		core.LogDebug("unhandled event %T", ev)
	}
	return nil
}

func (e *Engine) dispatchUser(payload any) error {
	switch p := payload.(type) {
	case gamepad.Event:
		return e.dispatchGamepad(p)
	case assets.Changed:
		w, ok := e.game.(AssetWatcher)
		if !ok {
			return nil
		}
		return e.app("asset changed", func(ctx *AppContext) error { return w.AssetChanged(ctx, p.Name) })
	default:
		core.LogDebug("unhandled user event %T", payload)
	}
	return nil
}

func (e *Engine) dispatchGamepad(ev gamepad.Event) error {
	device := ev.Device()
	switch ev.Kind {
	case gamepad.Connected:
		return e.app("gamepad connected", func(ctx *AppContext) error { return e.game.GamepadConnected(ctx, device) })
	case gamepad.Disconnected:
		return e.app("gamepad disconnected", func(ctx *AppContext) error { return e.game.GamepadDisconnected(ctx, device) })
	case gamepad.ButtonPressed:
		button := gamepad.ButtonFromGLFW(ev.Button)
		return e.app("gamepad button pressed", func(ctx *AppContext) error {
			return e.game.GamepadButtonPressed(ctx, device, button)
		})
	case gamepad.ButtonReleased:
		button := gamepad.ButtonFromGLFW(ev.Button)
		return e.app("gamepad button released", func(ctx *AppContext) error {
			return e.game.GamepadButtonReleased(ctx, device, button)
		})
	case gamepad.AxisChanged:
		axis := gamepad.AxisFromGLFW(ev.Axis)
		return e.app("gamepad axis changed", func(ctx *AppContext) error {
			return e.game.GamepadAxisChanged(ctx, device, axis, ev.Value)
		})
	}
	return nil
}

// resize applies the current physical size and scale factor. A zero size
// means minimized: rendering pauses and the game is not told.
func (e *Engine) resize() error {
	if e.width == 0 || e.height == 0 {
		e.minimized = true
		return nil
	}
	e.minimized = false
	if err := e.graphics.Resize(e.width, e.height); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	lw, lh := e.logicalSize()
	e.graphics.SetScale([2]float32{lw, lh})
	return e.app("resize", func(ctx *AppContext) error {
		return e.game.Resize(ctx, uint32(lw), uint32(lh))
	})
}

// app runs one callback with a fresh AppContext, naming it in the error.
func (e *Engine) app(name string, fn func(ctx *AppContext) error) error {
	if err := e.withApp(fn); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (e *Engine) logicalSize() (float32, float32) {
	sf := e.scaleFactor
	if sf <= 0 {
		sf = 1
	}
	return float32(float64(e.width) / sf), float32(float64(e.height) / sf)
}

func (e *Engine) fontPath() string {
	if e.cfg.Font == "" {
		return ""
	}
	if e.assets != nil {
		p, err := e.assets.Path(e.cfg.Font)
		if err != nil {
			core.LogWarn("font %s: %s", e.cfg.Font, err)
			return ""
		}
		return p
	}
	return filepath.Join(e.cfg.AssetDir, filepath.FromSlash(e.cfg.Font))
}
