package engine

import (
	"github.com/spaghettifunk/tinta/engine/core"
)

// Options are read once, right after the game is created.
type Options struct {
	EnableGamepad bool
	// Pixel scroll deltas are divided by this to approximate lines.
	ScrollPixelFactor float32
}

// Game receives every callback of the run loop. All callbacks run on the
// main goroutine, one at a time. Returning an error stops the loop.
type Game interface {
	Options() Options
	Update(ctx *AppContext) error
	Render(ctx *RenderContext) error
	Resize(ctx *AppContext, width, height uint32) error
	Char(ctx *AppContext, ch rune) error
	KeyPressed(ctx *AppContext, device core.DeviceID, key core.Key) error
	KeyReleased(ctx *AppContext, device core.DeviceID, key core.Key) error
	MouseMoved(ctx *AppContext, device core.DeviceID, x, y float32) error
	MouseButtonPressed(ctx *AppContext, device core.DeviceID, button core.MouseButton) error
	MouseButtonReleased(ctx *AppContext, device core.DeviceID, button core.MouseButton) error
	Scroll(ctx *AppContext, device core.DeviceID, dx, dy float32) error
	GamepadConnected(ctx *AppContext, device core.DeviceID) error
	GamepadDisconnected(ctx *AppContext, device core.DeviceID) error
	GamepadButtonPressed(ctx *AppContext, device core.DeviceID, button core.GamepadButton) error
	GamepadButtonReleased(ctx *AppContext, device core.DeviceID, button core.GamepadButton) error
	GamepadAxisChanged(ctx *AppContext, device core.DeviceID, axis core.Axis, value float32) error
}

// AssetWatcher is implemented by games that want to hear about changed
// assets.
type AssetWatcher interface {
	AssetChanged(ctx *AppContext, name string) error
}

// Factory creates the game. It must not request exit.
type Factory func(ctx *AppContext) (Game, error)

// BaseGame implements every callback as a no-op, except that Escape exits.
// Embed it and override what you need.
type BaseGame struct{}

func (BaseGame) Options() Options {
	return Options{EnableGamepad: false, ScrollPixelFactor: 1}
}

func (BaseGame) Update(*AppContext) error                                                   { return nil }
func (BaseGame) Render(*RenderContext) error                                                { return nil }
func (BaseGame) Resize(*AppContext, uint32, uint32) error                                   { return nil }
func (BaseGame) Char(*AppContext, rune) error                                               { return nil }
func (BaseGame) KeyReleased(*AppContext, core.DeviceID, core.Key) error                     { return nil }
func (BaseGame) MouseMoved(*AppContext, core.DeviceID, float32, float32) error              { return nil }
func (BaseGame) MouseButtonPressed(*AppContext, core.DeviceID, core.MouseButton) error      { return nil }
func (BaseGame) MouseButtonReleased(*AppContext, core.DeviceID, core.MouseButton) error     { return nil }
func (BaseGame) Scroll(*AppContext, core.DeviceID, float32, float32) error                  { return nil }
func (BaseGame) GamepadConnected(*AppContext, core.DeviceID) error                          { return nil }
func (BaseGame) GamepadDisconnected(*AppContext, core.DeviceID) error                       { return nil }
func (BaseGame) GamepadButtonPressed(*AppContext, core.DeviceID, core.GamepadButton) error  { return nil }
func (BaseGame) GamepadButtonReleased(*AppContext, core.DeviceID, core.GamepadButton) error { return nil }
func (BaseGame) GamepadAxisChanged(*AppContext, core.DeviceID, core.Axis, float32) error    { return nil }

func (BaseGame) KeyPressed(ctx *AppContext, _ core.DeviceID, key core.Key) error {
	if key == core.KeyEscape {
		ctx.Exit()
	}
	return nil
}
