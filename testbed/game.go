// Package testbed is a small game used to exercise the engine by hand.
package testbed

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/tinta/engine"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/math"
	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/sprite"
)

const (
	tileSize  = 32
	charWidth = 12
)

var palette = []sprite.Color{sprite.Red, sprite.Green, sprite.Blue, sprite.Yellow, sprite.Magenta, sprite.Cyan}

// Game draws a grid of colored tiles and a status line. Arrow keys move the
// highlighted tile, space cycles the palette.
type Game struct {
	engine.BaseGame

	tiles *sprite.Batch
	text  *sprite.TextGrid

	width, height float32
	cols, rows    int
	cursor        [2]int
	shift         int
	frames        uint64
	lastKey       string
}

func New(ctx *engine.AppContext) (engine.Game, error) {
	tiles, err := ctx.NewBatchFromColor(sprite.White)
	if err != nil {
		return nil, err
	}
	g := &Game{tiles: tiles}

	var fontErr *core.ResourceError
	text, err := ctx.NewTextGrid(charWidth, [2]uint32{2, 64})
	switch {
	case errors.As(err, &fontErr) && fontErr.Kind == core.ResourceFont:
		core.LogWarn("text disabled: %s", err)
	case err != nil:
		return nil, err
	default:
		text.SetOrigin(8, 8)
		text.SetTint(sprite.White)
		g.text = text
	}

	g.layout(ctx.Size())
	return g, nil
}

func (g *Game) Options() engine.Options {
	return engine.Options{EnableGamepad: true, ScrollPixelFactor: 10}
}

func (g *Game) layout(w, h float32) {
	g.width, g.height = w, h
	g.cols = max(1, int(w)/tileSize)
	g.rows = max(1, int(h)/tileSize)
	g.cursor[0] = min(g.cursor[0], g.cols-1)
	g.cursor[1] = min(g.cursor[1], g.rows-1)
	g.rebuild()
}

func (g *Game) rebuild() {
	g.tiles.Clear()
	unit := sprite.Rect{W: 1, H: 1}
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			tint := palette[(x+y+g.shift)%len(palette)]
			if x == g.cursor[0] && y == g.cursor[1] {
				tint = sprite.White
			}
			g.tiles.Add(sprite.Instance{
				Src:  unit,
				Dst:  sprite.Rect{X: float32(x * tileSize), Y: float32(y * tileSize), W: tileSize - 2, H: tileSize - 2},
				Tint: tint,
			})
		}
	}
}

func (g *Game) Update(ctx *engine.AppContext) error {
	g.frames++
	if g.text == nil {
		return nil
	}
	g.text.Clear()
	g.text.Write(0, 0, fmt.Sprintf("%.0fx%.0f tile %d,%d", g.width, g.height, g.cursor[0], g.cursor[1]))
	g.text.Write(1, 0, fmt.Sprintf("frame %d last key %s", g.frames, g.lastKey))
	return nil
}

func (g *Game) Render(ctx *engine.RenderContext) error {
	drawables := []renderer.Drawable{g.tiles}
	if g.text != nil {
		drawables = append(drawables, g.text)
	}
	return ctx.Submit(drawables...)
}

func (g *Game) Resize(ctx *engine.AppContext, width, height uint32) error {
	g.layout(ctx.Size())
	return nil
}

func (g *Game) KeyPressed(ctx *engine.AppContext, device core.DeviceID, key core.Key) error {
	g.lastKey = key.String()
	switch key {
	case core.KeyLeft:
		g.move(-1, 0)
	case core.KeyRight:
		g.move(1, 0)
	case core.KeyUp:
		g.move(0, -1)
	case core.KeyDown:
		g.move(0, 1)
	case core.KeySpace:
		g.shift++
		g.rebuild()
	default:
		return g.BaseGame.KeyPressed(ctx, device, key)
	}
	return nil
}

func (g *Game) GamepadButtonPressed(ctx *engine.AppContext, device core.DeviceID, button core.GamepadButton) error {
	g.lastKey = device.String() + " " + button.String()
	switch button {
	case core.GamepadButtonDPadLeft:
		g.move(-1, 0)
	case core.GamepadButtonDPadRight:
		g.move(1, 0)
	case core.GamepadButtonDPadUp:
		g.move(0, -1)
	case core.GamepadButtonDPadDown:
		g.move(0, 1)
	case core.GamepadButtonSouth:
		g.shift++
		g.rebuild()
	case core.GamepadButtonStart:
		ctx.Exit()
	}
	return nil
}

func (g *Game) GamepadConnected(ctx *engine.AppContext, device core.DeviceID) error {
	core.LogInfo("gamepad connected: %s", device)
	return nil
}

func (g *Game) GamepadDisconnected(ctx *engine.AppContext, device core.DeviceID) error {
	core.LogInfo("gamepad disconnected: %s", device)
	return nil
}

func (g *Game) move(dx, dy int) {
	g.cursor[0] = math.Wrap(g.cursor[0]+dx, g.cols)
	g.cursor[1] = math.Wrap(g.cursor[1]+dy, g.rows)
	g.rebuild()
}
