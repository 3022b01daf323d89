package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/tinta/engine/core"
)

// Events produced by the window. Sizes and positions are physical pixels; the
// engine converts them to logical units before they reach the application.

type Resized struct {
	core.EventBase
	Width, Height uint32
}

type ScaleFactorChanged struct {
	core.EventBase
	ScaleFactor float64
}

type KeyInput struct {
	core.EventBase
	Device core.DeviceID
	Key    glfw.Key
	Action glfw.Action
}

type CharInput struct {
	core.EventBase
	Char rune
}

type CursorMoved struct {
	core.EventBase
	Device core.DeviceID
	X, Y   float64
}

type MouseButtonInput struct {
	core.EventBase
	Device core.DeviceID
	Button glfw.MouseButton
	Action glfw.Action
}

// Scroll carries wheel deltas. Pixels is set when the deltas are in pixels
// rather than lines.
type Scroll struct {
	core.EventBase
	Device core.DeviceID
	DX, DY float64
	Pixels bool
}

// Pressed is true for presses and key repeats.
func (k KeyInput) Pressed() bool {
	return k.Action != glfw.Release
}

func (m MouseButtonInput) Pressed() bool {
	return m.Action != glfw.Release
}
