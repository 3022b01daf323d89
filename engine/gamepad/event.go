// Package gamepad polls controllers on a background goroutine and forwards
// what changed to the event loop.
package gamepad

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/tinta/engine/core"
)

type EventKind uint8

const (
	Connected EventKind = iota
	Disconnected
	ButtonPressed
	ButtonReleased
	AxisChanged
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case ButtonPressed:
		return "ButtonPressed"
	case ButtonReleased:
		return "ButtonReleased"
	case AxisChanged:
		return "AxisChanged"
	}
	return "Unknown"
}

// Event is a raw gamepad event. Button is set for button events, Axis and
// Value for AxisChanged.
type Event struct {
	Joystick int
	Kind     EventKind
	Button   glfw.GamepadButton
	Axis     glfw.GamepadAxis
	Value    float32
}

func (e Event) Device() core.DeviceID {
	return core.GamepadDevice(e.Joystick)
}

// Device is a source of gamepad events.
type Device interface {
	// Poll returns the events since the previous call, in the order the
	// library reported them.
	Poll() []Event
}

// ButtonFromGLFW maps the glfw layout onto positional buttons.
func ButtonFromGLFW(b glfw.GamepadButton) core.GamepadButton {
	switch b {
	case glfw.ButtonA:
		return core.GamepadButtonSouth
	case glfw.ButtonB:
		return core.GamepadButtonEast
	case glfw.ButtonX:
		return core.GamepadButtonWest
	case glfw.ButtonY:
		return core.GamepadButtonNorth
	case glfw.ButtonLeftBumper:
		return core.GamepadButtonLeftTrigger
	case glfw.ButtonRightBumper:
		return core.GamepadButtonRightTrigger
	case glfw.ButtonBack:
		return core.GamepadButtonSelect
	case glfw.ButtonStart:
		return core.GamepadButtonStart
	case glfw.ButtonGuide:
		return core.GamepadButtonMode
	case glfw.ButtonLeftThumb:
		return core.GamepadButtonLeftThumb
	case glfw.ButtonRightThumb:
		return core.GamepadButtonRightThumb
	case glfw.ButtonDpadUp:
		return core.GamepadButtonDPadUp
	case glfw.ButtonDpadDown:
		return core.GamepadButtonDPadDown
	case glfw.ButtonDpadLeft:
		return core.GamepadButtonDPadLeft
	case glfw.ButtonDpadRight:
		return core.GamepadButtonDPadRight
	default:
		return core.GamepadButtonUnknown
	}
}

// AxisFromGLFW maps glfw axes. The analog triggers are the Z axes.
func AxisFromGLFW(a glfw.GamepadAxis) core.Axis {
	switch a {
	case glfw.AxisLeftX:
		return core.AxisLeftStickX
	case glfw.AxisLeftY:
		return core.AxisLeftStickY
	case glfw.AxisRightX:
		return core.AxisRightStickX
	case glfw.AxisRightY:
		return core.AxisRightStickY
	case glfw.AxisLeftTrigger:
		return core.AxisLeftZ
	case glfw.AxisRightTrigger:
		return core.AxisRightZ
	default:
		return core.AxisUnknown
	}
}
