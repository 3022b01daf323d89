package core

import "fmt"

// Key is an engine-neutral keyboard key. Raw window keycodes that have no Key
// are dropped before they reach the application.
type Key uint16

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyNumpadDecimal
	KeyNumpadDivide
	KeyNumpadMultiply
	KeyNumpadSubtract
	KeyNumpadAdd
	KeyNumpadEnter
	KeyNumpadEqual
	KeyLShift
	KeyLControl
	KeyLAlt
	KeyLSuper
	KeyRShift
	KeyRControl
	KeyRAlt
	KeyRSuper
	KeyMenu
	KeyApostrophe
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeySemicolon
	KeyEqual
	KeyLBracket
	KeyBackslash
	KeyRBracket
	KeyGrave
	keyCount
)

var keyNames = [keyCount]string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"F13", "F14", "F15", "F16", "F17", "F18", "F19", "F20", "F21", "F22", "F23", "F24",
	"Escape", "Enter", "Tab", "Backspace", "Space", "Insert", "Delete",
	"Home", "End", "PageUp", "PageDown", "Left", "Right", "Up", "Down",
	"CapsLock", "ScrollLock", "NumLock", "PrintScreen", "Pause",
	"Numpad0", "Numpad1", "Numpad2", "Numpad3", "Numpad4",
	"Numpad5", "Numpad6", "Numpad7", "Numpad8", "Numpad9",
	"NumpadDecimal", "NumpadDivide", "NumpadMultiply", "NumpadSubtract",
	"NumpadAdd", "NumpadEnter", "NumpadEqual",
	"LShift", "LControl", "LAlt", "LSuper", "RShift", "RControl", "RAlt", "RSuper", "Menu",
	"Apostrophe", "Comma", "Minus", "Period", "Slash", "Semicolon", "Equal",
	"LBracket", "Backslash", "RBracket", "Grave",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

type MouseButton uint8

const (
	MouseButtonUnknown MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	MouseButton4
	MouseButton5
	MouseButton6
	MouseButton7
	MouseButton8
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "Left"
	case MouseButtonRight:
		return "Right"
	case MouseButtonMiddle:
		return "Middle"
	case MouseButton4, MouseButton5, MouseButton6, MouseButton7, MouseButton8:
		return fmt.Sprintf("Button%d", uint8(b))
	default:
		return "Unknown"
	}
}

// GamepadButton follows a positional layout: South is the bottom face button
// whatever the controller prints on it.
type GamepadButton uint8

const (
	GamepadButtonUnknown GamepadButton = iota
	GamepadButtonSouth
	GamepadButtonEast
	GamepadButtonNorth
	GamepadButtonWest
	GamepadButtonC
	GamepadButtonZ
	GamepadButtonLeftTrigger
	GamepadButtonLeftTrigger2
	GamepadButtonRightTrigger
	GamepadButtonRightTrigger2
	GamepadButtonSelect
	GamepadButtonStart
	GamepadButtonMode
	GamepadButtonLeftThumb
	GamepadButtonRightThumb
	GamepadButtonDPadUp
	GamepadButtonDPadDown
	GamepadButtonDPadLeft
	GamepadButtonDPadRight
)

var gamepadButtonNames = [...]string{
	"Unknown", "South", "East", "North", "West", "C", "Z",
	"LeftTrigger", "LeftTrigger2", "RightTrigger", "RightTrigger2",
	"Select", "Start", "Mode", "LeftThumb", "RightThumb",
	"DPadUp", "DPadDown", "DPadLeft", "DPadRight",
}

func (b GamepadButton) String() string {
	if int(b) < len(gamepadButtonNames) {
		return gamepadButtonNames[b]
	}
	return "Unknown"
}

type Axis uint8

const (
	AxisUnknown Axis = iota
	AxisLeftStickX
	AxisLeftStickY
	AxisLeftZ
	AxisRightStickX
	AxisRightStickY
	AxisRightZ
	AxisDPadX
	AxisDPadY
)

var axisNames = [...]string{
	"Unknown", "LeftStickX", "LeftStickY", "LeftZ",
	"RightStickX", "RightStickY", "RightZ", "DPadX", "DPadY",
}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "Unknown"
}

type DeviceKind uint8

const (
	DeviceWindowSystem DeviceKind = iota
	DeviceGamepad
)

func (k DeviceKind) String() string {
	if k == DeviceGamepad {
		return "gamepad"
	}
	return "window"
}

// DeviceID identifies the device an input came from. Ids from the window
// system and from the gamepad library are separate spaces: two DeviceIDs are
// equal only if both kind and id match.
type DeviceID struct {
	kind DeviceKind
	id   int
}

func WindowSystemDevice(id int) DeviceID {
	return DeviceID{kind: DeviceWindowSystem, id: id}
}

func GamepadDevice(id int) DeviceID {
	return DeviceID{kind: DeviceGamepad, id: id}
}

func (d DeviceID) Kind() DeviceKind { return d.kind }

func (d DeviceID) ID() int { return d.id }

func (d DeviceID) String() string {
	return fmt.Sprintf("%s#%d", d.kind, d.id)
}
