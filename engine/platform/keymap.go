package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/tinta/engine/core"
)

var keys = map[glfw.Key]core.Key{
	glfw.KeyA: core.KeyA, glfw.KeyB: core.KeyB, glfw.KeyC: core.KeyC, glfw.KeyD: core.KeyD,
	glfw.KeyE: core.KeyE, glfw.KeyF: core.KeyF, glfw.KeyG: core.KeyG, glfw.KeyH: core.KeyH,
	glfw.KeyI: core.KeyI, glfw.KeyJ: core.KeyJ, glfw.KeyK: core.KeyK, glfw.KeyL: core.KeyL,
	glfw.KeyM: core.KeyM, glfw.KeyN: core.KeyN, glfw.KeyO: core.KeyO, glfw.KeyP: core.KeyP,
	glfw.KeyQ: core.KeyQ, glfw.KeyR: core.KeyR, glfw.KeyS: core.KeyS, glfw.KeyT: core.KeyT,
	glfw.KeyU: core.KeyU, glfw.KeyV: core.KeyV, glfw.KeyW: core.KeyW, glfw.KeyX: core.KeyX,
	glfw.KeyY: core.KeyY, glfw.KeyZ: core.KeyZ,

	glfw.Key0: core.Key0, glfw.Key1: core.Key1, glfw.Key2: core.Key2, glfw.Key3: core.Key3,
	glfw.Key4: core.Key4, glfw.Key5: core.Key5, glfw.Key6: core.Key6, glfw.Key7: core.Key7,
	glfw.Key8: core.Key8, glfw.Key9: core.Key9,

	glfw.KeyF1: core.KeyF1, glfw.KeyF2: core.KeyF2, glfw.KeyF3: core.KeyF3, glfw.KeyF4: core.KeyF4,
	glfw.KeyF5: core.KeyF5, glfw.KeyF6: core.KeyF6, glfw.KeyF7: core.KeyF7, glfw.KeyF8: core.KeyF8,
	glfw.KeyF9: core.KeyF9, glfw.KeyF10: core.KeyF10, glfw.KeyF11: core.KeyF11, glfw.KeyF12: core.KeyF12,
	glfw.KeyF13: core.KeyF13, glfw.KeyF14: core.KeyF14, glfw.KeyF15: core.KeyF15, glfw.KeyF16: core.KeyF16,
	glfw.KeyF17: core.KeyF17, glfw.KeyF18: core.KeyF18, glfw.KeyF19: core.KeyF19, glfw.KeyF20: core.KeyF20,
	glfw.KeyF21: core.KeyF21, glfw.KeyF22: core.KeyF22, glfw.KeyF23: core.KeyF23, glfw.KeyF24: core.KeyF24,

	glfw.KeyEscape:      core.KeyEscape,
	glfw.KeyEnter:       core.KeyEnter,
	glfw.KeyTab:         core.KeyTab,
	glfw.KeyBackspace:   core.KeyBackspace,
	glfw.KeySpace:       core.KeySpace,
	glfw.KeyInsert:      core.KeyInsert,
	glfw.KeyDelete:      core.KeyDelete,
	glfw.KeyHome:        core.KeyHome,
	glfw.KeyEnd:         core.KeyEnd,
	glfw.KeyPageUp:      core.KeyPageUp,
	glfw.KeyPageDown:    core.KeyPageDown,
	glfw.KeyLeft:        core.KeyLeft,
	glfw.KeyRight:       core.KeyRight,
	glfw.KeyUp:          core.KeyUp,
	glfw.KeyDown:        core.KeyDown,
	glfw.KeyCapsLock:    core.KeyCapsLock,
	glfw.KeyScrollLock:  core.KeyScrollLock,
	glfw.KeyNumLock:     core.KeyNumLock,
	glfw.KeyPrintScreen: core.KeyPrintScreen,
	glfw.KeyPause:       core.KeyPause,

	glfw.KeyKP0: core.KeyNumpad0, glfw.KeyKP1: core.KeyNumpad1, glfw.KeyKP2: core.KeyNumpad2,
	glfw.KeyKP3: core.KeyNumpad3, glfw.KeyKP4: core.KeyNumpad4, glfw.KeyKP5: core.KeyNumpad5,
	glfw.KeyKP6: core.KeyNumpad6, glfw.KeyKP7: core.KeyNumpad7, glfw.KeyKP8: core.KeyNumpad8,
	glfw.KeyKP9: core.KeyNumpad9,

	glfw.KeyKPDecimal:  core.KeyNumpadDecimal,
	glfw.KeyKPDivide:   core.KeyNumpadDivide,
	glfw.KeyKPMultiply: core.KeyNumpadMultiply,
	glfw.KeyKPSubtract: core.KeyNumpadSubtract,
	glfw.KeyKPAdd:      core.KeyNumpadAdd,
	glfw.KeyKPEnter:    core.KeyNumpadEnter,
	glfw.KeyKPEqual:    core.KeyNumpadEqual,

	glfw.KeyLeftShift:    core.KeyLShift,
	glfw.KeyLeftControl:  core.KeyLControl,
	glfw.KeyLeftAlt:      core.KeyLAlt,
	glfw.KeyLeftSuper:    core.KeyLSuper,
	glfw.KeyRightShift:   core.KeyRShift,
	glfw.KeyRightControl: core.KeyRControl,
	glfw.KeyRightAlt:     core.KeyRAlt,
	glfw.KeyRightSuper:   core.KeyRSuper,
	glfw.KeyMenu:         core.KeyMenu,

	glfw.KeyApostrophe:   core.KeyApostrophe,
	glfw.KeyComma:        core.KeyComma,
	glfw.KeyMinus:        core.KeyMinus,
	glfw.KeyPeriod:       core.KeyPeriod,
	glfw.KeySlash:        core.KeySlash,
	glfw.KeySemicolon:    core.KeySemicolon,
	glfw.KeyEqual:        core.KeyEqual,
	glfw.KeyLeftBracket:  core.KeyLBracket,
	glfw.KeyBackslash:    core.KeyBackslash,
	glfw.KeyRightBracket: core.KeyRBracket,
	glfw.KeyGraveAccent:  core.KeyGrave,
}

// KeyFromGLFW translates a glfw key. Keys with no engine equivalent (the
// non-US World keys, F25, KeyUnknown) report false.
func KeyFromGLFW(k glfw.Key) (core.Key, bool) {
	key, ok := keys[k]
	return key, ok
}

func MouseButtonFromGLFW(b glfw.MouseButton) core.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return core.MouseButtonLeft
	case glfw.MouseButtonRight:
		return core.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return core.MouseButtonMiddle
	case glfw.MouseButton4:
		return core.MouseButton4
	case glfw.MouseButton5:
		return core.MouseButton5
	case glfw.MouseButton6:
		return core.MouseButton6
	case glfw.MouseButton7:
		return core.MouseButton7
	case glfw.MouseButton8:
		return core.MouseButton8
	default:
		return core.MouseButtonUnknown
	}
}
