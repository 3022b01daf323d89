package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceIDDistinguishesSources(t *testing.T) {
	win := WindowSystemDevice(0)
	pad := GamepadDevice(0)

	assert.NotEqual(t, win, pad)
	assert.Equal(t, WindowSystemDevice(0), win)
	assert.Equal(t, DeviceGamepad, pad.Kind())
	assert.Equal(t, 0, pad.ID())

	seen := map[DeviceID]int{}
	seen[win]++
	seen[pad]++
	seen[GamepadDevice(0)]++
	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[pad])
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "Grave", KeyGrave.String())
	assert.Equal(t, "Key(999)", Key(999).String())
	assert.Equal(t, "South", GamepadButtonSouth.String())
	assert.Equal(t, "Unknown", GamepadButton(200).String())
	assert.Equal(t, "RightZ", AxisRightZ.String())
	assert.Equal(t, "Button5", MouseButton5.String())
	assert.Equal(t, "gamepad#3", GamepadDevice(3).String())
}
