package gamepad

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	joystickCount = int(glfw.JoystickLast) + 1
	buttonCount   = int(glfw.ButtonLast) + 1
	axisCount     = int(glfw.AxisLast) + 1

	// Smaller axis movements are treated as noise.
	axisThreshold = 0.01
)

type snapshot struct {
	present bool
	buttons [buttonCount]glfw.Action
	axes    [axisCount]float32
}

// StateReader returns the gamepad state of a joystick, or false when no
// gamepad is attached to it.
type StateReader func(j glfw.Joystick) (*glfw.GamepadState, bool)

func readGLFW(j glfw.Joystick) (*glfw.GamepadState, bool) {
	if !j.Present() || !j.IsGamepad() {
		return nil, false
	}
	st := j.GetGamepadState()
	return st, st != nil
}

// GLFWDevice turns glfw gamepad state into events by diffing snapshots.
// glfw joystick functions are main thread only: Capture must run there (the
// engine calls it once per tick) while Poll may run on any goroutine.
// Transitions are recorded at capture time, so several captures between two
// polls lose nothing.
type GLFWDevice struct {
	read StateReader
	prev [joystickCount]snapshot

	mu      sync.Mutex
	pending []Event
}

func NewGLFWDevice() *GLFWDevice {
	return NewGLFWDeviceWithReader(readGLFW)
}

func NewGLFWDeviceWithReader(read StateReader) *GLFWDevice {
	return &GLFWDevice{read: read}
}

func (d *GLFWDevice) Capture() {
	var next [joystickCount]snapshot
	for j := 0; j < joystickCount; j++ {
		st, ok := d.read(glfw.Joystick(j))
		if !ok {
			continue
		}
		next[j].present = true
		copy(next[j].buttons[:], st.Buttons[:])
		copy(next[j].axes[:], st.Axes[:])
	}

	var events []Event
	for j := 0; j < joystickCount; j++ {
		events = diff(events, j, &d.prev[j], &next[j])
	}
	d.prev = next
	if len(events) == 0 {
		return
	}
	d.mu.Lock()
	d.pending = append(d.pending, events...)
	d.mu.Unlock()
}

// Poll drains the events recorded since the last call.
func (d *GLFWDevice) Poll() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	events := d.pending
	d.pending = nil
	return events
}

func diff(events []Event, j int, prev, cur *snapshot) []Event {
	switch {
	case !prev.present && cur.present:
		events = append(events, Event{Joystick: j, Kind: Connected})
	case prev.present && !cur.present:
		return append(events, Event{Joystick: j, Kind: Disconnected})
	case !cur.present:
		return events
	}

	for b := 0; b < buttonCount; b++ {
		was := prev.present && prev.buttons[b] == glfw.Press
		is := cur.buttons[b] == glfw.Press
		if was == is {
			continue
		}
		kind := ButtonReleased
		if is {
			kind = ButtonPressed
		}
		events = append(events, Event{Joystick: j, Kind: kind, Button: glfw.GamepadButton(b)})
	}
	for a := 0; a < axisCount; a++ {
		var was float32
		if prev.present {
			was = prev.axes[a]
		}
		delta := cur.axes[a] - was
		if delta < 0 {
			delta = -delta
		}
		if delta <= axisThreshold {
			continue
		}
		events = append(events, Event{Joystick: j, Kind: AxisChanged, Axis: glfw.GamepadAxis(a), Value: cur.axes[a]})
	}
	return events
}
