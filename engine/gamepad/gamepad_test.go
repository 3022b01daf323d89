package gamepad

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/platform"
)

func TestButtonFromGLFWIsTotal(t *testing.T) {
	seen := map[core.GamepadButton]bool{}
	for b := glfw.ButtonA; b <= glfw.ButtonLast; b++ {
		got := ButtonFromGLFW(b)
		assert.NotEqual(t, core.GamepadButtonUnknown, got, "button %d", b)
		assert.False(t, seen[got], "%s mapped twice", got)
		seen[got] = true
	}
	assert.Equal(t, core.GamepadButtonUnknown, ButtonFromGLFW(glfw.GamepadButton(99)))
	assert.Equal(t, core.GamepadButtonSouth, ButtonFromGLFW(glfw.ButtonA))
	assert.Equal(t, core.GamepadButtonNorth, ButtonFromGLFW(glfw.ButtonY))
}

func TestAxisFromGLFW(t *testing.T) {
	assert.Equal(t, core.AxisLeftStickX, AxisFromGLFW(glfw.AxisLeftX))
	assert.Equal(t, core.AxisRightStickY, AxisFromGLFW(glfw.AxisRightY))
	assert.Equal(t, core.AxisLeftZ, AxisFromGLFW(glfw.AxisLeftTrigger))
	assert.Equal(t, core.AxisRightZ, AxisFromGLFW(glfw.AxisRightTrigger))
	assert.Equal(t, core.AxisUnknown, AxisFromGLFW(glfw.GamepadAxis(42)))
}

type fakeStates struct {
	states map[glfw.Joystick]*glfw.GamepadState
}

func (f *fakeStates) read(j glfw.Joystick) (*glfw.GamepadState, bool) {
	st, ok := f.states[j]
	return st, ok
}

func TestGLFWDeviceDiffs(t *testing.T) {
	f := &fakeStates{states: map[glfw.Joystick]*glfw.GamepadState{}}
	d := NewGLFWDeviceWithReader(f.read)

	d.Capture()
	assert.Empty(t, d.Poll())

	st := &glfw.GamepadState{}
	st.Buttons[glfw.ButtonA] = glfw.Press
	f.states[glfw.Joystick2] = st
	d.Capture()
	assert.Equal(t, []Event{
		{Joystick: 1, Kind: Connected},
		{Joystick: 1, Kind: ButtonPressed, Button: glfw.ButtonA},
	}, d.Poll())

	st.Buttons[glfw.ButtonA] = glfw.Release
	st.Axes[glfw.AxisLeftX] = 0.005
	st.Axes[glfw.AxisRightTrigger] = 0.5
	d.Capture()
	assert.Equal(t, []Event{
		{Joystick: 1, Kind: ButtonReleased, Button: glfw.ButtonA},
		{Joystick: 1, Kind: AxisChanged, Axis: glfw.AxisRightTrigger, Value: 0.5},
	}, d.Poll())

	// no capture since the last poll
	assert.Empty(t, d.Poll())

	delete(f.states, glfw.Joystick2)
	d.Capture()
	assert.Equal(t, []Event{{Joystick: 1, Kind: Disconnected}}, d.Poll())
}

func TestGLFWDeviceKeepsTransitionsBetweenPolls(t *testing.T) {
	st := &glfw.GamepadState{}
	f := &fakeStates{states: map[glfw.Joystick]*glfw.GamepadState{glfw.Joystick1: st}}
	d := NewGLFWDeviceWithReader(f.read)
	d.Capture()
	require.Equal(t, []Event{{Joystick: 0, Kind: Connected}}, d.Poll())

	st.Buttons[glfw.ButtonA] = glfw.Press
	d.Capture()
	st.Buttons[glfw.ButtonA] = glfw.Release
	d.Capture()

	assert.Equal(t, []Event{
		{Joystick: 0, Kind: ButtonPressed, Button: glfw.ButtonA},
		{Joystick: 0, Kind: ButtonReleased, Button: glfw.ButtonA},
	}, d.Poll())
	assert.Empty(t, d.Poll())
}

type scriptedDevice struct {
	mu     sync.Mutex
	events []Event
}

// Poll hands out one event per call.
func (s *scriptedDevice) Poll() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return []Event{ev}
}

func TestPollerForwardsInOrderWithSlowConsumer(t *testing.T) {
	const n = 20
	dev := &scriptedDevice{}
	for i := 0; i < n; i++ {
		dev.events = append(dev.events, Event{Joystick: 0, Kind: AxisChanged, Value: float32(i)})
	}

	proxy := platform.NewProxy(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := NewPoller(dev, proxy, time.Millisecond).Start(ctx)

	var got []core.Event
	require.Eventually(t, func() bool {
		// slow consumer: the poller keeps queueing meanwhile
		time.Sleep(5 * time.Millisecond)
		got = append(got, proxy.Drain()...)
		return len(got) == n
	}, 5*time.Second, time.Millisecond)

	cancel()
	<-done

	for i, e := range got {
		ue, ok := e.(core.UserEvent)
		require.True(t, ok)
		ev, ok := ue.Payload.(Event)
		require.True(t, ok)
		assert.Equal(t, float32(i), ev.Value)
	}
}

func TestNewPollerDefaultsInterval(t *testing.T) {
	p := NewPoller(&scriptedDevice{}, platform.NewProxy(nil), 0)
	assert.Equal(t, DefaultPollInterval, p.interval)
}
