package engine_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine"
	"github.com/spaghettifunk/tinta/engine/assets"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/gamepad"
	"github.com/spaghettifunk/tinta/engine/platform"
	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/renderer/renderertest"
)

var mouse = core.WindowSystemDevice(0)

// fakeWindow replays scripted ticks. Once the script is exhausted it asks to
// close, unless endless is set.
type fakeWindow struct {
	ticks   [][]core.Event
	width   uint32
	height  uint32
	scale   float64
	endless bool
	polls   int
	wakes   atomic.Int32
}

func (w *fakeWindow) PollEvents() []core.Event {
	w.polls++
	if len(w.ticks) == 0 {
		if w.endless {
			time.Sleep(time.Millisecond)
			return nil
		}
		return []core.Event{core.CloseRequested{}}
	}
	next := w.ticks[0]
	w.ticks = w.ticks[1:]
	return next
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) { return w.width, w.height }
func (w *fakeWindow) ContentScale() float64             { return w.scale }
func (w *fakeWindow) Wake()                             { w.wakes.Add(1) }

type recorder struct {
	engine.BaseGame
	calls    []string
	opts     engine.Options
	onUpdate func(ctx *engine.AppContext) error
	onRender func(ctx *engine.RenderContext) error
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Options() engine.Options { return r.opts }

func (r *recorder) Update(ctx *engine.AppContext) error {
	r.log("update")
	if r.onUpdate != nil {
		return r.onUpdate(ctx)
	}
	return nil
}

func (r *recorder) Render(ctx *engine.RenderContext) error {
	r.log("render")
	if r.onRender != nil {
		return r.onRender(ctx)
	}
	return nil
}

func (r *recorder) Resize(_ *engine.AppContext, w, h uint32) error {
	r.log("resize %dx%d", w, h)
	return nil
}

func (r *recorder) Char(_ *engine.AppContext, ch rune) error {
	r.log("char %c", ch)
	return nil
}

func (r *recorder) KeyPressed(ctx *engine.AppContext, d core.DeviceID, k core.Key) error {
	r.log("key pressed %s", k)
	return r.BaseGame.KeyPressed(ctx, d, k)
}

func (r *recorder) KeyReleased(_ *engine.AppContext, _ core.DeviceID, k core.Key) error {
	r.log("key released %s", k)
	return nil
}

func (r *recorder) MouseMoved(_ *engine.AppContext, _ core.DeviceID, x, y float32) error {
	r.log("mouse moved %g,%g", x, y)
	return nil
}

func (r *recorder) MouseButtonPressed(_ *engine.AppContext, _ core.DeviceID, b core.MouseButton) error {
	r.log("mouse pressed %s", b)
	return nil
}

func (r *recorder) Scroll(_ *engine.AppContext, _ core.DeviceID, dx, dy float32) error {
	r.log("scroll %g,%g", dx, dy)
	return nil
}

func (r *recorder) GamepadConnected(_ *engine.AppContext, d core.DeviceID) error {
	r.log("gamepad connected %s", d)
	return nil
}

func (r *recorder) GamepadButtonPressed(_ *engine.AppContext, d core.DeviceID, b core.GamepadButton) error {
	r.log("gamepad pressed %s %s", d, b)
	return nil
}

func (r *recorder) GamepadAxisChanged(_ *engine.AppContext, d core.DeviceID, a core.Axis, v float32) error {
	r.log("gamepad axis %s %s %g", d, a, v)
	return nil
}

type watcher struct {
	*recorder
}

func (w watcher) AssetChanged(_ *engine.AppContext, name string) error {
	w.log("asset %s", name)
	return nil
}

func newEngine(t *testing.T, w *fakeWindow) (*engine.Engine, *renderertest.Backend) {
	t.Helper()
	if w.width == 0 && w.height == 0 {
		w.width, w.height = 800, 600
	}
	if w.scale == 0 {
		w.scale = 1
	}
	b := renderertest.New()
	e, err := engine.New(engine.DefaultApplicationConfig(), w, b)
	require.NoError(t, err)
	return e, b
}

func run(t *testing.T, e *engine.Engine, g engine.Game) {
	t.Helper()
	require.NoError(t, e.Run(func(*engine.AppContext) (engine.Game, error) { return g, nil }))
}

func TestExitKeepsRestOfTick(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{
		{
			platform.KeyInput{Device: mouse, Key: glfw.KeyEscape, Action: glfw.Press},
			platform.CursorMoved{Device: mouse, X: 10, Y: 10},
		},
		{platform.CharInput{Char: 'x'}},
	}}
	e, b := newEngine(t, w)
	g := &recorder{}
	run(t, e, g)

	assert.Equal(t, []string{"key pressed Escape", "mouse moved 10,10", "update"}, g.calls)
	assert.Equal(t, 1, w.polls)
	assert.Zero(t, b.Acquires)
	assert.Equal(t, engine.EngineStageShuttingDown, e.Stage())
}

func TestTickOrder(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{platform.CharInput{Char: 'a'}}}}
	e, _ := newEngine(t, w)
	e.Proxy().Send(core.UserEvent{Payload: gamepad.Event{Joystick: 2, Kind: gamepad.Connected}})
	g := &recorder{}
	run(t, e, g)

	// close arrives on the second tick, which still runs update
	assert.Equal(t, []string{"char a", "gamepad connected gamepad#2", "update", "render", "update"}, g.calls)
}

func TestSubmitPresentsOnce(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{}, {}}}
	e, b := newEngine(t, w)
	var second []error
	g := &recorder{onRender: func(ctx *engine.RenderContext) error {
		if err := ctx.SubmitCommands(nil); err != nil {
			return err
		}
		second = append(second, ctx.Submit())
		return nil
	}}
	run(t, e, g)

	assert.Equal(t, 2, b.Presents)
	assert.Equal(t, 2, b.Acquires)
	require.Len(t, second, 2)
	for _, err := range second {
		assert.ErrorIs(t, err, renderer.ErrFrameAlreadyPresented)
	}
}

func TestRenderWithoutSubmitSkipsFrame(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{}, {}}}
	e, b := newEngine(t, w)
	g := &recorder{}
	run(t, e, g)

	assert.Contains(t, g.calls, "render")
	assert.Zero(t, b.Acquires)
	assert.Zero(t, b.Presents)
}

func TestSubmitDrawables(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{}}}
	e, b := newEngine(t, w)
	g := &recorder{}
	g.onRender = func(ctx *engine.RenderContext) error { return nil }
	require.NoError(t, e.Run(func(ctx *engine.AppContext) (engine.Game, error) {
		batch, err := ctx.NewBatchFromColor(renderer.Color{R: 1, A: 1})
		if err != nil {
			return nil, err
		}
		batch.Add(spriteAt(10, 10))
		g.onRender = func(ctx *engine.RenderContext) error { return ctx.Submit(batch) }
		return g, nil
	}))

	assert.Equal(t, 1, b.Presents)
	assert.Equal(t, renderertest.Call("DrawIndexed 0..6 0 0..1"), b.Calls[len(b.Calls)-1])
}

func TestResizeIsIdempotent(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{
		platform.Resized{Width: 1024, Height: 768},
		platform.Resized{Width: 1024, Height: 768},
	}}}
	e, b := newEngine(t, w)
	var scale [2]float32
	g := &recorder{onUpdate: func(ctx *engine.AppContext) error {
		scale = ctx.Scale()
		return nil
	}}
	run(t, e, g)

	assert.Equal(t, [][2]uint32{{800, 600}, {1024, 768}}, b.Configures)
	assert.Equal(t, []string{"resize 1024x768", "resize 1024x768"}, g.calls[:2])
	assert.Equal(t, [2]float32{1024, 768}, scale)
}

func TestScaleFactor(t *testing.T) {
	w := &fakeWindow{
		width: 1600, height: 1200, scale: 2,
		ticks: [][]core.Event{{
			platform.CursorMoved{Device: mouse, X: 200, Y: 100},
			platform.CursorMoved{Device: mouse, X: -5, Y: 5000},
			platform.ScaleFactorChanged{ScaleFactor: 1},
		}},
	}
	e, b := newEngine(t, w)
	var cursor [2]float32
	g := &recorder{onUpdate: func(ctx *engine.AppContext) error {
		cursor[0], cursor[1] = ctx.Cursor()
		return nil
	}}
	run(t, e, g)

	assert.Equal(t, []string{"mouse moved 100,50", "mouse moved 0,600", "resize 1600x1200"}, g.calls[:3])
	assert.Equal(t, [2]float32{0, 600}, cursor)
	assert.Equal(t, [][2]uint32{{1600, 1200}}, b.Configures)
}

func TestMinimizeSuspendsRender(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{
		{platform.Resized{}},
		{},
		{platform.Resized{Width: 800, Height: 600}},
	}}
	e, b := newEngine(t, w)
	renders := 0
	g := &recorder{onRender: func(ctx *engine.RenderContext) error {
		renders++
		return ctx.SubmitCommands(nil)
	}}
	run(t, e, g)

	assert.Equal(t, 1, renders)
	assert.Equal(t, 1, b.Presents)
	assert.Len(t, b.Configures, 1)
}

func TestUnmappedKeysAreDropped(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{
		platform.KeyInput{Device: mouse, Key: glfw.KeyWorld1, Action: glfw.Press},
		platform.KeyInput{Device: mouse, Key: glfw.KeyA, Action: glfw.Repeat},
		platform.KeyInput{Device: mouse, Key: glfw.KeyA, Action: glfw.Release},
		platform.MouseButtonInput{Device: mouse, Button: glfw.MouseButton(40), Action: glfw.Press},
	}}}
	e, _ := newEngine(t, w)
	g := &recorder{}
	run(t, e, g)

	assert.Equal(t, []string{"key pressed A", "key released A", "mouse pressed Unknown", "update"}, g.calls[:4])
}

func TestScrollPixelFactor(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{
		platform.Scroll{Device: mouse, DX: 10, DY: 20, Pixels: true},
		platform.Scroll{Device: mouse, DX: 1, DY: -1},
	}}}
	e, _ := newEngine(t, w)
	g := &recorder{opts: engine.Options{ScrollPixelFactor: 10}}
	run(t, e, g)

	assert.Equal(t, []string{"scroll 1,2", "scroll 1,-1"}, g.calls[:2])
}

func TestGamepadEvents(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{}}}
	e, _ := newEngine(t, w)
	for _, ev := range []gamepad.Event{
		{Joystick: 0, Kind: gamepad.ButtonPressed, Button: glfw.ButtonA},
		{Joystick: 0, Kind: gamepad.AxisChanged, Axis: glfw.AxisLeftTrigger, Value: 0.5},
	} {
		e.Proxy().Send(core.UserEvent{Payload: ev})
	}
	g := &recorder{}
	run(t, e, g)

	assert.Equal(t, []string{
		"gamepad pressed gamepad#0 South",
		"gamepad axis gamepad#0 LeftZ 0.5",
	}, g.calls[:2])
}

func TestAssetChangesReachWatchers(t *testing.T) {
	w := &fakeWindow{ticks: [][]core.Event{{}}}
	e, _ := newEngine(t, w)
	e.Proxy().Send(core.UserEvent{Payload: assets.Changed{Name: "sheets/hero.png"}})
	g := watcher{&recorder{}}
	run(t, e, g)
	assert.Equal(t, "asset sheets/hero.png", g.calls[0])
}

func TestCloseFromAnotherGoroutine(t *testing.T) {
	w := &fakeWindow{endless: true}
	e, _ := newEngine(t, w)
	go func() {
		time.Sleep(20 * time.Millisecond)
		e.Proxy().Send(core.CloseRequested{})
	}()

	done := make(chan error, 1)
	go func() {
		done <- e.Run(func(*engine.AppContext) (engine.Game, error) { return &recorder{}, nil })
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
	assert.Positive(t, w.wakes.Load())
}

func TestCallbackErrorStopsLoop(t *testing.T) {
	boom := errors.New("boom")
	w := &fakeWindow{endless: true}
	e, _ := newEngine(t, w)
	g := &recorder{onUpdate: func(*engine.AppContext) error { return boom }}

	err := e.Run(func(*engine.AppContext) (engine.Game, error) { return g, nil })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "update")
	assert.Equal(t, []string{"update"}, g.calls)
}

func TestFactoryErrors(t *testing.T) {
	e, _ := newEngine(t, &fakeWindow{})
	boom := errors.New("boom")
	err := e.Run(func(*engine.AppContext) (engine.Game, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	e, _ = newEngine(t, &fakeWindow{})
	assert.Panics(t, func() {
		_ = e.Run(func(ctx *engine.AppContext) (engine.Game, error) {
			ctx.Exit()
			return &recorder{}, nil
		})
	})
}

func TestContextInvalidAfterCallback(t *testing.T) {
	e, _ := newEngine(t, &fakeWindow{})
	var leaked *engine.AppContext
	g := &recorder{onUpdate: func(ctx *engine.AppContext) error {
		leaked = ctx
		return nil
	}}
	run(t, e, g)

	assert.PanicsWithValue(t, core.ErrContextReleased, func() { leaked.Exit() })
	assert.PanicsWithValue(t, core.ErrContextReleased, func() { _ = leaked.Scale() })
}

func TestAppContextSheetErrors(t *testing.T) {
	e, _ := newEngine(t, &fakeWindow{})
	var sheetErr, assetErr error
	g := &recorder{onUpdate: func(ctx *engine.AppContext) error {
		_, sheetErr = ctx.NewSheetFromBytes([]byte("garbage"))
		_, assetErr = ctx.NewSheetFromAsset("hero.png")
		return nil
	}}
	run(t, e, g)

	var re *core.ResourceError
	require.True(t, errors.As(sheetErr, &re))
	assert.Equal(t, core.ResourceSheet, re.Kind)
	require.True(t, errors.As(assetErr, &re))
	assert.Equal(t, core.ResourceAsset, re.Kind)
}
