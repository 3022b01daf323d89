package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/tinta/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Glfw does not expose the id of the keyboard or mouse that produced an
// event, so every window input carries this device.
var windowDevice = core.WindowSystemDevice(0)

type WindowConfig struct {
	Title  string
	Width  uint32
	Height uint32
}

// Window is a glfw window without a client API, ready for a Vulkan surface.
// Its callbacks buffer events until the next PollEvents.
type Window struct {
	handle  *glfw.Window
	pending []core.Event
}

func NewWindow(cfg WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &core.BackendError{Op: "initialize glfw", Err: err}
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	handle, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, &core.BackendError{Op: "create window", Err: err}
	}

	w := &Window{handle: handle}
	handle.SetKeyCallback(w.keyCallback)
	handle.SetCharCallback(w.charCallback)
	handle.SetMouseButtonCallback(w.mouseButtonCallback)
	handle.SetCursorPosCallback(w.cursorPosCallback)
	handle.SetScrollCallback(w.scrollCallback)
	handle.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	handle.SetContentScaleCallback(w.contentScaleCallback)
	handle.SetCloseCallback(w.closeCallback)
	handle.Show()

	core.LogInfo("window created: %s (%dx%d)", cfg.Title, cfg.Width, cfg.Height)
	return w, nil
}

func (w *Window) PollEvents() []core.Event {
	glfw.PollEvents()
	events := w.pending
	w.pending = nil
	return events
}

// Wake interrupts a blocking wait for events. Safe to call from any goroutine.
func (w *Window) Wake() {
	glfw.PostEmptyEvent()
}

func (w *Window) FramebufferSize() (uint32, uint32) {
	width, height := w.handle.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (w *Window) ContentScale() float64 {
	x, _ := w.handle.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

// CreateWindowSurface creates a VkSurfaceKHR for instance, which must be a
// vk.Instance.
func (w *Window) CreateWindowSurface(instance interface{}) (uintptr, error) {
	return w.handle.CreateWindowSurface(instance, nil)
}

func (w *Window) Shutdown() {
	w.handle.Destroy()
	glfw.Terminate()
}

func (w *Window) push(e core.Event) {
	w.pending = append(w.pending, e)
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	w.push(KeyInput{Device: windowDevice, Key: key, Action: action})
}

func (w *Window) charCallback(_ *glfw.Window, char rune) {
	w.push(CharInput{Char: char})
}

func (w *Window) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	w.push(MouseButtonInput{Device: windowDevice, Button: button, Action: action})
}

func (w *Window) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	// glfw reports the cursor in screen coordinates; scale to pixels so every
	// position the engine sees is physical.
	fw, _ := w.handle.GetFramebufferSize()
	ww, _ := w.handle.GetSize()
	ratio := 1.0
	if ww > 0 {
		ratio = float64(fw) / float64(ww)
	}
	w.push(CursorMoved{Device: windowDevice, X: xpos * ratio, Y: ypos * ratio})
}

// glfw scroll offsets are always in lines.
func (w *Window) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	w.push(Scroll{Device: windowDevice, DX: xoff, DY: yoff})
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	w.push(Resized{Width: uint32(width), Height: uint32(height)})
}

func (w *Window) contentScaleCallback(_ *glfw.Window, x, _ float32) {
	w.push(ScaleFactorChanged{ScaleFactor: float64(x)})
}

func (w *Window) closeCallback(_ *glfw.Window) {
	w.handle.SetShouldClose(false)
	w.push(core.CloseRequested{})
}
