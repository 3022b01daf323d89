package renderer

import (
	"errors"

	"github.com/spaghettifunk/tinta/engine/core"
)

var ErrFrameAlreadyPresented = errors.New("frame already presented in this render callback")

// Graphics sits between the run loop and a Backend. It tracks the surface
// size and the view scale, and turns one render callback into at most one
// presented frame.
type Graphics struct {
	backend Backend
	width   uint32
	height  uint32
	scale   [2]float32
	clear   Color
}

// NewGraphics configures the backend surface for width x height pixels.
func NewGraphics(backend Backend, width, height uint32, clear Color) (*Graphics, error) {
	g := &Graphics{
		backend: backend,
		clear:   clear,
	}
	if err := g.Resize(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

// Resize reconfigures the surface. Identical dimensions and a minimized (zero)
// size leave the surface untouched.
func (g *Graphics) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if width == g.width && height == g.height {
		return nil
	}
	if err := g.backend.Configure(width, height); err != nil {
		return &core.BackendError{Op: "configure surface", Err: err}
	}
	g.width = width
	g.height = height
	core.LogDebug("surface configured: %dx%d", width, height)
	return nil
}

func (g *Graphics) Size() (uint32, uint32) {
	return g.width, g.height
}

// Scale is the size of the visible area in drawing units.
func (g *Graphics) Scale() [2]float32 {
	return g.scale
}

func (g *Graphics) SetScale(scale [2]float32) {
	g.scale = scale
}

func (g *Graphics) ClearColor() Color {
	return g.clear
}

func (g *Graphics) SetClearColor(c Color) {
	g.clear = c
}

func (g *Graphics) Device() Device {
	return g.backend
}

// Render runs draw with a Presenter valid for the duration of the call. A
// callback that never presents skips the frame. Backend failures are
// returned even if draw swallowed them.
func (g *Graphics) Render(draw func(p *Presenter) error) error {
	p := &Presenter{g: g}
	err := draw(p)
	p.done = true
	if err != nil {
		return err
	}
	return p.err
}

// Presenter submits the one frame of a render callback.
type Presenter struct {
	g         *Graphics
	presented bool
	done      bool
	err       error
}

// Presented reports whether a frame was submitted.
func (p *Presenter) Presented() bool {
	return p.presented
}

// Present acquires a frame, executes list in a single pass and presents it.
// Only the first call per callback has an effect. A frame the backend drops
// while rebuilding its swapchain counts as presented.
func (p *Presenter) Present(list CommandList) error {
	if p.done {
		panic(core.ErrContextReleased)
	}
	if p.presented {
		return ErrFrameAlreadyPresented
	}
	p.presented = true
	p.err = p.g.present(list)
	return p.err
}

func (g *Graphics) present(list CommandList) error {
	frame, err := g.backend.AcquireFrame()
	if errors.Is(err, core.ErrSwapchainBooting) {
		core.LogDebug("frame skipped: %s", err)
		return nil
	}
	if err != nil {
		return &core.BackendError{Op: "acquire frame", Err: err}
	}
	pass, err := frame.BeginPass(g.clear)
	if err != nil {
		passErr := &core.BackendError{Op: "begin pass", Err: err}
		// The acquired image still has to go back to the surface.
		if err := frame.Present(); err != nil {
			return errors.Join(passErr, &core.BackendError{Op: "present", Err: err})
		}
		return passErr
	}
	execErr := list.Execute(pass)
	if err := frame.Present(); err != nil {
		return errors.Join(execErr, &core.BackendError{Op: "present", Err: err})
	}
	return execErr
}
